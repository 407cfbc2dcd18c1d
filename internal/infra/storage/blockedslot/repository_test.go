package blockedslot

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Колонки, на которые ссылаются запросы репозитория, должны существовать
// в DDL таблицы blocked_slots.
func TestMigrationDefinesRepositoryColumns(t *testing.T) {
	ddl, err := os.ReadFile("../../../../migrations/000001_init_schema.up.sql")
	require.NoError(t, err)

	table := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS blocked_slots \((.*?)\);`).
		FindSubmatch(ddl)
	require.NotNil(t, table, "blocked_slots DDL not found in migration")

	body := string(table[1])
	for _, column := range []string{"block_date", "time_slot", "staff_id", "reason", "created_at"} {
		assert.Regexp(t, `(?m)^\s*`+column+`\s`, body, "column %s missing from blocked_slots", column)
	}
}

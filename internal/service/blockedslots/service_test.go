package blockedslots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonix/SLN-BookingService/internal/domain"
	blockStorage "github.com/salonix/SLN-BookingService/internal/infra/storage/blockedslot"
	staffStorage "github.com/salonix/SLN-BookingService/internal/infra/storage/staff"
	"github.com/salonix/SLN-BookingService/internal/service/blockedslots/models"
	"github.com/salonix/SLN-BookingService/pkg/ptr"
)

type fakeBlockedSlotRepo struct {
	created *domain.BlockedSlot
	blocks  []*domain.BlockedSlot
	deleted []int64
}

func (f *fakeBlockedSlotRepo) Create(_ context.Context, block *domain.BlockedSlot) (*domain.BlockedSlot, error) {
	out := *block
	out.ID = 11
	out.CreatedAt = time.Now()
	f.created = &out
	return &out, nil
}

func (f *fakeBlockedSlotRepo) Delete(_ context.Context, id int64) error {
	for _, b := range f.blocks {
		if b.ID == id {
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return blockStorage.ErrBlockNotFound
}

func (f *fakeBlockedSlotRepo) ListByDate(_ context.Context, _ time.Time) ([]*domain.BlockedSlot, error) {
	return f.blocks, nil
}

type fakeStaffRepo struct {
	staff map[int64]*domain.Staff
}

func (f *fakeStaffRepo) GetActiveByID(_ context.Context, id int64) (*domain.Staff, error) {
	s, ok := f.staff[id]
	if !ok {
		return nil, staffStorage.ErrStaffNotFound
	}
	return s, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(t *testing.T) (*Service, *fakeBlockedSlotRepo) {
	t.Helper()

	grid, err := domain.NewGrid(10, 20, 30)
	require.NoError(t, err)

	repo := &fakeBlockedSlotRepo{}
	staff := &fakeStaffRepo{staff: map[int64]*domain.Staff{3: {ID: 3, Name: "Anna", IsActive: true}}}
	return NewService(repo, staff, grid, nopLogger{}), repo
}

func blockDate() time.Time {
	return time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
}

func TestCreate_SlotBlock(t *testing.T) {
	svc, repo := newTestService(t)

	resp, err := svc.Create(context.Background(), &models.CreateBlockedSlotRequest{
		Date:     blockDate(),
		TimeSlot: "2:00 PM",
		Reason:   ptr.Ptr("maintenance"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "2:00 PM", resp.TimeSlot)
	assert.Nil(t, repo.created.StaffID)
}

func TestCreate_NormalizesLabel(t *testing.T) {
	svc, repo := newTestService(t)

	resp, err := svc.Create(context.Background(), &models.CreateBlockedSlotRequest{
		Date:     blockDate(),
		TimeSlot: "2:00 pm",
	})
	require.NoError(t, err)

	assert.Equal(t, "2:00 PM", resp.TimeSlot)
	assert.Equal(t, "2:00 PM", repo.created.TimeSlot)
}

func TestCreate_AllDayBlock(t *testing.T) {
	svc, repo := newTestService(t)

	resp, err := svc.Create(context.Background(), &models.CreateBlockedSlotRequest{
		Date:     blockDate(),
		TimeSlot: domain.AllDaySlot,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AllDaySlot, resp.TimeSlot)
	assert.True(t, repo.created.IsAllDay())
}

func TestCreate_StaffLaneBlock(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Create(context.Background(), &models.CreateBlockedSlotRequest{
		Date:     blockDate(),
		TimeSlot: "2:00 PM",
		StaffID:  ptr.Ptr(int64(3)),
	})
	require.NoError(t, err)

	require.NotNil(t, repo.created.StaffID)
	assert.Equal(t, int64(3), *repo.created.StaffID)
}

func TestCreate_StaffNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &models.CreateBlockedSlotRequest{
		Date:     blockDate(),
		TimeSlot: "2:00 PM",
		StaffID:  ptr.Ptr(int64(99)),
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateBlockedSlotRequest
	}{
		{name: "missing date", req: models.CreateBlockedSlotRequest{TimeSlot: "2:00 PM"}},
		{name: "missing slot", req: models.CreateBlockedSlotRequest{Date: blockDate()}},
		{name: "slot outside grid", req: models.CreateBlockedSlotRequest{Date: blockDate(), TimeSlot: "9:00 AM"}},
		{name: "garbage slot", req: models.CreateBlockedSlotRequest{Date: blockDate(), TimeSlot: "when convenient"}},
		{name: "non-positive staff", req: models.CreateBlockedSlotRequest{Date: blockDate(), TimeSlot: "2:00 PM", StaffID: ptr.Ptr(int64(0))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			_, err := svc.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService(t)
	repo.blocks = []*domain.BlockedSlot{{ID: 11, Date: blockDate(), TimeSlot: "2:00 PM"}}

	err := svc.Delete(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, []int64{11}, repo.deleted)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestListByDate(t *testing.T) {
	svc, repo := newTestService(t)
	repo.blocks = []*domain.BlockedSlot{
		{ID: 1, Date: blockDate(), TimeSlot: "2:00 PM"},
		{ID: 2, Date: blockDate(), TimeSlot: domain.AllDaySlot, StaffID: ptr.Ptr(int64(3))},
	}

	resp, err := svc.ListByDate(context.Background(), blockDate())
	require.NoError(t, err)
	require.Len(t, resp.BlockedSlots, 2)
	assert.Equal(t, "2026-09-15", resp.BlockedSlots[0].Date)
}

func TestListByDate_MissingDate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListByDate(context.Background(), time.Time{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

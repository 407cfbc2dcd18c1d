package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonix/SLN-BookingService/internal/domain"
	apptStorage "github.com/salonix/SLN-BookingService/internal/infra/storage/appointment"
	"github.com/salonix/SLN-BookingService/internal/integrations/notifier"
	"github.com/salonix/SLN-BookingService/internal/service/appointments/models"
	"github.com/salonix/SLN-BookingService/pkg/ptr"
)

type fakeAppointmentRepo struct {
	byID map[int64]*domain.Appointment

	cancelErr     error
	cancelled     []int64
	updatedStatus map[int64]domain.AppointmentStatus
	byUser        []*domain.Appointment
	daySheet      []*domain.Appointment
	lastFilter    domain.DayFilter
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		byID:          map[int64]*domain.Appointment{},
		updatedStatus: map[int64]domain.AppointmentStatus{},
	}
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.byID[id]
	if !ok {
		return nil, apptStorage.ErrAppointmentNotFound
	}
	return appt, nil
}

func (f *fakeAppointmentRepo) GetByUserID(_ context.Context, _ int64, _ *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return f.byUser, nil
}

func (f *fakeAppointmentRepo) ListByDayWithItems(_ context.Context, filter domain.DayFilter) ([]*domain.Appointment, error) {
	f.lastFilter = filter
	return f.daySheet, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if _, ok := f.byID[id]; !ok {
		return apptStorage.ErrAppointmentNotFound
	}
	f.updatedStatus[id] = status
	return nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id int64, _ string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeCatalogRepo struct {
	restocked    []int64
	incrementErr error
}

func (f *fakeCatalogRepo) IncrementStock(_ context.Context, productID int64) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.restocked = append(f.restocked, productID)
	return nil
}

type fakeTxManager struct {
	rolledBack bool
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err != nil {
		f.rolledBack = true
	}
	return err
}

func (f *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	sent chan notifier.CancellationNotice
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan notifier.CancellationNotice, 1)}
}

func (f *fakeNotifier) SendCancellationNotice(_ context.Context, msg notifier.CancellationNotice) error {
	f.sent <- msg
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService() (*Service, *fakeAppointmentRepo, *fakeCatalogRepo, *fakeTxManager) {
	apptRepo := newFakeAppointmentRepo()
	catalog := &fakeCatalogRepo{}
	tx := &fakeTxManager{}
	svc := NewService(apptRepo, catalog, newFakeNotifier(), tx, nopLogger{})
	return svc, apptRepo, catalog, tx
}

func storedAppointment(id, userID int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		UserID:          userID,
		Date:            time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "2:00 PM",
		DurationMinutes: 30,
		Status:          status,
		Products:        []int64{10, 10},
		TotalAmount:     700,
	}
}

func TestGetByID_Owner(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)

	resp, err := svc.GetByID(context.Background(), 1, 5, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "2:00 PM", resp.TimeSlot)
	assert.Equal(t, "2026-09-15", resp.Date)
}

func TestGetByID_ForeignAppointment(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)

	_, err := svc.GetByID(context.Background(), 1, 99, false)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_AdminSeesAny(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)

	resp, err := svc.GetByID(context.Background(), 1, 99, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GetByID(context.Background(), 404, 5, false)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetUserAppointments_InvalidStatus(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{
		UserID: 5,
		Status: ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetDaySheet_AllLanesWithoutStaffFilter(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.daySheet = []*domain.Appointment{storedAppointment(1, 5, domain.StatusConfirmed)}

	resp, err := svc.GetDaySheet(context.Background(), &models.GetDaySheetRequest{
		Date: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, apptRepo.lastFilter.AnyLane)
	assert.Nil(t, apptRepo.lastFilter.StaffID)
	assert.Len(t, resp.Appointments, 1)
}

func TestGetDaySheet_StaffFilterNarrowsLane(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()

	_, err := svc.GetDaySheet(context.Background(), &models.GetDaySheetRequest{
		Date:    time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StaffID: ptr.Ptr(int64(3)),
	})
	require.NoError(t, err)

	assert.False(t, apptRepo.lastFilter.AnyLane)
	require.NotNil(t, apptRepo.lastFilter.StaffID)
	assert.Equal(t, int64(3), *apptRepo.lastFilter.StaffID)
}

func TestGetDaySheet_ChronologicalOrder(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()

	// Хранилище отдает записи в порядке создания; лексически "1:00 PM"
	// предшествует "10:00 AM", хронологически наоборот
	first := storedAppointment(1, 5, domain.StatusConfirmed)
	first.TimeSlot = "1:00 PM"
	second := storedAppointment(2, 6, domain.StatusConfirmed)
	second.TimeSlot = "10:00 AM"
	third := storedAppointment(3, 7, domain.StatusConfirmed)
	third.TimeSlot = "7:30 PM"
	apptRepo.daySheet = []*domain.Appointment{first, second, third}

	resp, err := svc.GetDaySheet(context.Background(), &models.GetDaySheetRequest{
		Date: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, resp.Appointments, 3)
	assert.Equal(t, "10:00 AM", resp.Appointments[0].TimeSlot)
	assert.Equal(t, "1:00 PM", resp.Appointments[1].TimeSlot)
	assert.Equal(t, "7:30 PM", resp.Appointments[2].TimeSlot)
}

func TestCancel_SendsCancellationNotice(t *testing.T) {
	apptRepo := newFakeAppointmentRepo()
	sender := newFakeNotifier()
	svc := NewService(apptRepo, &fakeCatalogRepo{}, sender, &fakeTxManager{}, nopLogger{})
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 5})
	require.NoError(t, err)

	select {
	case msg := <-sender.sent:
		assert.Equal(t, int64(1), msg.AppointmentID)
		assert.Equal(t, int64(5), msg.UserID)
		assert.Equal(t, "2:00 PM", msg.TimeSlot)
	case <-time.After(2 * time.Second):
		t.Fatal("cancellation notice was not sent")
	}
}

func TestCancel_OwnerRestocksProducts(t *testing.T) {
	svc, apptRepo, catalog, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID:             5,
		CancellationReason: "plans changed",
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, apptRepo.cancelled)
	// Две единицы одного товара возвращаются по отдельности
	assert.Equal(t, []int64{10, 10}, catalog.restocked)
}

func TestCancel_ForeignAppointmentDenied(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_AdminCancelsAny(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID:  99,
		IsAdmin: true,
	})
	assert.NoError(t, err)
}

func TestCancel_CompletedAppointment(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusCompleted)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 5})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusCancelled)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 5})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_RestockFailureRollsBack(t *testing.T) {
	svc, apptRepo, catalog, tx := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)
	catalog.incrementErr = errors.New("storage unavailable")

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 5})
	assert.ErrorIs(t, err, ErrInternal)
	assert.True(t, tx.rolledBack)
}

func TestCancel_ConcurrentStatusChange(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)
	apptRepo.cancelErr = apptStorage.ErrAppointmentNotFound

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 5})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)

	long := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID:             5,
		CancellationReason: string(long),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_ValidTransition(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: 99,
		Status: "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, apptRepo.updatedStatus[1])
}

func TestUpdateStatus_BackwardTransition(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusCompleted)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: 99,
		Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_CancellationGoesThroughCancel(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: 99,
		Status: "cancelled",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, apptRepo, _, _ := newTestService()
	apptRepo.byID[1] = storedAppointment(1, 5, domain.StatusConfirmed)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: 99,
		Status: "archived",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.UpdateStatus(context.Background(), 404, &models.UpdateStatusRequest{
		UserID: 99,
		Status: "completed",
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

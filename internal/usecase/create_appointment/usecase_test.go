package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonix/SLN-BookingService/internal/domain"
	apptStorage "github.com/salonix/SLN-BookingService/internal/infra/storage/appointment"
	catalogStorage "github.com/salonix/SLN-BookingService/internal/infra/storage/catalog"
	staffStorage "github.com/salonix/SLN-BookingService/internal/infra/storage/staff"
	"github.com/salonix/SLN-BookingService/internal/integrations/notifier"
	"github.com/salonix/SLN-BookingService/pkg/ptr"
)

type fakeAppointmentRepo struct {
	existing  []*domain.Appointment
	createErr error
	created   *domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *appt
	out.ID = 42
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	f.created = &out
	return &out, nil
}

func (f *fakeAppointmentRepo) ListByDay(_ context.Context, _ domain.DayFilter) ([]*domain.Appointment, error) {
	return f.existing, nil
}

type fakeCatalogRepo struct {
	services    []*domain.Service
	products    []*domain.Product
	stock       map[int64]int
	decremented []int64
}

func (f *fakeCatalogRepo) GetActiveServicesByIDs(_ context.Context, ids []int64) ([]*domain.Service, error) {
	out := make([]*domain.Service, 0, len(ids))
	for _, svc := range f.services {
		for _, id := range ids {
			if svc.ID == id {
				out = append(out, svc)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetActiveProductsByIDs(_ context.Context, ids []int64) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(ids))
	for _, p := range f.products {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) DecrementStock(_ context.Context, productID int64) error {
	left, ok := f.stock[productID]
	if !ok {
		return catalogStorage.ErrProductNotFound
	}
	if left <= 0 {
		return catalogStorage.ErrOutOfStock
	}
	f.stock[productID] = left - 1
	f.decremented = append(f.decremented, productID)
	return nil
}

type fakeBlockedSlotRepo struct {
	blockedLabels map[string]bool
}

func (f *fakeBlockedSlotRepo) ExistsForSlot(_ context.Context, _ time.Time, slot string, _ *int64) (bool, error) {
	return f.blockedLabels[slot], nil
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

type fakeNotifier struct {
	sent chan notifier.BookingConfirmation
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan notifier.BookingConfirmation, 1)}
}

func (f *fakeNotifier) SendBookingConfirmation(_ context.Context, msg notifier.BookingConfirmation) error {
	f.sent <- msg
	return nil
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc       *UseCase
	apptRepo *fakeAppointmentRepo
	catalog  *fakeCatalogRepo
	blocks   *fakeBlockedSlotRepo
	staff    *fakeStaffRepo
	notifier *fakeNotifier
	tx       *fakeTxManager
}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	grid, err := domain.NewGrid(10, 20, 30)
	require.NoError(t, err)

	f := &fixture{
		apptRepo: &fakeAppointmentRepo{},
		catalog: &fakeCatalogRepo{
			services: []*domain.Service{
				{ID: 1, Name: "Haircut", DurationMinutes: 45, PriceMale: 500, PriceFemale: 700, IsActive: true},
				{ID: 2, Name: "Coloring", DurationMinutes: 90, PriceMale: 1200, PriceFemale: 1500, IsActive: true},
			},
			products: []*domain.Product{
				{ID: 10, Name: "Shampoo", Price: 100, IsActive: true},
			},
			stock: map[int64]int{10: 5},
		},
		blocks:   &fakeBlockedSlotRepo{blockedLabels: map[string]bool{}},
		staff:    &fakeStaffRepo{staff: map[int64]*domain.Staff{3: {ID: 3, Name: "Anna", IsActive: true}}},
		notifier: newFakeNotifier(),
		tx:       &fakeTxManager{},
	}

	f.uc = NewUseCase(grid, f.apptRepo, f.catalog, f.blocks, f.staff, f.notifier, f.tx, 0, nopLogger{})
	f.uc.timeProvider = &fakeTimeProvider{now: testNow}
	return f
}

func validRequest() *Request {
	return &Request{
		UserID:   1,
		Date:     time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot: "2:00 PM",
		Services: []domain.ServiceSelection{{ServiceID: 1, Variant: domain.VariantMale}},
	}
}

func TestExecute_HappyPath(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Products = []int64{10, 10}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, 45, resp.DurationMinutes)
	// Серверная цена: услуга 500 + две единицы товара по 100
	assert.Equal(t, 700.0, resp.TotalAmount)

	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []int64{10, 10}, f.catalog.decremented)
	assert.Equal(t, 3, f.catalog.stock[10])

	select {
	case msg := <-f.notifier.sent:
		assert.Equal(t, int64(42), msg.AppointmentID)
		assert.Equal(t, "2:00 PM", msg.TimeSlot)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation was not sent")
	}
}

func TestExecute_FemaleVariantPrice(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Services = []domain.ServiceSelection{{ServiceID: 1, Variant: domain.VariantFemale}}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 700.0, resp.TotalAmount)
}

func TestExecute_SlotTakenByOverlappingAppointment(t *testing.T) {
	f := newFixture(t)

	// Запись 1:30 PM на 60 минут занимает слоты 1:30 PM и 2:00 PM
	f.apptRepo.existing = []*domain.Appointment{
		{ID: 7, TimeSlot: "1:30 PM", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_CancelledAppointmentDoesNotConflict(t *testing.T) {
	f := newFixture(t)

	f.apptRepo.existing = []*domain.Appointment{
		{ID: 7, TimeSlot: "2:00 PM", DurationMinutes: 30, Status: domain.StatusCancelled},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_SlotTakenOnUniqueIndexConflict(t *testing.T) {
	f := newFixture(t)
	f.apptRepo.createErr = apptStorage.ErrSlotTaken

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_SlotBlockedInsideSpan(t *testing.T) {
	f := newFixture(t)

	// Услуга на 90 минут с 2:00 PM занимает слоты до 3:30 PM;
	// блок на 3:00 PM ломает цепочку
	f.blocks.blockedLabels["3:00 PM"] = true

	req := validRequest()
	req.Services = []domain.ServiceSelection{{ServiceID: 2, Variant: domain.VariantMale}}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotBlocked)
}

func TestExecute_OutOfStock(t *testing.T) {
	f := newFixture(t)
	f.catalog.stock[10] = 1

	req := validRequest()
	req.Products = []int64{10, 10}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Nil(t, f.apptRepo.created)
}

func TestExecute_ProductNotFound(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Products = []int64{99}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Services = []domain.ServiceSelection{{ServiceID: 99, Variant: domain.VariantMale}}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_StaffNotFound(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.StaffID = ptr.Ptr(int64(99))

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_StaffLaneBooking(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.StaffID = ptr.Ptr(int64(3))

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ptr.Deref(resp.StaffID))
}

func TestExecute_SlotOutsideGrid(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.TimeSlot = "9:00 AM"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_SpanDoesNotFitWorkingDay(t *testing.T) {
	f := newFixture(t)

	// Последний слот сетки не вмещает цепочку из двух слотов
	req := validRequest()
	req.TimeSlot = "7:30 PM"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_SlotInPastToday(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Date = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	req.TimeSlot = "11:00 AM"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTimeSlotInPast)
}

func TestExecute_DateInPast(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Date = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "empty order", mutate: func(req *Request) {
			req.Services = nil
			req.Products = nil
		}},
		{name: "duplicate service", mutate: func(req *Request) {
			req.Services = []domain.ServiceSelection{
				{ServiceID: 1, Variant: domain.VariantMale},
				{ServiceID: 1, Variant: domain.VariantFemale},
			}
		}},
		{name: "unknown variant", mutate: func(req *Request) {
			req.Services = []domain.ServiceSelection{{ServiceID: 1, Variant: "unisex"}}
		}},
		{name: "non-positive user", mutate: func(req *Request) {
			req.UserID = 0
		}},
		{name: "non-positive staff", mutate: func(req *Request) {
			req.StaffID = ptr.Ptr(int64(0))
		}},
		{name: "non-positive product", mutate: func(req *Request) {
			req.Products = []int64{-1}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

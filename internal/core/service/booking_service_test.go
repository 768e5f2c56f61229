package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/core/ports"
)

type stubBookingRepo struct {
	mu         sync.Mutex
	bookings   []domain.Booking
	nextID     int64
	lastFilter domain.BookingFilter
	err        error
}

func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	stored := *b
	stored.ID = r.nextID
	r.bookings = append(r.bookings, stored)
	out := stored
	return &out, nil
}

func (r *stubBookingRepo) List(_ context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = f
	if r.err != nil {
		return nil, r.err
	}
	var matched []domain.Booking
	for _, b := range r.bookings {
		if b.UserID != f.OwnerID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		matched = append(matched, b)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	if f.Offset >= len(matched) {
		return nil, nil
	}
	end := min(f.Offset+f.Limit, len(matched))
	return matched[f.Offset:end], nil
}

func airportDraft() domain.BookingDraft {
	return domain.BookingDraft{
		Pickup:      domain.Location{Address: "Tocumen Airport"},
		Destination: domain.Location{Address: "Hotel Miramar"},
		PickupTime:  time.Date(2025, 11, 28, 14, 0, 0, 0, time.UTC),
		VehicleName: "Suburban",
		Passengers:  2,
		Price:       150.50,
		IsScheduled: true,
	}
}

func newTestBookingService(repo *stubBookingRepo) *BookingService {
	svc := NewBookingService(repo, discardLogger)
	clock := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func TestBookingService_Create(t *testing.T) {
	repo := &stubBookingRepo{}
	svc := newTestBookingService(repo)

	b, err := svc.Create(context.Background(), 7, airportDraft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if b.UserID != 7 {
		t.Fatalf("expected owner 7, got %d", b.UserID)
	}
	if b.Status != domain.BookingPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}
	if b.ServiceType != domain.DefaultServiceType {
		t.Fatalf("expected default service type, got %q", b.ServiceType)
	}
	if b.Price != 150.50 || b.Passengers != 2 {
		t.Fatalf("unexpected fields: %+v", b)
	}
	if b.CreatedAt.IsZero() || !b.CreatedAt.Equal(b.UpdatedAt) {
		t.Fatalf("expected created_at == updated_at, got %s / %s", b.CreatedAt, b.UpdatedAt)
	}
}

// counterValue reads one labelled series of a registered counter.
func counterValue(t *testing.T, name, label, value string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == label && l.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestBookingService_CreateCountsByServiceType(t *testing.T) {
	svc := newTestBookingService(&stubBookingRepo{})
	d := airportDraft()
	d.ServiceType = "counted_shuttle"

	before := counterValue(t, "vanelux_bookings_created_total", "service_type", "counted_shuttle")
	if _, err := svc.Create(context.Background(), 1, d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), 1, d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := counterValue(t, "vanelux_bookings_created_total", "service_type", "counted_shuttle"); got != before+2 {
		t.Fatalf("expected counter %v, got %v", before+2, got)
	}
}

func TestBookingService_CreateKeepsServiceType(t *testing.T) {
	svc := newTestBookingService(&stubBookingRepo{})
	d := airportDraft()
	d.ServiceType = "executive"

	b, err := svc.Create(context.Background(), 1, d)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ServiceType != "executive" {
		t.Fatalf("expected executive, got %q", b.ServiceType)
	}
}

func TestBookingService_CreateRejectsInvalidDraft(t *testing.T) {
	repo := &stubBookingRepo{}
	svc := newTestBookingService(repo)

	mutations := map[string]func(*domain.BookingDraft){
		"zero passengers":     func(d *domain.BookingDraft) { d.Passengers = 0 },
		"negative price":      func(d *domain.BookingDraft) { d.Price = -1 },
		"missing pickup":      func(d *domain.BookingDraft) { d.Pickup.Address = "" },
		"missing destination": func(d *domain.BookingDraft) { d.Destination.Address = "" },
		"missing pickup time": func(d *domain.BookingDraft) { d.PickupTime = time.Time{} },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			d := airportDraft()
			mutate(&d)
			if _, err := svc.Create(context.Background(), 1, d); !errors.Is(err, domain.ErrInvalidBooking) {
				t.Fatalf("expected ErrInvalidBooking, got %v", err)
			}
		})
	}
	if len(repo.bookings) != 0 {
		t.Fatalf("invalid drafts must not be stored, got %d", len(repo.bookings))
	}
}

func TestBookingService_CreatePropagatesStoreError(t *testing.T) {
	svc := newTestBookingService(&stubBookingRepo{err: domain.ErrStoreUnavailable})
	if _, err := svc.Create(context.Background(), 1, airportDraft()); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestBookingService_ListScopedAndOrdered(t *testing.T) {
	repo := &stubBookingRepo{}
	svc := newTestBookingService(repo)
	ctx := context.Background()

	first, _ := svc.Create(ctx, 1, airportDraft())
	second, _ := svc.Create(ctx, 1, airportDraft())
	if _, err := svc.Create(ctx, 2, airportDraft()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	out, err := svc.List(ctx, ports.ListBookingsInput{OwnerID: 1, Page: 1, PageSize: DefaultPageSize})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 bookings for owner 1, got %d", len(out))
	}
	if out[0].ID != second.ID || out[1].ID != first.ID {
		t.Fatalf("expected newest first, got ids %d, %d", out[0].ID, out[1].ID)
	}
}

func TestBookingService_ListPagination(t *testing.T) {
	repo := &stubBookingRepo{}
	svc := newTestBookingService(repo)
	ctx := context.Background()
	for range 5 {
		if _, err := svc.Create(ctx, 1, airportDraft()); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page2, err := svc.List(ctx, ports.ListBookingsInput{OwnerID: 1, Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page2) != 2 || page2[0].ID != 3 || page2[1].ID != 2 {
		t.Fatalf("unexpected page 2: %+v", page2)
	}
	if repo.lastFilter.Offset != 2 || repo.lastFilter.Limit != 2 {
		t.Fatalf("unexpected filter: %+v", repo.lastFilter)
	}

	beyond, err := svc.List(ctx, ports.ListBookingsInput{OwnerID: 1, Page: 10, PageSize: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if beyond == nil || len(beyond) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", beyond)
	}
}

func TestBookingService_ListClampsPageSize(t *testing.T) {
	repo := &stubBookingRepo{}
	svc := newTestBookingService(repo)

	if _, err := svc.List(context.Background(), ports.ListBookingsInput{OwnerID: 1, Page: 1, PageSize: 1000}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastFilter.Limit != MaxPageSize {
		t.Fatalf("expected limit clamped to %d, got %d", MaxPageSize, repo.lastFilter.Limit)
	}
}

func TestBookingService_ListRejectsNonPositivePaging(t *testing.T) {
	svc := newTestBookingService(&stubBookingRepo{})
	for _, in := range []ports.ListBookingsInput{
		{OwnerID: 1, Page: 0, PageSize: 10},
		{OwnerID: 1, Page: 1, PageSize: 0},
		{OwnerID: 1, Page: -1, PageSize: 10},
	} {
		if _, err := svc.List(context.Background(), in); !errors.Is(err, domain.ErrInvalidPagination) {
			t.Fatalf("expected ErrInvalidPagination for %+v, got %v", in, err)
		}
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		page, size    int
		limit, offset int
		wantErr       bool
	}{
		{page: 1, size: 50, limit: 50, offset: 0},
		{page: 3, size: 20, limit: 20, offset: 40},
		{page: 2, size: 500, limit: MaxPageSize, offset: MaxPageSize},
		{page: 0, size: 10, wantErr: true},
		{page: 1, size: 0, wantErr: true},
	}
	for _, tt := range tests {
		limit, offset, err := Window(tt.page, tt.size)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrInvalidPagination) {
				t.Errorf("Window(%d, %d): expected ErrInvalidPagination, got %v", tt.page, tt.size, err)
			}
			continue
		}
		if err != nil || limit != tt.limit || offset != tt.offset {
			t.Errorf("Window(%d, %d) = %d, %d, %v; want %d, %d", tt.page, tt.size, limit, offset, err, tt.limit, tt.offset)
		}
	}
}

func TestBookingService_ListStatusFilter(t *testing.T) {
	repo := &stubBookingRepo{}
	svc := newTestBookingService(repo)
	ctx := context.Background()
	if _, err := svc.Create(ctx, 1, airportDraft()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	pending, _ := svc.List(ctx, ports.ListBookingsInput{OwnerID: 1, Status: domain.BookingPending, Page: 1, PageSize: 10})
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending booking, got %d", len(pending))
	}
	confirmed, _ := svc.List(ctx, ports.ListBookingsInput{OwnerID: 1, Status: domain.BookingConfirmed, Page: 1, PageSize: 10})
	if len(confirmed) != 0 {
		t.Fatalf("expected no confirmed bookings, got %d", len(confirmed))
	}

	unknown, err := svc.List(ctx, ports.ListBookingsInput{OwnerID: 1, Status: "teleported", Page: 1, PageSize: 10})
	if err != nil || unknown == nil || len(unknown) != 0 {
		t.Fatalf("expected empty result for unknown status, got %#v, %v", unknown, err)
	}
}

package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// memDB backs the in-memory stores below with the same conditional
// semantics as the MySQL repositories.
type memDB struct {
	mu       sync.Mutex
	services map[domain.ID]models.TravelService
	bookings map[domain.ID]models.Booking
	reviews  map[domain.ID]models.Review
	nextID   domain.ID

	// aggregateErr fails the next review writes at the recompute step;
	// the write is then discarded along with it.
	aggregateErr error
}

func newMemDB() *memDB {
	return &memDB{
		services: map[domain.ID]models.TravelService{},
		bookings: map[domain.ID]models.Booking{},
		reviews:  map[domain.ID]models.Review{},
		nextID:   100,
	}
}

func (m *memDB) id() domain.ID {
	m.nextID++
	return m.nextID
}

func (m *memDB) setAggregate(id domain.ID, agg models.RatingAggregate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.services[id]
	s.Rating, s.ReviewCount = agg.Rating, agg.ReviewCount
	m.services[id] = s
}

type memCatalog struct{ db *memDB }

func (c memCatalog) GetByID(_ context.Context, id domain.ID) (models.TravelService, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	s, ok := c.db.services[id]
	if !ok {
		return s, domain.NotFoundError{Resource: "travel service"}
	}
	return s, nil
}

func (c memCatalog) Create(_ context.Context, s *models.TravelService) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	s.ID = c.db.id()
	c.db.services[s.ID] = *s
	return nil
}

func (c memCatalog) Update(_ context.Context, id domain.ID, p models.TravelServicePatch, at time.Time) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	cur, ok := c.db.services[id]
	if !ok {
		return domain.NotFoundError{Resource: "travel service"}
	}
	next := p.Apply(cur)
	next.UpdatedAt = at
	c.db.services[id] = next
	return nil
}

func (c memCatalog) Delete(_ context.Context, id domain.ID) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if _, ok := c.db.services[id]; !ok {
		return domain.NotFoundError{Resource: "travel service"}
	}
	delete(c.db.services, id)
	return nil
}

func (c memCatalog) Popular(_ context.Context, limit int) ([]models.TravelService, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	out := []models.TravelService{}
	for _, s := range c.db.services {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReviewCount != out[j].ReviewCount {
			return out[i].ReviewCount > out[j].ReviewCount
		}
		return out[i].Rating > out[j].Rating
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memBookings struct{ db *memDB }

func (b memBookings) Reserve(_ context.Context, bk *models.Booking) error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	s, ok := b.db.services[bk.TravelServiceID]
	switch {
	case !ok:
		return domain.NotFoundError{Resource: "travel service"}
	case !s.IsActive:
		return repositories.ErrServiceInactive
	case s.AvailableSeats < bk.Passengers:
		return repositories.SeatShortageError{Available: s.AvailableSeats, Requested: bk.Passengers}
	}
	s.AvailableSeats -= bk.Passengers
	b.db.services[s.ID] = s
	bk.ID = b.db.id()
	b.db.bookings[bk.ID] = *bk
	return nil
}

func (b memBookings) CancelAndRestore(_ context.Context, id domain.ID, at time.Time) (bool, error) {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	bk, ok := b.db.bookings[id]
	if !ok {
		return false, domain.NotFoundError{Resource: "booking"}
	}
	if bk.Status == models.BookingCancelled {
		return false, repositories.ErrAlreadyCancelled
	}
	bk.Status = models.BookingCancelled
	bk.PaymentStatus = models.PaymentRefunded
	bk.UpdatedAt = at
	b.db.bookings[id] = bk
	s, ok := b.db.services[bk.TravelServiceID]
	if !ok {
		return false, nil
	}
	s.AvailableSeats += bk.Passengers
	b.db.services[s.ID] = s
	return true, nil
}

func (b memBookings) GetByID(_ context.Context, id domain.ID) (models.Booking, error) {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	bk, ok := b.db.bookings[id]
	if !ok {
		return bk, domain.NotFoundError{Resource: "booking"}
	}
	if s, ok := b.db.services[bk.TravelServiceID]; ok {
		sum := s.Summary()
		bk.Service = &sum
	}
	return bk, nil
}

func (b memBookings) List(_ context.Context, f models.BookingFilter, p domain.PageRequest) ([]models.Booking, int, error) {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	all := []models.Booking{}
	for _, bk := range b.db.bookings {
		if f.UserID != 0 && bk.UserID != f.UserID {
			continue
		}
		if f.Status != "" && bk.Status != f.Status {
			continue
		}
		all = append(all, bk)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := len(all)
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (b memBookings) UpdateStatus(_ context.Context, id domain.ID, upd models.BookingStatusUpdate, at time.Time) error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	bk, ok := b.db.bookings[id]
	if !ok {
		return domain.NotFoundError{Resource: "booking"}
	}
	if upd.Status != nil {
		bk.Status = *upd.Status
	}
	if upd.PaymentStatus != nil {
		bk.PaymentStatus = *upd.PaymentStatus
	}
	bk.UpdatedAt = at
	b.db.bookings[id] = bk
	return nil
}

func (b memBookings) HasQualifying(_ context.Context, userID, serviceID domain.ID) (bool, error) {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	for _, bk := range b.db.bookings {
		if bk.UserID == userID && bk.TravelServiceID == serviceID && bk.Status.QualifiesForReview() {
			return true, nil
		}
	}
	return false, nil
}

type memReviews struct{ db *memDB }

// commit applies write and recomputes the aggregate as one step. Callers
// hold r.db.mu. On failure the reviews map is restored.
func (r memReviews) commit(serviceID domain.ID, compute models.RatingFunc, write func()) (models.RatingAggregate, error) {
	saved := make(map[domain.ID]models.Review, len(r.db.reviews))
	for k, v := range r.db.reviews {
		saved[k] = v
	}
	write()
	if r.db.aggregateErr != nil {
		r.db.reviews = saved
		return models.RatingAggregate{}, r.db.aggregateErr
	}
	s, ok := r.db.services[serviceID]
	if !ok {
		return models.RatingAggregate{}, nil
	}
	ratings := []int{}
	for _, rv := range r.db.reviews {
		if rv.TravelServiceID == serviceID {
			ratings = append(ratings, rv.Rating)
		}
	}
	agg := compute(ratings)
	s.Rating, s.ReviewCount = agg.Rating, agg.ReviewCount
	r.db.services[serviceID] = s
	return agg, nil
}

func (r memReviews) Create(_ context.Context, rv *models.Review, compute models.RatingFunc) (models.RatingAggregate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, cur := range r.db.reviews {
		if cur.UserID == rv.UserID && cur.TravelServiceID == rv.TravelServiceID {
			return models.RatingAggregate{}, repositories.ErrDuplicate
		}
	}
	id := r.db.id()
	agg, err := r.commit(rv.TravelServiceID, compute, func() {
		stored := *rv
		stored.ID = id
		r.db.reviews[id] = stored
	})
	if err == nil {
		rv.ID = id
	}
	return agg, err
}

func (r memReviews) GetByID(_ context.Context, id domain.ID) (models.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rv, ok := r.db.reviews[id]
	if !ok {
		return rv, domain.NotFoundError{Resource: "review"}
	}
	return rv, nil
}

func (r memReviews) ExistsForUser(_ context.Context, userID, serviceID domain.ID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, cur := range r.db.reviews {
		if cur.UserID == userID && cur.TravelServiceID == serviceID {
			return true, nil
		}
	}
	return false, nil
}

func (r memReviews) Update(_ context.Context, rv models.Review, compute models.RatingFunc) (models.RatingAggregate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reviews[rv.ID]; !ok {
		return models.RatingAggregate{}, domain.NotFoundError{Resource: "review"}
	}
	return r.commit(rv.TravelServiceID, compute, func() { r.db.reviews[rv.ID] = rv })
}

func (r memReviews) Delete(_ context.Context, id, serviceID domain.ID, compute models.RatingFunc) (models.RatingAggregate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reviews[id]; !ok {
		return models.RatingAggregate{}, domain.NotFoundError{Resource: "review"}
	}
	return r.commit(serviceID, compute, func() { delete(r.db.reviews, id) })
}

func (r memReviews) ListByService(_ context.Context, serviceID domain.ID, p domain.PageRequest) ([]models.Review, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Review{}
	for _, rv := range r.db.reviews {
		if rv.TravelServiceID == serviceID {
			out = append(out, rv)
		}
	}
	return out, len(out), nil
}

func (r memReviews) ListByUser(_ context.Context, userID domain.ID) ([]models.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Review{}
	for _, rv := range r.db.reviews {
		if rv.UserID == userID {
			out = append(out, rv)
		}
	}
	return out, nil
}

// mockBookings is a testify mock for paths the in-memory store cannot
// reach, such as losing a race after the capacity precheck.
type mockBookings struct {
	mock.Mock
}

func (m *mockBookings) Reserve(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookings) CancelAndRestore(ctx context.Context, id domain.ID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookings) GetByID(ctx context.Context, id domain.ID) (models.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *mockBookings) List(ctx context.Context, f models.BookingFilter, p domain.PageRequest) ([]models.Booking, int, error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).([]models.Booking), args.Int(1), args.Error(2)
}

func (m *mockBookings) UpdateStatus(ctx context.Context, id domain.ID, upd models.BookingStatusUpdate, at time.Time) error {
	return m.Called(ctx, id, upd, at).Error(0)
}

func (m *mockBookings) HasQualifying(ctx context.Context, userID, serviceID domain.ID) (bool, error) {
	args := m.Called(ctx, userID, serviceID)
	return args.Bool(0), args.Error(1)
}


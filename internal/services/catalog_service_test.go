package services

import (
	"context"
	"sync"
	"testing"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCreateIgnoresDerivedFields(t *testing.T) {
	db := newMemDB()
	cs := CatalogService{Catalog: memCatalog{db}, Now: fixedClock}

	s, err := cs.Create(context.Background(), models.TravelService{
		Name: "  Lake   Retreat ", Type: models.ServiceTypeHotel, Source: "Delhi", Destination: "Nainital",
		Price: 3200, Duration: "3 nights", Description: "Lakeside rooms", AvailableSeats: 12,
		Images: models.StringList{" a.jpg ", ""}, Rating: 5, ReviewCount: 99, IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lake Retreat", s.Name)
	assert.Equal(t, models.StringList{"a.jpg"}, s.Images)
	assert.Zero(t, s.Rating)
	assert.Zero(t, s.ReviewCount)
	assert.Equal(t, fixedNow, s.CreatedAt)
}

func TestCatalogUpdateMergesPresentFields(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	svc := seedService(t, db, 100, 3)
	cs := CatalogService{Catalog: memCatalog{db}, Now: fixedClock}

	seats := 40
	got, err := cs.Update(ctx, svc.ID, models.TravelServicePatch{AvailableSeats: &seats})
	require.NoError(t, err)
	assert.Equal(t, 40, got.AvailableSeats)
	assert.Equal(t, svc.Name, got.Name)
	assert.Equal(t, svc.Price, got.Price)

	badType := models.ServiceType("ferry")
	_, err = cs.Update(ctx, svc.ID, models.TravelServicePatch{Type: &badType})
	assert.True(t, domain.IsValidation(err))

	negative := -1
	_, err = cs.Update(ctx, svc.ID, models.TravelServicePatch{AvailableSeats: &negative})
	assert.True(t, domain.IsValidation(err))

	_, err = cs.Update(ctx, 404, models.TravelServicePatch{AvailableSeats: &seats})
	assert.True(t, domain.IsNotFound(err))
}

// interleavedCatalog runs afterRead once, right after the first GetByID
// returns, to land a concurrent write between an edit's read and its write.
type interleavedCatalog struct {
	memCatalog
	once      *sync.Once
	afterRead func()
}

func (c interleavedCatalog) GetByID(ctx context.Context, id domain.ID) (models.TravelService, error) {
	s, err := c.memCatalog.GetByID(ctx, id)
	c.once.Do(c.afterRead)
	return s, err
}

func TestCatalogUpdateKeepsSeatsSoldDuringEdit(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	svc := seedService(t, db, 500, 3)
	bs := newBookingService(db)

	cs := CatalogService{
		Catalog: interleavedCatalog{
			memCatalog: memCatalog{db},
			once:       &sync.Once{},
			afterRead: func() {
				_, err := bs.Create(ctx, alice, bookingInput(svc.ID, 3))
				require.NoError(t, err)
			},
		},
		Now: fixedClock,
	}

	desc := "Now with reclining seats"
	got, err := cs.Update(ctx, svc.ID, models.TravelServicePatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, got.Description)
	assert.Equal(t, 0, got.AvailableSeats)
	assert.Equal(t, 0, seatsOf(t, db, svc.ID))
}

func TestCatalogUpdateEmptyPatchWritesNothing(t *testing.T) {
	db := newMemDB()
	svc := seedService(t, db, 100, 3)
	cs := CatalogService{Catalog: memCatalog{db}, Now: fixedClock}

	got, err := cs.Update(context.Background(), svc.ID, models.TravelServicePatch{})
	require.NoError(t, err)
	assert.Equal(t, svc.UpdatedAt, got.UpdatedAt)
}

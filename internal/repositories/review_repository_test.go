package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedAggregate(agg models.RatingAggregate, seen *[]int) models.RatingFunc {
	return func(r []int) models.RatingAggregate {
		if seen != nil {
			*seen = r
		}
		return agg
	}
}

func TestReviewCreateDuplicateRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := ReviewRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM travel_services").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("INSERT INTO reviews").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(),
		&models.Review{UserID: 3, TravelServiceID: 7, Rating: 5, Comment: "great"},
		fixedAggregate(models.RatingAggregate{}, nil))
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCreateCommitsWithAggregate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := ReviewRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM travel_services").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("INSERT INTO reviews").
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectQuery("SELECT rating FROM reviews").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(4).AddRow(5))
	mock.ExpectExec("UPDATE travel_services SET rating").
		WithArgs(4.5, 2, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var seen []int
	rv := &models.Review{UserID: 3, TravelServiceID: 7, Rating: 5, Comment: "great"}
	agg, err := repo.Create(context.Background(), rv,
		fixedAggregate(models.RatingAggregate{Rating: 4.5, ReviewCount: 2}, &seen))
	require.NoError(t, err)
	assert.Equal(t, domain.ID(41), rv.ID)
	assert.Equal(t, []int{4, 5}, seen)
	assert.Equal(t, models.RatingAggregate{Rating: 4.5, ReviewCount: 2}, agg)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCreateRollsBackWhenAggregateWriteFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := ReviewRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM travel_services").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("INSERT INTO reviews").
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectQuery("SELECT rating FROM reviews").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(5))
	mock.ExpectExec("UPDATE travel_services SET rating").
		WillReturnError(errors.New("Lock wait timeout exceeded"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(),
		&models.Review{UserID: 3, TravelServiceID: 7, Rating: 5, Comment: "great"},
		fixedAggregate(models.RatingAggregate{Rating: 5, ReviewCount: 1}, nil))
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewDeleteRollsBackWhenRatingsReadFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := ReviewRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM travel_services").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("DELETE FROM reviews").
		WithArgs(41).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT rating FROM reviews").
		WillReturnError(errors.New("invalid connection"))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), 41, 7, fixedAggregate(models.RatingAggregate{}, nil))
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewDeleteOfRemovedServiceSkipsAggregate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := ReviewRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM travel_services").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("DELETE FROM reviews").
		WithArgs(41).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	called := false
	_, err := repo.Delete(context.Background(), 41, 7, func([]int) models.RatingAggregate {
		called = true
		return models.RatingAggregate{}
	})
	require.NoError(t, err)
	assert.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewUpdateMissingRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := ReviewRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM travel_services").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE reviews SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(),
		models.Review{ID: 41, TravelServiceID: 7, Rating: 3, Comment: "ok"},
		fixedAggregate(models.RatingAggregate{}, nil))
	assert.True(t, domain.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewListByServiceAttachesUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := ReviewRepository{DB: db}
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM reviews r").
		WithArgs(7, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "travel_service_id", "rating", "title", "comment",
			"created_at", "updated_at", "user_name", "svc_name", "svc_type", "svc_destination",
		}).AddRow(1, 3, 7, 5, "Lovely", "Would go again", now, now, "Asha", "Goa Sun", "hotel", "Goa"))

	list, total, err := repo.ListByService(context.Background(), 7, domain.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].User)
	assert.Equal(t, "Asha", list[0].User.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

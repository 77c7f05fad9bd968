package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const bookingSelect = `
	SELECT
		b.id, b.user_id, b.travel_service_id, b.booking_date, b.travel_date,
		b.passengers, b.total_amount, b.status, b.payment_status, b.payment_method,
		b.contact_email, b.contact_phone, b.special_requests, b.created_at, b.updated_at,
		s.id AS svc_id, s.name AS svc_name, s.type AS svc_type, s.source AS svc_source,
		s.destination AS svc_destination, s.price AS svc_price, s.duration AS svc_duration,
		s.images AS svc_images,
		u.name AS user_name, u.email AS user_email, u.phone AS user_phone
	FROM bookings b
	LEFT JOIN travel_services s ON s.id = b.travel_service_id
	LEFT JOIN users u ON u.id = b.user_id`

// bookingRow is one row of bookingSelect. Joined columns are nullable
// because services and users can be deleted without cascading.
type bookingRow struct {
	ID              domain.ID            `db:"id"`
	UserID          domain.ID            `db:"user_id"`
	TravelServiceID domain.ID            `db:"travel_service_id"`
	BookingDate     time.Time            `db:"booking_date"`
	TravelDate      time.Time            `db:"travel_date"`
	Passengers      int                  `db:"passengers"`
	TotalAmount     float64              `db:"total_amount"`
	Status          models.BookingStatus `db:"status"`
	PaymentStatus   models.PaymentStatus `db:"payment_status"`
	PaymentMethod   models.PaymentMethod `db:"payment_method"`
	ContactEmail    string               `db:"contact_email"`
	ContactPhone    string               `db:"contact_phone"`
	SpecialRequests string               `db:"special_requests"`
	CreatedAt       time.Time            `db:"created_at"`
	UpdatedAt       time.Time            `db:"updated_at"`

	SvcID          sql.NullInt64     `db:"svc_id"`
	SvcName        sql.NullString    `db:"svc_name"`
	SvcType        sql.NullString    `db:"svc_type"`
	SvcSource      sql.NullString    `db:"svc_source"`
	SvcDestination sql.NullString    `db:"svc_destination"`
	SvcPrice       sql.NullFloat64   `db:"svc_price"`
	SvcDuration    sql.NullString    `db:"svc_duration"`
	SvcImages      models.StringList `db:"svc_images"`

	UserName  sql.NullString `db:"user_name"`
	UserEmail sql.NullString `db:"user_email"`
	UserPhone sql.NullString `db:"user_phone"`
}

func (row bookingRow) toModel() models.Booking {
	b := models.Booking{
		ID:               row.ID,
		UserID:           row.UserID,
		TravelServiceID:  row.TravelServiceID,
		BookingDate:      row.BookingDate,
		TravelDate:       row.TravelDate,
		Passengers:       row.Passengers,
		PassengerDetails: []models.PassengerDetail{},
		TotalAmount:      row.TotalAmount,
		Status:           row.Status,
		PaymentStatus:    row.PaymentStatus,
		PaymentMethod:    row.PaymentMethod,
		ContactEmail:     row.ContactEmail,
		ContactPhone:     row.ContactPhone,
		SpecialRequests:  row.SpecialRequests,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.SvcID.Valid {
		b.Service = &models.ServiceSummary{
			ID:          domain.ID(row.SvcID.Int64),
			Name:        row.SvcName.String,
			Type:        models.ServiceType(row.SvcType.String),
			Source:      row.SvcSource.String,
			Destination: row.SvcDestination.String,
			Price:       row.SvcPrice.Float64,
			Duration:    row.SvcDuration.String,
			Images:      row.SvcImages,
		}
	}
	if row.UserName.Valid {
		b.User = &models.UserSummary{
			ID:    row.UserID,
			Name:  row.UserName.String,
			Email: row.UserEmail.String,
			Phone: row.UserPhone.String,
		}
	}
	return b
}

type BookingRepository struct {
	DB *sqlx.DB
}

// Reserve inserts b and takes b.Passengers seats from its service in one
// transaction. The seat decrement is conditional, so two concurrent
// reservations can never drive available_seats below zero.
func (r BookingRepository) Reserve(ctx context.Context, b *models.Booking) error {
	return intdb.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE travel_services
			SET available_seats = available_seats - ?
			WHERE id = ? AND is_active = 1 AND available_seats >= ?`,
			b.Passengers, b.TravelServiceID, b.Passengers,
		)
		if err != nil {
			return fmt.Errorf("decrement seats: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrement seats rows: %w", err)
		}
		if n == 0 {
			return classifyReserveMiss(ctx, tx, b.TravelServiceID, b.Passengers)
		}

		res, err = tx.ExecContext(ctx, `
			INSERT INTO bookings
				(user_id, travel_service_id, booking_date, travel_date, passengers, total_amount,
				 status, payment_status, payment_method, contact_email, contact_phone,
				 special_requests, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.UserID, b.TravelServiceID, b.BookingDate, b.TravelDate, b.Passengers, b.TotalAmount,
			b.Status, b.PaymentStatus, b.PaymentMethod, b.ContactEmail, b.ContactPhone,
			b.SpecialRequests, b.CreatedAt, b.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("booking id: %w", err)
		}
		b.ID = domain.ID(id)

		for i, p := range b.PassengerDetails {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO booking_passengers (booking_id, position, name, age, gender)
				VALUES (?, ?, ?, ?, ?)`,
				b.ID, i, p.Name, p.Age, p.Gender,
			); err != nil {
				return fmt.Errorf("insert booking passenger: %w", err)
			}
		}
		return nil
	})
}

func classifyReserveMiss(ctx context.Context, tx *sqlx.Tx, serviceID domain.ID, requested int) error {
	var cur struct {
		AvailableSeats int  `db:"available_seats"`
		IsActive       bool `db:"is_active"`
	}
	err := tx.GetContext(ctx, &cur, `SELECT available_seats, is_active FROM travel_services WHERE id = ?`, serviceID)
	if err != nil {
		if intdb.IsNoRows(err) {
			return domain.NotFoundError{Resource: "travel service", Err: err}
		}
		return fmt.Errorf("read seats: %w", err)
	}
	if !cur.IsActive {
		return ErrServiceInactive
	}
	return SeatShortageError{Available: cur.AvailableSeats, Requested: requested}
}

// CancelAndRestore flips the booking to cancelled/refunded and gives its
// seats back in one transaction. The booking row is locked first so a second
// cancel waits and then sees the cancelled status. restored is false when
// the service no longer exists.
func (r BookingRepository) CancelAndRestore(ctx context.Context, id domain.ID, at time.Time) (restored bool, err error) {
	err = intdb.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var cur struct {
			TravelServiceID domain.ID            `db:"travel_service_id"`
			Passengers      int                  `db:"passengers"`
			Status          models.BookingStatus `db:"status"`
		}
		if err := tx.GetContext(ctx, &cur, `
			SELECT travel_service_id, passengers, status
			FROM bookings WHERE id = ? FOR UPDATE`, id); err != nil {
			if intdb.IsNoRows(err) {
				return domain.NotFoundError{Resource: "booking", Err: err}
			}
			return fmt.Errorf("lock booking: %w", err)
		}
		if cur.Status == models.BookingCancelled {
			return ErrAlreadyCancelled
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE bookings SET status = ?, payment_status = ?, updated_at = ?
			WHERE id = ?`,
			models.BookingCancelled, models.PaymentRefunded, at, id,
		); err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE travel_services SET available_seats = available_seats + ?
			WHERE id = ?`,
			cur.Passengers, cur.TravelServiceID,
		)
		if err != nil {
			return fmt.Errorf("restore seats: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("restore seats rows: %w", err)
		}
		restored = n > 0
		return nil
	})
	return restored, err
}

func (r BookingRepository) GetByID(ctx context.Context, id domain.ID) (models.Booking, error) {
	var row bookingRow
	if err := r.DB.GetContext(ctx, &row, bookingSelect+` WHERE b.id = ? LIMIT 1`, id); err != nil {
		if intdb.IsNoRows(err) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	out := []models.Booking{row.toModel()}
	if err := r.attachPassengers(ctx, out); err != nil {
		return models.Booking{}, err
	}
	return out[0], nil
}

// List returns one page of bookings, newest first, plus the total matching.
func (r BookingRepository) List(ctx context.Context, f models.BookingFilter, p domain.PageRequest) ([]models.Booking, int, error) {
	where := []string{}
	args := []any{}
	if f.UserID != 0 {
		where = append(where, "b.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, f.Status)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings b`+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	rows := []bookingRow{}
	query := bookingSelect + clause + ` ORDER BY b.created_at DESC, b.id DESC LIMIT ? OFFSET ?`
	if err := r.DB.SelectContext(ctx, &rows, query, append(args, p.Limit, p.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]models.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	if err := r.attachPassengers(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r BookingRepository) attachPassengers(ctx context.Context, bookings []models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	ids := make([]domain.ID, 0, len(bookings))
	index := make(map[domain.ID]int, len(bookings))
	for i, b := range bookings {
		ids = append(ids, b.ID)
		index[b.ID] = i
	}

	query, args, err := sqlx.In(`
		SELECT booking_id, name, age, gender
		FROM booking_passengers
		WHERE booking_id IN (?)
		ORDER BY booking_id, position`, ids)
	if err != nil {
		return fmt.Errorf("build passenger query: %w", err)
	}

	var rows []struct {
		BookingID domain.ID `db:"booking_id"`
		models.PassengerDetail
	}
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(query), args...); err != nil {
		return fmt.Errorf("list booking passengers: %w", err)
	}
	for _, row := range rows {
		if i, ok := index[row.BookingID]; ok {
			bookings[i].PassengerDetails = append(bookings[i].PassengerDetails, row.PassengerDetail)
		}
	}
	return nil
}

// UpdateStatus overwrites status fields without touching seats.
func (r BookingRepository) UpdateStatus(ctx context.Context, id domain.ID, upd models.BookingStatusUpdate, at time.Time) error {
	sets := []string{}
	args := []any{}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.PaymentStatus != nil {
		sets = append(sets, "payment_status = ?")
		args = append(args, *upd.PaymentStatus)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, at, id)

	res, err := r.DB.ExecContext(ctx, `UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return requireAffected(res, "booking")
}

// HasQualifying reports whether the user holds a confirmed or completed
// booking on the service.
func (r BookingRepository) HasQualifying(ctx context.Context, userID, serviceID domain.ID) (bool, error) {
	query, args, err := sqlx.In(`
		SELECT COUNT(*) FROM bookings
		WHERE user_id = ? AND travel_service_id = ? AND status IN (?)`,
		userID, serviceID, models.ReviewQualifyingStatuses)
	if err != nil {
		return false, fmt.Errorf("build qualifying query: %w", err)
	}
	var n int
	if err := r.DB.GetContext(ctx, &n, r.DB.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("count qualifying bookings: %w", err)
	}
	return n > 0, nil
}

package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, phone, password_hash, role, created_at, updated_at`

type UserRepository struct {
	DB *sqlx.DB
}

func (r UserRepository) GetByID(ctx context.Context, id domain.ID) (models.User, error) {
	var u models.User
	if err := r.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id); err != nil {
		if intdb.IsNoRows(err) {
			return u, domain.NotFoundError{Resource: "user", Err: err}
		}
		return u, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email); err != nil {
		if intdb.IsNoRows(err) {
			return u, domain.NotFoundError{Resource: "user", Err: err}
		}
		return u, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r UserRepository) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (name, email, phone, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	u.ID = domain.ID(id)
	return nil
}

func (r UserRepository) List(ctx context.Context, p domain.PageRequest) ([]models.User, int, error) {
	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	out := []models.User{}
	if err := r.DB.SelectContext(ctx, &out,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		p.Limit, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return out, total, nil
}

func (r UserRepository) UpdateRole(ctx context.Context, id domain.ID, role domain.Role, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`, role, at, id)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return requireAffected(res, "user")
}

func (r UserRepository) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res, "user")
}

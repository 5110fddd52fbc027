package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
)

type pgUser struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (u pgUser) toEntity() *entity.User {
	return &entity.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.Password,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

// PostgresUsers implements the UserRepository port on PostgreSQL
type PostgresUsers struct {
	db *sqlx.DB
}

// NewPostgresUsers creates a new PostgreSQL user store
func NewPostgresUsers(db *sqlx.DB) port.UserRepository {
	return &PostgresUsers{db: db}
}

func (r *PostgresUsers) Create(ctx context.Context, user entity.User) (entity.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return entity.User{}, entity.ErrUserAlreadyExists
		}
		return entity.User{}, storeError("insert user", err)
	}

	return user, nil
}

func (r *PostgresUsers) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id); err != nil {
		return false, storeError("user exists", err)
	}
	return exists, nil
}

func (r *PostgresUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT id, name, email, password, created_at, updated_at FROM users WHERE email = $1`, email)
}

func (r *PostgresUsers) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT id, name, email, password, created_at, updated_at FROM users WHERE id = $1`, id)
}

func (r *PostgresUsers) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var row pgUser
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("find user", err)
	}
	return row.toEntity(), nil
}

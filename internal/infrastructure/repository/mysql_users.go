package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
	"finstatements.com/internal/infrastructure/database"
)

// MySQLUsers implements the UserRepository port on MySQL via GORM
type MySQLUsers struct {
	client *database.MySQLClient
}

// NewMySQLUsers creates a new MySQL user store
func NewMySQLUsers(client *database.MySQLClient) port.UserRepository {
	return &MySQLUsers{client: client}
}

func (r *MySQLUsers) Create(ctx context.Context, user entity.User) (entity.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	user.CreatedAt = now
	user.UpdatedAt = now

	row := mysqlUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if err := r.client.DB().WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entity.User{}, entity.ErrUserAlreadyExists
		}
		return entity.User{}, storeError("insert user", err)
	}

	return user, nil
}

func (r *MySQLUsers) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.client.DB().WithContext(ctx).
		Model(&mysqlUser{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, storeError("user exists", err)
	}
	return count > 0, nil
}

func (r *MySQLUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *MySQLUsers) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *MySQLUsers) findOne(ctx context.Context, cond string, arg any) (*entity.User, error) {
	var row mysqlUser
	err := r.client.DB().WithContext(ctx).Where(cond, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("find user", err)
	}
	return row.toEntity(), nil
}

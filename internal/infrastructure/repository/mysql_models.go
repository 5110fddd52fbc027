package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finstatements.com/internal/domain/entity"
)

type mysqlUser struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Password  string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"type:datetime(6);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(6);not null"`
}

func (*mysqlUser) TableName() string {
	return "users"
}

func (u *mysqlUser) toEntity() *entity.User {
	return &entity.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.Password,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

// Seq breaks created_at ties in insertion order
type mysqlStatement struct {
	Seq         uint64          `gorm:"primaryKey;autoIncrement"`
	ID          string          `gorm:"column:id;type:char(36);uniqueIndex;not null"`
	UserID      string          `gorm:"type:char(36);not null;index:idx_statements_user_created,priority:1"`
	Type        string          `gorm:"type:varchar(16);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time       `gorm:"type:datetime(6);not null;index:idx_statements_user_created,priority:2"`
}

func (*mysqlStatement) TableName() string {
	return "statements"
}

func (s *mysqlStatement) toEntity() entity.Statement {
	return entity.Statement{
		ID:          s.ID,
		UserID:      s.UserID,
		Type:        entity.OperationType(s.Type),
		Amount:      s.Amount,
		Description: s.Description,
		CreatedAt:   s.CreatedAt.UTC(),
	}
}

// MigrateMySQL creates or updates the users and statements tables
func MigrateMySQL(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&mysqlUser{}, &mysqlStatement{}); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}

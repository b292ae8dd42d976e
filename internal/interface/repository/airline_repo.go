package repository

import (
	"context"
	"errors"
	"strings"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirlineRepository resolves flight number prefixes against the airline
// reference table
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository
func NewGormAirlineRepository(db *gorm.DB) repository.AirlineRepository {
	return &GormAirlineRepository{
		db: db,
	}
}

// airlineRow is the part of m_airlines the lookup reads
type airlineRow struct {
	Code string `gorm:"column:code"`
	Name string `gorm:"column:name"`
}

func (airlineRow) TableName() string {
	return "m_airlines"
}

// GetByCode finds an airline by the two letter prefix of a flight number
func (r *GormAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var row airlineRow
	err := r.db.WithContext(ctx).
		Select("code", "name").
		Where("code = ?", strings.ToUpper(code)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity.Airline{Code: row.Code, Name: row.Name}, nil
}

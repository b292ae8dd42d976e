package repository

import (
	"context"
	"errors"
	"time"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirportRepository implements the AirportRepository interface
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// Airports GORM model for database mapping
type Airports struct {
	ID          uint           `gorm:"primaryKey"`
	AirportCode string         `gorm:"column:airport_code;unique"`
	AirportName string         `gorm:"column:airport_name"`
	CityCode    string         `gorm:"column:city_code"`
	CityName    string         `gorm:"column:city_name"`
	TzName      string         `gorm:"column:tz_name"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (Airports) TableName() string {
	return "m_airports"
}

// GetByCode finds an airport by IATA code
func (r *GormAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	var airport Airports
	result := r.db.WithContext(ctx).Where("airport_code = ?", code).First(&airport)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, result.Error
	}

	return &entity.Airport{
		ID:       airport.ID,
		Code:     airport.AirportCode,
		Name:     airport.AirportName,
		CityCode: airport.CityCode,
		CityName: airport.CityName,
		TzName:   airport.TzName,
	}, nil
}

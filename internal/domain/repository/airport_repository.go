package repository

import (
	"context"

	"dispatch-booking-service/internal/domain/entity"
)

// AirportRepository defines the interface for airport operations
type AirportRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airport, error)
}

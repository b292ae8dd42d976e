package repository

import (
	"context"

	"dispatch-booking-service/internal/domain/entity"
)

// BookingRepository is the persistence boundary for new rides and missions.
// A refusal is reported as *RejectionError.
type BookingRepository interface {
	Create(ctx context.Context, req entity.CreationRequest) (*entity.CreatedBooking, error)
}

// MissionRepository reads missions that already claim chauffeurs
type MissionRepository interface {
	ListActiveAssignments(ctx context.Context) (entity.MissionAssignments, error)
}

// ChauffeurRepository reads chauffeur reference data
type ChauffeurRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Chauffeur, error)
}

package repository

import (
	"context"
	"errors"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormChauffeurRepository implements the ChauffeurRepository interface
type GormChauffeurRepository struct {
	db *gorm.DB
}

// NewGormChauffeurRepository creates a new GORM chauffeur repository
func NewGormChauffeurRepository(db *gorm.DB) repository.ChauffeurRepository {
	return &GormChauffeurRepository{
		db: db,
	}
}

func (r *GormChauffeurRepository) GetByID(ctx context.Context, id string) (*entity.Chauffeur, error) {
	var chauffeur Chauffeurs
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&chauffeur)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, result.Error
	}

	return &entity.Chauffeur{
		ID:        chauffeur.ID,
		FirstName: chauffeur.FirstName,
		LastName:  chauffeur.LastName,
	}, nil
}

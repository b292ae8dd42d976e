package repository

import (
	"context"
	"strconv"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormMissionRepository implements the MissionRepository interface
type GormMissionRepository struct {
	db *gorm.DB
}

// NewGormMissionRepository creates a new GORM mission repository
func NewGormMissionRepository(db *gorm.DB) repository.MissionRepository {
	return &GormMissionRepository{
		db: db,
	}
}

// ListActiveAssignments returns the missions that currently claim a chauffeur
func (r *GormMissionRepository) ListActiveAssignments(ctx context.Context) (entity.MissionAssignments, error) {
	var missions []Missions
	result := r.db.WithContext(ctx).
		Where("chauffeur_id IS NOT NULL AND status IN ?", activeMissionStatuses()).
		Order("start_date").
		Find(&missions)
	if result.Error != nil {
		return nil, result.Error
	}

	assignments := make(entity.MissionAssignments, 0, len(missions))
	for _, m := range missions {
		assignments = append(assignments, entity.ChauffeurMission{
			MissionID:   strconv.FormatUint(uint64(m.ID), 10),
			ChauffeurID: *m.ChauffeurID,
			Title:       m.Title,
			Status:      entity.MissionStatus(m.Status),
			StartDate:   m.StartDate,
			EndDate:     m.EndDate,
		})
	}
	return assignments, nil
}

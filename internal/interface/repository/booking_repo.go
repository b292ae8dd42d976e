package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormBookingRepository persists rides and missions in PostgreSQL
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GORM booking repository
func NewGormBookingRepository(db *gorm.DB) repository.BookingRepository {
	return &GormBookingRepository{
		db: db,
	}
}

// Create inserts a ride or a mission with its embedded rides
func (r *GormBookingRepository) Create(ctx context.Context, req entity.CreationRequest) (*entity.CreatedBooking, error) {
	switch req := req.(type) {
	case *entity.RideRequest:
		return r.createRide(ctx, req)
	case *entity.MissionRequest:
		return r.createMission(ctx, req)
	default:
		return nil, &repository.RejectionError{
			Kind:    repository.RejectionValidation,
			Message: fmt.Sprintf("unsupported booking payload %T", req),
		}
	}
}

func (r *GormBookingRepository) createRide(ctx context.Context, req *entity.RideRequest) (*entity.CreatedBooking, error) {
	model := rideModel(req)
	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}

	return &entity.CreatedBooking{
		Kind:      entity.KindRide,
		RideID:    strconv.FormatUint(uint64(model.ID), 10),
		CreatedAt: model.CreatedAt,
	}, nil
}

func (r *GormBookingRepository) createMission(ctx context.Context, req *entity.MissionRequest) (*entity.CreatedBooking, error) {
	m := req.Mission
	model := Missions{
		Title:             m.Title,
		ClientID:          m.ClientID,
		ChauffeurID:       optionalString(m.ChauffeurID),
		PartnerID:         optionalString(m.PartnerID),
		IsExternalPartner: m.IsExternalPartner,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		Duration:          m.Duration,
		Status:            string(m.Status),
		PassengerIDs:      m.PassengerIDs,
		Notes:             m.Notes,
		EventID:           req.EventID,
	}
	for _, ride := range m.Rides {
		model.Rides = append(model.Rides, Rides{
			PickupAddress:        ride.PickupAddress,
			DropoffAddress:       ride.DropoffAddress,
			PickupTime:           ride.PickupTime,
			Category:             string(ride.Category),
			Status:               string(ride.Status),
			Fare:                 ride.Fare,
			Notes:                ride.Notes,
			ChauffeurID:          optionalString(m.ChauffeurID),
			PassengerFirstName:   req.PassengerInfo.FirstName,
			PassengerLastName:    req.PassengerInfo.LastName,
			PassengerPhone:       req.PassengerInfo.PhoneNumber,
			PassengerCount:       req.PassengerInfo.PassengerCount,
			PassengerDescription: req.PassengerInfo.Description,
			EventID:              req.EventID,
			ClientID:             m.ClientID,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.ChauffeurID != "" {
			var claimed int64
			err := tx.Model(&Missions{}).
				Where("chauffeur_id = ? AND status IN ?", m.ChauffeurID, activeMissionStatuses()).
				Count(&claimed).Error
			if err != nil {
				return err
			}
			if claimed > 0 {
				return &repository.RejectionError{
					Kind:    repository.RejectionConflict,
					Message: fmt.Sprintf("Chauffeur %s is already assigned to an active mission", m.ChauffeurID),
				}
			}
		}
		return tx.Create(&model).Error
	})
	if err != nil {
		return nil, translateError(err)
	}

	return &entity.CreatedBooking{
		Kind:      entity.KindMission,
		MissionID: strconv.FormatUint(uint64(model.ID), 10),
		CreatedAt: model.CreatedAt,
	}, nil
}

func rideModel(req *entity.RideRequest) Rides {
	return Rides{
		PickupAddress:          req.PickupAddress,
		DropoffAddress:         req.DropoffAddress,
		PickupTime:             req.PickupTime,
		Category:               string(req.Category),
		AirportTransferSubtype: string(req.AirportTransferSubtype),
		FlightNumber:           req.FlightNumber,
		DurationHours:          req.DurationHours,
		Status:                 string(req.Status),
		Fare:                   req.Fare,
		Notes:                  req.Notes,
		ChauffeurID:            optionalString(req.ChauffeurID),
		PassengerFirstName:     req.PassengerInfo.FirstName,
		PassengerLastName:      req.PassengerInfo.LastName,
		PassengerPhone:         req.PassengerInfo.PhoneNumber,
		PassengerCount:         req.PassengerInfo.PassengerCount,
		PassengerDescription:   req.PassengerInfo.Description,
		EventID:                req.EventID,
		ClientID:               req.ClientID,
	}
}

func activeMissionStatuses() []string {
	return []string{string(entity.MissionStatusScheduled), string(entity.MissionStatusInProgress)}
}

// translateError maps database failures onto rejections the user can act on
func translateError(err error) error {
	var rejection *repository.RejectionError
	if errors.As(err, &rejection) {
		return rejection
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &repository.RejectionError{Kind: repository.RejectionConflict, Message: "A booking with the same details already exists"}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &repository.RejectionError{Kind: repository.RejectionValidation, Message: "The selected event, client or chauffeur no longer exists"}
	}
	return err
}

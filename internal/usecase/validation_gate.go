package usecase

import (
	"fmt"
	"strings"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/pkg/utils"
)

// Field names a form field the gate can check
type Field string

const (
	FieldCategory               Field = "category"
	FieldAirportTransferSubtype Field = "airportTransferSubtype"
	FieldFlightNumber           Field = "flightNumber"
	FieldEventID                Field = "eventId"
	FieldClientID               Field = "clientId"
	FieldPassengerInfo          Field = "passengerInfo"
	FieldPickupAddress          Field = "pickupAddress"
	FieldDropoffAddress         Field = "dropoffAddress"
	FieldDurationHours          Field = "durationHours"
	FieldPickupTime             Field = "pickupTime"
	FieldStatus                 Field = "status"
	FieldFare                   Field = "fare"
	FieldNotes                  Field = "notes"
	FieldMissionTitle           Field = "mission.title"
	FieldMissionClientID        Field = "mission.clientId"
	FieldMissionAssignee        Field = "mission.chauffeurId"
)

const maxNotesLength = 2000

// FieldError is one invalid field surfaced for display
type FieldError struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

// rule returns an empty string when the field is valid
type rule func(s entity.WorkflowState) string

var fieldRules = map[Field]rule{
	FieldCategory: func(s entity.WorkflowState) string {
		if _, ok := entity.ParseRideCategory(string(s.Category)); !ok {
			return "Select a ride category"
		}
		return ""
	},
	FieldAirportTransferSubtype: func(s entity.WorkflowState) string {
		if _, ok := entity.ParseAirportTransferSubtype(string(s.AirportTransferSubtype)); !ok {
			return "Select airport pickup or airport dropoff"
		}
		return ""
	},
	FieldFlightNumber: func(s entity.WorkflowState) string {
		if s.FlightNumber == "" {
			return "Flight number is required"
		}
		if !utils.IsFlightNumber(s.FlightNumber) {
			return "Flight number must be two letters followed by digits, e.g. AB123"
		}
		return ""
	},
	FieldEventID: func(s entity.WorkflowState) string {
		return requireText(s.EventID, "Select an event")
	},
	FieldClientID: func(s entity.WorkflowState) string {
		return requireText(s.ClientID, "Select a client")
	},
	FieldPassengerInfo: func(s entity.WorkflowState) string {
		p := s.Passenger
		var missing []string
		if strings.TrimSpace(p.FirstName) == "" {
			missing = append(missing, "first name")
		}
		if strings.TrimSpace(p.LastName) == "" {
			missing = append(missing, "last name")
		}
		if len(missing) > 0 {
			return "Passenger " + strings.Join(missing, " and ") + " required"
		}
		if p.PassengerCount < 1 {
			return "At least one passenger is required"
		}
		return ""
	},
	FieldPickupAddress: func(s entity.WorkflowState) string {
		return requireText(s.PickupAddress, "Pickup address is required")
	},
	FieldDropoffAddress: func(s entity.WorkflowState) string {
		return requireText(s.DropoffAddress, "Dropoff address is required")
	},
	FieldDurationHours: func(s entity.WorkflowState) string {
		if s.DurationHours == nil || *s.DurationHours <= 0 {
			return "Duration in hours is required for hourly bookings"
		}
		return ""
	},
	FieldPickupTime: func(s entity.WorkflowState) string {
		if s.PickupTime.IsZero() {
			return "Pickup time is required"
		}
		return ""
	},
	FieldStatus: func(s entity.WorkflowState) string {
		if _, ok := entity.ParseRideStatus(string(s.Status)); !ok {
			return "Select a ride status"
		}
		return ""
	},
	FieldFare: func(s entity.WorkflowState) string {
		if s.Fare != nil && *s.Fare < 0 {
			return "Fare cannot be negative"
		}
		return ""
	},
	FieldNotes: func(s entity.WorkflowState) string {
		if len(s.Notes) > maxNotesLength {
			return fmt.Sprintf("Notes cannot exceed %d characters", maxNotesLength)
		}
		return ""
	},
	FieldMissionTitle: func(s entity.WorkflowState) string {
		if s.Mission == nil {
			return "Mission title is required"
		}
		return requireText(s.Mission.Title, "Mission title is required")
	},
	FieldMissionClientID: func(s entity.WorkflowState) string {
		if s.Mission == nil {
			return "Select a client for the mission"
		}
		return requireText(s.Mission.ClientID, "Select a client for the mission")
	},
	FieldMissionAssignee: func(s entity.WorkflowState) string {
		if s.Mission == nil || (strings.TrimSpace(s.Mission.ChauffeurID) == "" && strings.TrimSpace(s.Mission.PartnerID) == "") {
			return "Assign a chauffeur or a partner to the mission"
		}
		return ""
	},
}

func requireText(v, msg string) string {
	if strings.TrimSpace(v) == "" {
		return msg
	}
	return ""
}

// StepFields returns the fields owned by step for the current answers
func StepFields(step StepID, s entity.WorkflowState) []Field {
	switch step {
	case StepRideType:
		fields := []Field{FieldCategory}
		if s.Category == entity.CategoryAirportTransfer {
			fields = append(fields, FieldAirportTransferSubtype, FieldFlightNumber)
		}
		return fields
	case StepEvent:
		return []Field{FieldEventID}
	case StepClient:
		return []Field{FieldClientID}
	case StepPassenger:
		return []Field{FieldPassengerInfo}
	case StepLocationDetails:
		fields := []Field{FieldPickupAddress}
		if s.Category == entity.CategoryBookByHour {
			fields = append(fields, FieldDurationHours)
		} else {
			fields = append(fields, FieldDropoffAddress)
		}
		return append(fields, FieldPickupTime, FieldStatus, FieldFare, FieldNotes)
	case StepMission:
		return []Field{FieldMissionTitle, FieldMissionClientID, FieldMissionAssignee}
	default:
		return nil
	}
}

// ValidateStep checks only the fields owned by step
func ValidateStep(step StepID, s entity.WorkflowState) []FieldError {
	return validateFields(StepFields(step, s), s)
}

// ValidateAll checks every field of every step in steps, as done on submission
func ValidateAll(steps []StepID, s entity.WorkflowState) []FieldError {
	var errs []FieldError
	for _, step := range steps {
		errs = append(errs, ValidateStep(step, s)...)
	}
	return errs
}

func validateFields(fields []Field, s entity.WorkflowState) []FieldError {
	var errs []FieldError
	for _, f := range fields {
		if msg := fieldRules[f](s); msg != "" {
			errs = append(errs, FieldError{Field: f, Message: msg})
		}
	}
	return errs
}

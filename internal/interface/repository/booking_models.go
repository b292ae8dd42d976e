package repository

import (
	"time"

	"gorm.io/gorm"
)

// Rides GORM model for database mapping
type Rides struct {
	gorm.Model
	PickupAddress          string    `gorm:"column:pickup_address"`
	DropoffAddress         string    `gorm:"column:dropoff_address"`
	PickupTime             time.Time `gorm:"column:pickup_time;index"`
	Category               string    `gorm:"column:category"`
	AirportTransferSubtype string    `gorm:"column:airport_transfer_subtype"`
	FlightNumber           string    `gorm:"column:flight_number"`
	DurationHours          *float64  `gorm:"column:duration_hours"`
	Status                 string    `gorm:"column:status"`
	Fare                   *float64  `gorm:"column:fare"`
	Notes                  string    `gorm:"column:notes"`
	ChauffeurID            *string   `gorm:"column:chauffeur_id;index"`
	PassengerFirstName     string    `gorm:"column:passenger_first_name"`
	PassengerLastName      string    `gorm:"column:passenger_last_name"`
	PassengerPhone         string    `gorm:"column:passenger_phone"`
	PassengerCount         int       `gorm:"column:passenger_count"`
	PassengerDescription   string    `gorm:"column:passenger_description"`
	EventID                string    `gorm:"column:event_id"`
	ClientID               string    `gorm:"column:client_id"`
	MissionID              *uint     `gorm:"column:mission_id;index"`
}

// TableName overrides the default table name
func (Rides) TableName() string {
	return "rides"
}

// Missions GORM model for database mapping
type Missions struct {
	gorm.Model
	Title             string    `gorm:"column:title"`
	ClientID          string    `gorm:"column:client_id"`
	ChauffeurID       *string   `gorm:"column:chauffeur_id;index"`
	PartnerID         *string   `gorm:"column:partner_id"`
	IsExternalPartner bool      `gorm:"column:is_external_partner"`
	StartDate         time.Time `gorm:"column:start_date"`
	EndDate           time.Time `gorm:"column:end_date"`
	Duration          int       `gorm:"column:duration"`
	Status            string    `gorm:"column:status;index"`
	PassengerIDs      []string  `gorm:"column:passenger_ids;serializer:json"`
	Notes             string    `gorm:"column:notes"`
	EventID           string    `gorm:"column:event_id"`
	Rides             []Rides   `gorm:"foreignKey:MissionID"`
}

// TableName overrides the default table name
func (Missions) TableName() string {
	return "missions"
}

// Chauffeurs GORM model for database mapping
type Chauffeurs struct {
	ID        string         `gorm:"primaryKey;column:id"`
	FirstName string         `gorm:"column:first_name"`
	LastName  string         `gorm:"column:last_name"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Chauffeurs) TableName() string {
	return "chauffeurs"
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

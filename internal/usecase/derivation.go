package usecase

import (
	"strings"
	"time"

	"dispatch-booking-service/internal/domain/entity"
)

// AirportDropoffBuffer is how long before departure the chauffeur picks the
// passenger up for an airport dropoff
const AirportDropoffBuffer = 3 * time.Hour

// FormatLocation renders a flight leg as "Airport - Terminal T - Gate G",
// omitting the parts that are unknown
func FormatLocation(leg entity.FlightLeg) string {
	name := strings.TrimSpace(leg.AirportName)
	if name == "" {
		name = strings.TrimSpace(leg.AirportCode)
	}
	parts := []string{name}
	if t := strings.TrimSpace(leg.Terminal); t != "" {
		parts = append(parts, "Terminal "+t)
	}
	if g := strings.TrimSpace(leg.Gate); g != "" {
		parts = append(parts, "Gate "+g)
	}
	return strings.Join(parts, " - ")
}

// Derivation holds the fields computed from a flight schedule. A nil
// address means that field is left alone.
type Derivation struct {
	PickupAddress  *string
	DropoffAddress *string
	PickupTime     time.Time
}

// DeriveAirportTransfer computes pickup/dropoff fields from schedule. It
// returns false when the category, subtype or schedule do not allow it.
func DeriveAirportTransfer(category entity.RideCategory, subtype entity.AirportTransferSubtype, schedule *entity.ScheduleRecord) (Derivation, bool) {
	if category != entity.CategoryAirportTransfer || schedule == nil {
		return Derivation{}, false
	}

	switch subtype {
	case entity.AirportPickup:
		loc := FormatLocation(schedule.Arrival)
		return Derivation{
			PickupAddress: &loc,
			PickupTime:    schedule.Arrival.Scheduled,
		}, true
	case entity.AirportDropoff:
		loc := FormatLocation(schedule.Departure)
		return Derivation{
			DropoffAddress: &loc,
			PickupTime:     schedule.Departure.Scheduled.Add(-AirportDropoffBuffer),
		}, true
	default:
		return Derivation{}, false
	}
}

// ApplyTo overwrites the derived fields of state
func (d Derivation) ApplyTo(state *entity.WorkflowState) {
	if d.PickupAddress != nil {
		state.PickupAddress = *d.PickupAddress
	}
	if d.DropoffAddress != nil {
		state.DropoffAddress = *d.DropoffAddress
	}
	if !d.PickupTime.IsZero() {
		state.PickupTime = d.PickupTime
	}
}

// derivedEdits records the derived fields the user typed by hand since the
// last applied fetch
type derivedEdits struct {
	pickupAddress  bool
	dropoffAddress bool
	pickupTime     bool
}

func (e *derivedEdits) mark(a Answers) {
	e.pickupAddress = e.pickupAddress || a.PickupAddress != nil
	e.dropoffAddress = e.dropoffAddress || a.DropoffAddress != nil
	e.pickupTime = e.pickupTime || a.PickupTime != nil
}

// except drops the fields listed in e from the derivation
func (d Derivation) except(e derivedEdits) Derivation {
	if e.pickupAddress {
		d.PickupAddress = nil
	}
	if e.dropoffAddress {
		d.DropoffAddress = nil
	}
	if e.pickupTime {
		d.PickupTime = time.Time{}
	}
	return d
}

// deriveFromSchedule applies the derivation for the state's own schedule,
// leaving the fields in keep untouched
func deriveFromSchedule(state *entity.WorkflowState, keep derivedEdits) bool {
	d, ok := DeriveAirportTransfer(state.Category, state.AirportTransferSubtype, state.FlightSchedule)
	if ok {
		d.except(keep).ApplyTo(state)
	}
	return ok
}

package usecase

import (
	"fmt"
	"strings"
	"time"

	"dispatch-booking-service/internal/domain/entity"
)

// Promotion reasons
const (
	PromotionNoChauffeur        = "no_chauffeur"
	PromotionChauffeurOnMission = "chauffeur_on_mission"
	PromotionRequired           = "chauffeur_unclaimed"
)

// PromotionDecision says whether a ride must be submitted as a mission
type PromotionDecision struct {
	Promote bool
	Reason  string
	// Existing is the mission that already claims the chauffeur, if any
	Existing *entity.ChauffeurMission
}

// DecidePromotion runs on the ride path only. A ride with a chauffeur that
// no existing mission claims has to become a mission for that chauffeur.
func DecidePromotion(chauffeurID string, existing entity.MissionAssignments) PromotionDecision {
	if strings.TrimSpace(chauffeurID) == "" {
		return PromotionDecision{Reason: PromotionNoChauffeur}
	}
	if m, ok := existing.ForChauffeur(chauffeurID); ok {
		return PromotionDecision{Reason: PromotionChauffeurOnMission, Existing: &m}
	}
	return PromotionDecision{Promote: true, Reason: PromotionRequired}
}

// MissionDateRange returns the start of today and the start of tomorrow
// in today's location
func MissionDateRange(today time.Time) (time.Time, time.Time) {
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return start, start.AddDate(0, 0, 1)
}

// MissionTitle is the default title of a synthesized mission
func MissionTitle(p entity.PassengerInfo, chauffeurName string) string {
	return fmt.Sprintf("Mission for %s %s with %s", p.FirstName, p.LastName, chauffeurName)
}

// PromoteRide folds ride into a one-ride mission assigned to its chauffeur.
// The folded fields are cleared on the outer request so it cannot be read
// as a ride as well.
func PromoteRide(ride *entity.RideRequest, chauffeurName string, today time.Time) *entity.MissionRequest {
	start, end := MissionDateRange(today)

	embedded := missionRideFromRequest(ride)

	outer := *ride
	clearFolded(&outer)

	return &entity.MissionRequest{
		RideRequest: outer,
		IsMission:   true,
		Mission: entity.MissionPayload{
			Title:        MissionTitle(ride.PassengerInfo, chauffeurName),
			ClientID:     ride.ClientID,
			ChauffeurID:  ride.ChauffeurID,
			StartDate:    start,
			EndDate:      end,
			Duration:     missionDays(start, end),
			Status:       entity.MissionStatusScheduled,
			PassengerIDs: []string{},
			Rides:        []entity.MissionRidePayload{embedded},
		},
	}
}

func missionDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Round(time.Hour).Hours() / 24)
}

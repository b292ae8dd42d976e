package entity

import "time"

// MissionStatus is the lifecycle status of a mission
type MissionStatus string

const (
	MissionStatusScheduled  MissionStatus = "SCHEDULED"
	MissionStatusInProgress MissionStatus = "IN_PROGRESS"
	MissionStatusCompleted  MissionStatus = "COMPLETED"
	MissionStatusCancelled  MissionStatus = "CANCELLED"
)

// Active reports whether a mission in this status still claims its chauffeur
func (s MissionStatus) Active() bool {
	return s == MissionStatusScheduled || s == MissionStatusInProgress
}

// MissionDraft is a chauffeur-scoped container of rides spanning a date range
type MissionDraft struct {
	Title             string        `json:"title"`
	ClientID          string        `json:"clientId"`
	ChauffeurID       string        `json:"chauffeurId,omitempty"`
	PartnerID         string        `json:"partnerId,omitempty"`
	IsExternalPartner bool          `json:"isExternalPartner"`
	StartDate         time.Time     `json:"startDate"`
	EndDate           time.Time     `json:"endDate"`
	Duration          int           `json:"duration"`
	Status            MissionStatus `json:"status"`
	PassengerIDs      []string      `json:"passengerIds"`
	Rides             []RideDraft   `json:"rides"`
	Notes             string        `json:"notes,omitempty"`
}

// Clone returns a copy that shares no slices with d
func (d *MissionDraft) Clone() *MissionDraft {
	if d == nil {
		return nil
	}
	c := *d
	c.PassengerIDs = append([]string(nil), d.PassengerIDs...)
	c.Rides = append([]RideDraft(nil), d.Rides...)
	return &c
}

// ChauffeurMission is an existing mission that claims a chauffeur
type ChauffeurMission struct {
	MissionID   string        `json:"missionId"`
	ChauffeurID string        `json:"chauffeurId"`
	Title       string        `json:"title"`
	Status      MissionStatus `json:"status"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     time.Time     `json:"endDate"`
}

// MissionAssignments is the set of chauffeur to mission assignments already scheduled
type MissionAssignments []ChauffeurMission

// ForChauffeur returns the first assignment for chauffeurID
func (a MissionAssignments) ForChauffeur(chauffeurID string) (ChauffeurMission, bool) {
	for _, m := range a {
		if m.ChauffeurID == chauffeurID {
			return m, true
		}
	}
	return ChauffeurMission{}, false
}

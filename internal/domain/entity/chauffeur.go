package entity

import "strings"

// Chauffeur is the reference record of a driver
type Chauffeur struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName joins first and last name, skipping empty parts
func (c Chauffeur) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

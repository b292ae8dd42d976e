package entity

// Airline resolves the two letter prefix of a flight number
type Airline struct {
	Code string
	Name string
}

package entity

// Airport is reference data used to name flight legs
type Airport struct {
	ID       uint
	Code     string
	Name     string
	CityCode string
	CityName string
	TzName   string
}

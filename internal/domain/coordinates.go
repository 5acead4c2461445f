package domain

// Immutable geographic coordinates of a geocoded birthplace (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

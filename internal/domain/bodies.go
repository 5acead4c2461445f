package domain

// Celestial bodies fetched from the ephemeris, in display order.
// The South Node is never fetched: it is always derived locally as the
// exact opposite point of the North Node.
const (
	BodyNorthNode = "North Node"
	BodySouthNode = "South Node"
)

var Bodies = []string{
	"Sun", "Moon", "Mercury", "Venus", "Mars",
	"Jupiter", "Saturn", "Uranus", "Neptune", "Pluto",
	BodyNorthNode,
}

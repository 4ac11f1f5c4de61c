package domain

// Point is a position in surface-local coordinates, i.e. already scaled by
// the slot's RenderScale.
type Point struct {
	X float64
	Y float64
}

// Marker is a treatment mark placed on one image slot.
type Marker struct {
	ID            string
	Position      Point
	Color         string
	TreatmentName string
	ImageIndex    int
}

// ArmedTreatment is the (color, name) pair attached to the next placed marker.
type ArmedTreatment struct {
	Color string
	Name  string
}

// Ready reports whether both the color and the treatment name are set.
func (a ArmedTreatment) Ready() bool {
	return a.Color != "" && a.Name != ""
}

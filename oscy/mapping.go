package oscy

import (
	"fmt"
	"strings"
)

// Axis selects which normalized coordinate of a contact drives a parameter.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisCenterX
	AxisCenterY
)

var axisNames = [...]string{"x", "y", "center-x", "center-y"}

func (a Axis) String() string {
	if a < 0 || int(a) >= len(axisNames) {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisNames[a]
}

// ParseAxis maps "x", "y", "center-x" or "center-y" to an Axis.
func ParseAxis(s string) (Axis, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range axisNames {
		if n == name {
			return Axis(i), nil
		}
	}
	return AxisX, fmt.Errorf("unknown axis %q", s)
}

// Rate returns the contact coordinate selected by a. Values are not clamped.
func (a Axis) Rate(c Contact) float64 {
	switch a {
	case AxisY:
		return c.Y
	case AxisCenterX:
		return c.CenterX()
	case AxisCenterY:
		return c.CenterY()
	default:
		return c.X
	}
}

// Mapping assigns contact axes to the frequency and detune targets.
type Mapping struct {
	Frequency Axis
	Detune    Axis
}

var (
	// DefaultMapping plays pitch left to right and detune top to bottom.
	DefaultMapping = Mapping{Frequency: AxisX, Detune: AxisY}
	// ClassicMapping takes pitch from the vertical distance to the centre line
	// and detune from the horizontal position.
	ClassicMapping = Mapping{Frequency: AxisCenterY, Detune: AxisX}
)

// Interpolate returns min + (max-min)*rate without clamping.
func Interpolate(min, max, rate float64) float64 {
	return min + (max-min)*rate
}

// Targets computes the frequency and detune a voice with bounds p should
// play at contact c.
func (m Mapping) Targets(c Contact, p Params) (frequency, detune float64) {
	frequency = Interpolate(p.FrequencyMin, p.FrequencyMax, m.Frequency.Rate(c))
	detune = Interpolate(p.DetuneMin, p.DetuneMax, m.Detune.Rate(c))
	return frequency, detune
}

package oscy

import (
	"math"
	"strconv"
)

// ContactID identifies one pointer or touch. Platform touch identifiers are
// non-negative; Pointer is the null identity used for mouse input.
type ContactID int

// Pointer is the identity of the single mouse-style contact.
const Pointer ContactID = -1

func (id ContactID) String() string {
	if id == Pointer {
		return "pointer"
	}
	return strconv.Itoa(int(id))
}

// Contact is one normalized input sample: panel-relative pixel offsets plus
// coordinates normalized to the panel size.
type Contact struct {
	ID      ContactID
	OffsetX float64
	OffsetY float64
	X       float64
	Y       float64
}

// NewContact normalizes a panel-relative position. A zero-sized panel yields
// zero normalized coordinates.
func NewContact(id ContactID, offsetX, offsetY, width, height float64) Contact {
	c := Contact{ID: id, OffsetX: offsetX, OffsetY: offsetY}
	if width > 0 {
		c.X = offsetX / width
	}
	if height > 0 {
		c.Y = offsetY / height
	}
	return c
}

// CenterX is 1 at the horizontal centre of the panel and 0 at both edges.
func (c Contact) CenterX() float64 {
	return 1 - math.Abs(c.X-0.5)*2
}

// CenterY is 1 at the vertical centre of the panel and 0 at both edges.
func (c Contact) CenterY() float64 {
	return 1 - math.Abs(c.Y-0.5)*2
}

// Hue is the ripple colour angle in degrees for this position.
func (c Contact) Hue() float64 {
	return float64(int(c.CenterY() * c.X * 360))
}

package main

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/cwbudde/algo-oscy/internal/log"
	"github.com/cwbudde/algo-oscy/oscy"
)

var background = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff}

// game turns ebiten touch and mouse input into multiplexer batches and
// advances the fade clock once per tick.
type game struct {
	mux     *oscy.Multiplexer
	clock   *oscy.Clock
	ripples *rippleSet
	logger  *log.Logger

	width, height int

	touchIDs []ebiten.TouchID
	pressed  []ebiten.TouchID
	released []ebiten.TouchID
	lastPos  map[ebiten.TouchID][2]int
	mouseX   int
	mouseY   int
}

func newGame(mux *oscy.Multiplexer, clock *oscy.Clock, logger *log.Logger) *game {
	r := &rippleSet{}
	mux.SetRipple(r)
	return &game{
		mux:     mux,
		clock:   clock,
		ripples: r,
		logger:  logger,
		lastPos: make(map[ebiten.TouchID][2]int),
	}
}

func (g *game) contact(id oscy.ContactID, x, y int) oscy.Contact {
	return oscy.NewContact(id, float64(x), float64(y), float64(g.width), float64(g.height))
}

func (g *game) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())

	g.pressed = inpututil.AppendJustPressedTouchIDs(g.pressed[:0])
	if len(g.pressed) > 0 {
		batch := make([]oscy.Contact, 0, len(g.pressed))
		for _, id := range g.pressed {
			x, y := ebiten.TouchPosition(id)
			g.lastPos[id] = [2]int{x, y}
			batch = append(batch, g.contact(oscy.ContactID(id), x, y))
		}
		if _, err := g.mux.Start(batch); err != nil {
			g.logger.Warnf("touch start: %v", err)
		}
	}

	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	var moved []oscy.Contact
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		if p, ok := g.lastPos[id]; ok && p == [2]int{x, y} {
			continue
		}
		g.lastPos[id] = [2]int{x, y}
		moved = append(moved, g.contact(oscy.ContactID(id), x, y))
	}
	if len(moved) > 0 {
		g.mux.Move(moved)
	}

	g.released = inpututil.AppendJustReleasedTouchIDs(g.released[:0])
	if len(g.released) > 0 {
		ids := make([]oscy.ContactID, len(g.released))
		for i, id := range g.released {
			ids[i] = oscy.ContactID(id)
			delete(g.lastPos, id)
		}
		g.endTouches(ids, len(g.touchIDs), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	}

	g.updateMouse()

	g.clock.Advance(dt)
	g.ripples.update(dt)
	return nil
}

// endTouches releases ended touches. Once no touch is down every leftover
// voice is reclaimed, unless the mouse still holds the pointer voice.
func (g *game) endTouches(ids []oscy.ContactID, active int, mouseDown bool) int {
	n := g.mux.End(ids)
	if active == 0 && !mouseDown {
		n += g.mux.ReconcileGarbage(true)
	}
	return n
}

// updateMouse drives the pointer identity, which plays at most one voice.
func (g *game) updateMouse() {
	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		if _, err := g.mux.Start([]oscy.Contact{g.contact(oscy.Pointer, x, y)}); err != nil {
			g.logger.Warnf("mouse start: %v", err)
		}
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.mux.End([]oscy.ContactID{oscy.Pointer})
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && (x != g.mouseX || y != g.mouseY):
		g.mux.Move([]oscy.Contact{g.contact(oscy.Pointer, x, y)})
	}
	g.mouseX, g.mouseY = x, y
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	for _, r := range g.ripples.items {
		vector.StrokeCircle(screen, float32(r.x), float32(r.y), float32(r.radius()), 3, r.color(), true)
	}
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	g.width = outsideW
	g.height = outsideH
	return outsideW, outsideH
}

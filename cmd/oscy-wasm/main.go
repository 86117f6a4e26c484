//go:build js && wasm

package main

import (
	"os"
	"syscall/js"
	"time"

	"github.com/cwbudde/algo-oscy/internal/log"
	"github.com/cwbudde/algo-oscy/oscy"
	"github.com/cwbudde/algo-oscy/webaudio"
)

var (
	current *session
	audioCx *webaudio.Context
	logger  = log.New(os.Stdout, log.LevelInfo)
)

func main() {
	c := make(chan struct{})

	js.Global().Set("oscyInit", js.FuncOf(oscyInit))
	js.Global().Set("oscyResize", js.FuncOf(oscyResize))
	js.Global().Set("oscyStart", js.FuncOf(oscyStart))
	js.Global().Set("oscyMove", js.FuncOf(oscyMove))
	js.Global().Set("oscyEnd", js.FuncOf(oscyEnd))
	js.Global().Set("oscyTick", js.FuncOf(oscyTick))
	js.Global().Set("oscyClose", js.FuncOf(oscyClose))
	js.Global().Set("oscySetLogLevel", js.FuncOf(oscySetLogLevel))

	println("WASM oscy module loaded")
	<-c
}

func result(n int, err error) interface{} {
	if err != nil {
		return map[string]interface{}{"count": n, "error": err.Error()}
	}
	return map[string]interface{}{"count": n}
}

// oscyInit(width, height[, presetJSON]) builds a session on a fresh
// AudioContext. It returns an error string or null.
func oscyInit(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return "oscyInit(width, height[, presetJSON])"
	}
	if current != nil {
		current.close()
		audioCx.Close()
		current, audioCx = nil, nil
	}
	ac, err := webaudio.NewContext()
	if err != nil {
		logger.Errorf("audio: %v", err)
		return err.Error()
	}
	presetJSON := ""
	if len(args) > 2 && args[2].Type() == js.TypeString {
		presetJSON = args[2].String()
	}
	s, err := newSession(ac, presetJSON, args[0].Float(), args[1].Float(), logger)
	if err != nil {
		ac.Close()
		logger.Errorf("init: %v", err)
		return err.Error()
	}
	s.mux.SetRipple(oscy.RippleFunc(showRipple))
	current, audioCx = s, ac
	logger.Infof("oscy initialized at %d Hz", ac.SampleRate())
	return nil
}

// showRipple forwards visual feedback to a page-provided oscyRipple(x, y, hue).
func showRipple(c oscy.Contact) {
	fn := js.Global().Get("oscyRipple")
	if fn.Type() != js.TypeFunction {
		return
	}
	fn.Invoke(c.OffsetX, c.OffsetY, c.Hue())
}

func oscyResize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 || current == nil {
		return nil
	}
	if err := current.resize(args[0].Float(), args[1].Float()); err != nil {
		return err.Error()
	}
	return nil
}

func oscyStart(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || current == nil {
		return nil
	}
	// Browsers only let audio start from inside a user gesture.
	if err := audioCx.Resume(); err != nil {
		logger.Errorf("resume: %v", err)
	}
	return result(current.start(args[0].String()))
}

func oscyMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || current == nil {
		return nil
	}
	return result(current.move(args[0].String()))
}

// oscyEnd(touchesJSON, activeTouches)
func oscyEnd(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 || current == nil {
		return nil
	}
	return result(current.end(args[0].String(), args[1].Int()))
}

// oscyTick(elapsedMs) advances fades; the page calls it from
// requestAnimationFrame.
func oscyTick(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || current == nil {
		return nil
	}
	current.tick(time.Duration(args[0].Float() * float64(time.Millisecond)))
	return nil
}

func oscyClose(this js.Value, args []js.Value) interface{} {
	if current == nil {
		return 0
	}
	n := current.close()
	audioCx.Close()
	current, audioCx = nil, nil
	return n
}

func oscySetLogLevel(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	logger.SetLevel(log.LevelFromString(args[0].String()))
	return nil
}

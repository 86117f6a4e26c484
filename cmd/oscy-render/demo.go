package main

import "github.com/cwbudde/algo-oscy/gesture"

// demoScript is a two-finger glide: one finger sweeps across the panel while
// a second joins halfway and both lift before the release tail.
func demoScript() *gesture.Script {
	active := func(n int) *int { return &n }
	s := &gesture.Script{Width: 1000, Height: 600, TailMs: 1600}
	s.Events = append(s.Events, gesture.Event{
		AtMs:    0,
		Kind:    gesture.KindStart,
		Touches: []gesture.Touch{{ID: 0, X: 0, Y: 300}},
		Active:  active(1),
	})
	for i := 1; i <= 20; i++ {
		s.Events = append(s.Events, gesture.Event{
			AtMs:    float64(i * 50),
			Kind:    gesture.KindMove,
			Touches: []gesture.Touch{{ID: 0, X: float64(i * 50), Y: 300}},
		})
		if i == 10 {
			s.Events = append(s.Events, gesture.Event{
				AtMs:    500,
				Kind:    gesture.KindStart,
				Touches: []gesture.Touch{{ID: 1, X: 250, Y: 150}},
				Active:  active(2),
			})
		}
	}
	s.Events = append(s.Events,
		gesture.Event{AtMs: 1200, Kind: gesture.KindEnd, Touches: []gesture.Touch{{ID: 1}}, Active: active(1)},
		gesture.Event{AtMs: 1400, Kind: gesture.KindEnd, Touches: []gesture.Touch{{ID: 0}}, Active: active(0)},
	)
	return s
}

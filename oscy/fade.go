package oscy

import (
	"context"
	"sort"
	"time"
)

// DefaultFadeDuration is used when a fade is requested without a duration.
const DefaultFadeDuration = time.Second

// Fade is the completion handle of one timed parameter transition.
type Fade struct {
	voice      *Voice
	ease       Easing
	keys       []Param
	from       map[Param]float64
	to         map[Param]float64
	duration   time.Duration
	step       time.Duration
	elapsed    time.Duration
	ticker     Ticker
	onComplete func(*Voice)
	then       []func(*Voice)
	done       chan struct{}
	completed  bool
}

func newFade(v *Voice, targets map[Param]float64, ease Easing, d, step time.Duration, onComplete func(*Voice)) *Fade {
	f := &Fade{
		voice:      v,
		ease:       ease,
		keys:       make([]Param, 0, len(targets)),
		from:       make(map[Param]float64, len(targets)),
		to:         make(map[Param]float64, len(targets)),
		duration:   d,
		step:       step,
		onComplete: onComplete,
		done:       make(chan struct{}),
	}
	for k, value := range targets {
		if k < 0 || k >= numParams {
			continue
		}
		f.keys = append(f.keys, k)
		f.from[k] = v.params.Get(k)
		f.to[k] = value
	}
	sort.Slice(f.keys, func(i, j int) bool { return f.keys[i] < f.keys[j] })
	return f
}

// Voice returns the voice being faded.
func (f *Fade) Voice() *Voice {
	return f.voice
}

// Done is closed once the fade has finished or was discarded.
func (f *Fade) Done() <-chan struct{} {
	return f.done
}

// Completed reports whether the fade ran to its end. A fade discarded by
// Voice.Destruct resolves without completing.
func (f *Fade) Completed() bool {
	return f.completed
}

// Elapsed returns how much of the transition has been applied.
func (f *Fade) Elapsed() time.Duration {
	return f.elapsed
}

// Wait blocks until the fade resolves or ctx is done. With a virtual Clock
// something else must keep advancing time.
func (f *Fade) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fade) tick() {
	f.elapsed += f.step
	if f.elapsed > f.duration {
		f.elapsed = f.duration
	}
	r := f.ease(float64(f.elapsed), 0, 1, float64(f.duration))
	last := f.elapsed >= f.duration
	for _, k := range f.keys {
		value := f.from[k] + (f.to[k]-f.from[k])*r
		if last {
			value = f.to[k]
		}
		f.voice.Set(k, value)
	}
	if last {
		f.finish(true)
	}
}

// finish stops the timer, clears the voice's active fade, runs onComplete when
// the fade completed, then resolves the handle.
func (f *Fade) finish(completed bool) {
	if f.ticker != nil {
		f.ticker.Stop()
	}
	if f.voice.fade == f {
		f.voice.fade = nil
	}
	f.completed = completed
	if completed {
		if f.onComplete != nil {
			f.onComplete(f.voice)
		}
		for _, fn := range f.then {
			fn(f.voice)
		}
	}
	close(f.done)
}

// andThen queues fn to run after onComplete when the fade completes.
func (f *Fade) andThen(fn func(*Voice)) {
	f.then = append(f.then, fn)
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cwbudde/algo-oscy/analysis"
	"github.com/cwbudde/algo-oscy/gesture"
	"github.com/cwbudde/algo-oscy/internal/log"
	"github.com/cwbudde/algo-oscy/internal/wavio"
	"github.com/cwbudde/algo-oscy/oscy"
	"github.com/cwbudde/algo-oscy/softsynth"
)

// render replays script through a software-synthesized instrument and
// returns the mono mix.
func render(ctx context.Context, cfg *oscy.Config, script *gesture.Script, sampleRate int, logger *log.Logger) ([]float32, gesture.Stats, error) {
	ac, err := softsynth.NewContext(sampleRate)
	if err != nil {
		return nil, gesture.Stats{}, err
	}
	clock := oscy.NewClock()
	m, err := oscy.NewMultiplexer(ac, clock, cfg)
	if err != nil {
		return nil, gesture.Stats{}, err
	}
	m.SetLogger(logger)
	defer m.Close()

	total := framesFor(script.Duration(), sampleRate)
	out := make([]float32, 0, total)
	var elapsed time.Duration
	p := &gesture.Player{
		Target: m,
		Clock:  clock,
		Step:   cfg.Tick,
		Logger: logger,
		OnStep: func(d time.Duration) error {
			// Frame counts follow the absolute timeline so rounding never
			// accumulates.
			from := framesFor(elapsed, sampleRate)
			elapsed += d
			n := framesFor(elapsed, sampleRate) - from
			if n > 0 {
				out = append(out, ac.RenderFrames(n)...)
			}
			return nil
		},
	}
	stats, err := p.Run(ctx, script)
	if err != nil {
		return nil, stats, fmt.Errorf("replay: %w", err)
	}
	return out, stats, nil
}

func framesFor(d time.Duration, sampleRate int) int {
	return int(int64(d) * int64(sampleRate) / int64(time.Second))
}

// measureFile reads a written WAV back and measures what ended up on disk,
// quantization and resampling included.
func measureFile(path string) (analysis.Metrics, error) {
	x, rate, err := wavio.ReadMonoWAV(path)
	if err != nil {
		return analysis.Metrics{}, fmt.Errorf("read back %s: %w", path, err)
	}
	return analysis.Measure(x, rate)
}

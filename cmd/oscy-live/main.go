package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/cwbudde/algo-oscy/internal/log"
	"github.com/cwbudde/algo-oscy/oscy"
	"github.com/cwbudde/algo-oscy/preset"
	"github.com/cwbudde/algo-oscy/softsynth"
)

func main() {
	presetName := flag.String("preset", "default", "Built-in preset name or preset JSON file path")
	sampleRate := flag.Int("sample-rate", 48000, "Output sample rate in Hz")
	width := flag.Int("width", 960, "Window width")
	height := flag.Int("height", 600, "Window height")
	bufferMs := flag.Int("buffer-ms", 20, "Audio device buffer in milliseconds")
	logLevel := flag.String("log-level", "INFO", "Log level: DEBUG, INFO, WARN, ERROR, NONE")
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := log.New(os.Stderr, level)

	cfg, err := preset.Load(*presetName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetName, err)
		os.Exit(1)
	}

	synth, err := softsynth.NewContext(*sampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(*bufferMs) * time.Millisecond,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening audio device: %v\n", err)
		os.Exit(1)
	}
	<-ready
	player := otoCtx.NewPlayer(synth)
	player.Play()
	defer player.Close()

	clock := oscy.NewClock()
	mux, err := oscy.NewMultiplexer(synth, clock, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	mux.SetLogger(logger)
	defer mux.Close()

	logger.Infof("oscy live: %s preset, %s waveform, %d Hz", *presetName, cfg.Type, *sampleRate)

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("oscy")
	if err := ebiten.RunGame(newGame(mux, clock, logger)); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

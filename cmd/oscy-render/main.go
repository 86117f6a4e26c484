package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-oscy/gesture"
	"github.com/cwbudde/algo-oscy/internal/log"
	"github.com/cwbudde/algo-oscy/internal/wavio"
	"github.com/cwbudde/algo-oscy/oscy"
	"github.com/cwbudde/algo-oscy/preset"
)

func main() {
	presetName := flag.String("preset", "default", "Built-in preset name or preset JSON file path")
	scriptPath := flag.String("script", "", "Gesture script JSON file (built-in glide demo when empty)")
	output := flag.String("output", "output.wav", "Output WAV file path")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	outRate := flag.Int("out-rate", 0, "Resample the output to this rate in Hz (0 = render rate)")
	waveform := flag.String("waveform", "", "Override the preset waveform (sine, square, sawtooth, triangle)")
	logLevel := flag.String("log-level", "INFO", "Log level: DEBUG, INFO, WARN, ERROR, NONE")
	report := flag.Bool("report", false, "Print a JSON measurement report of the written WAV file")
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
	if *waveform != "" {
		w, err := oscy.ParseWaveform(*waveform)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Type = w
	}

	script := demoScript()
	if *scriptPath != "" {
		script, err = gesture.LoadJSON(*scriptPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading script: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Rendering %v of gestures at %d Hz (preset: %s, waveform: %s)...\n", script.Duration(), *sampleRate, *presetName, cfg.Type)

	samples, stats, err := render(context.Background(), cfg, script, *sampleRate, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}
	logger.Debugf("dispatch stats: %+v", stats)

	rate := *sampleRate
	if *outRate > 0 && *outRate != rate {
		samples, err = wavio.Resample(samples, rate, *outRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resampling: %v\n", err)
			os.Exit(1)
		}
		rate = *outRate
	}

	if err := wavio.WriteMonoWAV(*output, samples, rate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully wrote %s (%d frames)\n", *output, len(samples))

	if *report {
		m, err := measureFile(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error measuring: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
	}
}

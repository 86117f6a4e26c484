package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/cwbudde/algo-oscy/oscy"
)

// File is the JSON schema for instrument presets. Every field is optional;
// missing fields keep the value of the base preset.
type File struct {
	Base          string      `json:"base"`
	Type          *string     `json:"type"`
	Gain          *float64    `json:"gain"`
	Effect        *string     `json:"effect"`
	ReverbMs      *float64    `json:"reverb_ms"`
	TickMs        *float64    `json:"tick_ms"`
	FrequencyMin  *float64    `json:"frequency_min"`
	FrequencyMax  *float64    `json:"frequency_max"`
	DetuneMin     *float64    `json:"detune_min"`
	DetuneMax     *float64    `json:"detune_max"`
	FrequencyAxis *string     `json:"frequency_axis"`
	DetuneAxis    *string     `json:"detune_axis"`
	Offsets       *OffsetFile `json:"offsets"`
	MaxContacts   *int        `json:"max_contacts"`
	MaxVoices     *int        `json:"max_voices"`
	SingleVoice   *bool       `json:"single_voice"`
	Ripple        *bool       `json:"ripple"`
}

// OffsetFile overrides the bound-derivation offsets.
type OffsetFile struct {
	FrequencyBelow *float64 `json:"frequency_below"`
	FrequencyAbove *float64 `json:"frequency_above"`
	DetuneBelow    *float64 `json:"detune_below"`
	DetuneAbove    *float64 `json:"detune_above"`
}

var named = map[string]func() *oscy.Config{
	"default": oscy.NewDefaultConfig,
	"classic": func() *oscy.Config {
		c := oscy.NewDefaultConfig()
		c.Mapping = oscy.ClassicMapping
		c.MaxContacts = 3
		return c
	},
	"wide-detune": func() *oscy.Config {
		c := oscy.NewDefaultConfig()
		c.Offsets = oscy.WideDetuneOffsets
		return c
	},
	"mouse": func() *oscy.Config {
		c := oscy.NewDefaultConfig()
		c.SingleVoice = true
		return c
	},
}

// Names lists the built-in presets.
func Names() []string {
	out := make([]string, 0, len(named))
	for k := range named {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Named returns a fresh copy of a built-in preset.
func Named(name string) (*oscy.Config, error) {
	fn, ok := named[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return fn(), nil
}

// LoadJSON loads a preset JSON file and applies it on top of its base preset
// (the default preset when no base is named).
func LoadJSON(path string) (*oscy.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a preset document.
func Parse(b []byte) (*oscy.Config, error) {
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	base := f.Base
	if base == "" {
		base = "default"
	}
	c, err := Named(base)
	if err != nil {
		return nil, err
	}
	if err := ApplyFile(c, &f); err != nil {
		return nil, err
	}
	return c, nil
}

// Load resolves nameOrPath as a built-in preset name first and as a JSON
// file otherwise. An empty string yields the default preset.
func Load(nameOrPath string) (*oscy.Config, error) {
	if nameOrPath == "" {
		return oscy.NewDefaultConfig(), nil
	}
	if c, err := Named(nameOrPath); err == nil {
		return c, nil
	}
	return LoadJSON(nameOrPath)
}

// ApplyFile applies a parsed preset file onto an existing config.
func ApplyFile(dst *oscy.Config, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination config")
	}
	if f == nil {
		return nil
	}

	if f.Type != nil {
		w, err := oscy.ParseWaveform(*f.Type)
		if err != nil {
			return fmt.Errorf("type: %w", err)
		}
		dst.Type = w
	}
	if f.Gain != nil {
		if *f.Gain < 0 {
			return fmt.Errorf("gain must be >= 0")
		}
		dst.Gain = *f.Gain
	}
	if f.Effect != nil {
		if !oscy.HasEasing(*f.Effect) {
			return fmt.Errorf("unknown effect %q", *f.Effect)
		}
		dst.Effect = *f.Effect
	}
	if f.ReverbMs != nil {
		if *f.ReverbMs < 0 {
			return fmt.Errorf("reverb_ms must be >= 0")
		}
		dst.Release = msToDuration(*f.ReverbMs)
	}
	if f.TickMs != nil {
		if *f.TickMs <= 0 {
			return fmt.Errorf("tick_ms must be > 0")
		}
		dst.Tick = msToDuration(*f.TickMs)
	}

	if f.FrequencyMin != nil || f.FrequencyMax != nil {
		r := oscy.Range{Min: 220, Max: 880}
		if dst.FrequencyRange != nil {
			r = *dst.FrequencyRange
		}
		if f.FrequencyMin != nil {
			r.Min = *f.FrequencyMin
		}
		if f.FrequencyMax != nil {
			r.Max = *f.FrequencyMax
		}
		dst.FrequencyRange = &r
	}
	if f.DetuneMin != nil || f.DetuneMax != nil {
		r := dst.DetuneRange
		if r == nil && (f.DetuneMin == nil || f.DetuneMax == nil) {
			return fmt.Errorf("detune_min and detune_max must be set together")
		}
		next := oscy.Range{}
		if r != nil {
			next = *r
		}
		if f.DetuneMin != nil {
			next.Min = *f.DetuneMin
		}
		if f.DetuneMax != nil {
			next.Max = *f.DetuneMax
		}
		dst.DetuneRange = &next
	}

	if f.FrequencyAxis != nil {
		a, err := oscy.ParseAxis(*f.FrequencyAxis)
		if err != nil {
			return fmt.Errorf("frequency_axis: %w", err)
		}
		dst.Mapping.Frequency = a
	}
	if f.DetuneAxis != nil {
		a, err := oscy.ParseAxis(*f.DetuneAxis)
		if err != nil {
			return fmt.Errorf("detune_axis: %w", err)
		}
		dst.Mapping.Detune = a
	}

	if o := f.Offsets; o != nil {
		for _, v := range []*float64{o.FrequencyBelow, o.FrequencyAbove, o.DetuneBelow, o.DetuneAbove} {
			if v != nil && *v < 0 {
				return fmt.Errorf("offsets must be >= 0")
			}
		}
		if o.FrequencyBelow != nil {
			dst.Offsets.FrequencyBelow = *o.FrequencyBelow
		}
		if o.FrequencyAbove != nil {
			dst.Offsets.FrequencyAbove = *o.FrequencyAbove
		}
		if o.DetuneBelow != nil {
			dst.Offsets.DetuneBelow = *o.DetuneBelow
		}
		if o.DetuneAbove != nil {
			dst.Offsets.DetuneAbove = *o.DetuneAbove
		}
	}

	if f.MaxContacts != nil {
		if *f.MaxContacts < 0 {
			return fmt.Errorf("max_contacts must be >= 0")
		}
		dst.MaxContacts = *f.MaxContacts
	}
	if f.MaxVoices != nil {
		if *f.MaxVoices < 0 {
			return fmt.Errorf("max_voices must be >= 0")
		}
		dst.MaxVoices = *f.MaxVoices
	}
	if f.SingleVoice != nil {
		dst.SingleVoice = *f.SingleVoice
	}
	if f.Ripple != nil {
		dst.Ripple = *f.Ripple
	}
	return dst.Validate()
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

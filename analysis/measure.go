package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

const (
	minFFTSize = 256
	maxFFTSize = 1 << 16
)

// Metrics summarizes a rendered mono signal.
type Metrics struct {
	SampleRate  int     `json:"sample_rate"`
	Frames      int     `json:"frames"`
	DurationSec float64 `json:"duration_sec"`

	RMS      float64 `json:"rms"`
	Peak     float64 `json:"peak"`
	RMSDBFS  float64 `json:"rms_dbfs"`
	PeakDBFS float64 `json:"peak_dbfs"`

	// FundamentalHz is the frequency of the strongest spectral peak, or 0
	// when the signal is too short or silent.
	FundamentalHz float64 `json:"fundamental_hz"`
	FFTSize       int     `json:"fft_size"`
}

// Measure computes level metrics and a fundamental estimate for x.
func Measure(x []float64, sampleRate int) (Metrics, error) {
	m := Metrics{
		SampleRate: sampleRate,
		Frames:     len(x),
	}
	if sampleRate <= 0 {
		return m, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	m.DurationSec = float64(len(x)) / float64(sampleRate)
	m.RMS = RMS(x)
	m.Peak = Peak(x)
	m.RMSDBFS = LinToDB(m.RMS)
	m.PeakDBFS = LinToDB(m.Peak)
	if m.Peak < 1e-9 {
		return m, nil
	}

	f, n, err := Fundamental(x, sampleRate)
	if err != nil {
		return m, err
	}
	m.FundamentalHz = f
	m.FFTSize = n
	return m, nil
}

// Fundamental estimates the frequency of the strongest spectral peak using a
// Hann-windowed FFT over the longest power-of-two prefix of x and parabolic
// interpolation around the peak bin. It returns the FFT size used.
func Fundamental(x []float64, sampleRate int) (float64, int, error) {
	n := fftSizeFor(len(x))
	if n == 0 || sampleRate <= 0 {
		return 0, 0, nil
	}
	plan, err := algofft.NewPlanReal64(n)
	if err != nil {
		return 0, 0, fmt.Errorf("fft plan: %w", err)
	}

	buf := make([]float64, n)
	for i := 0; i < n; i++ {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		buf[i] = x[i] * w
	}
	bins := make([]complex128, n/2+1)
	plan.Forward(bins, buf)

	best := 0
	bestMag := 0.0
	for k := 1; k < n/2; k++ {
		if mag := cmplx.Abs(bins[k]); mag > bestMag {
			best = k
			bestMag = mag
		}
	}
	if best == 0 {
		return 0, n, nil
	}

	a := LinToDB(cmplx.Abs(bins[best-1]))
	b := LinToDB(bestMag)
	c := LinToDB(cmplx.Abs(bins[best+1]))
	delta := 0.0
	if den := a - 2*b + c; math.Abs(den) > 1e-12 {
		delta = 0.5 * (a - c) / den
	}
	binHz := float64(sampleRate) / float64(n)
	return (float64(best) + delta) * binHz, n, nil
}

func fftSizeFor(frames int) int {
	if frames < minFFTSize {
		return 0
	}
	n := minFFTSize
	for n*2 <= frames && n*2 <= maxFFTSize {
		n *= 2
	}
	return n
}

// RMS returns the root mean square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Peak returns the largest absolute sample of x.
func Peak(x []float64) float64 {
	var p float64
	for _, v := range x {
		if a := math.Abs(v); a > p {
			p = a
		}
	}
	return p
}

// Envelope returns the RMS of consecutive frames of x advanced by hop.
func Envelope(x []float64, frame int, hop int) []float64 {
	if frame <= 0 || hop <= 0 || len(x) < frame {
		return nil
	}
	n := 1 + (len(x)-frame)/hop
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * hop
		out[i] = RMS(x[start : start+frame])
	}
	return out
}

// LinToDB converts a linear amplitude to decibels, flooring at -240 dB.
func LinToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

// Float32To64 widens a rendered buffer for measurement.
func Float32To64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

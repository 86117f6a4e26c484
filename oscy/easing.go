package oscy

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-approx"
)

// Easing maps elapsed time t of a transition lasting d onto a value that
// starts at b and changes by c. Curves return b at t=0 and b+c at t=d.
type Easing func(t, b, c, d float64) float64

// DefaultEasing is used whenever an unknown curve name is requested.
const DefaultEasing = "swing"

var easings = map[string]Easing{
	"linear": func(t, b, c, d float64) float64 { return c*t/d + b },
	"swing": func(t, b, c, d float64) float64 {
		return c*(0.5-math.Cos(t/d*math.Pi)/2) + b
	},

	"easeInQuad":  func(t, b, c, d float64) float64 { t /= d; return c*t*t + b },
	"easeOutQuad": func(t, b, c, d float64) float64 { t /= d; return -c*t*(t-2) + b },
	"easeInOutQuad": func(t, b, c, d float64) float64 {
		t /= d / 2
		if t < 1 {
			return c/2*t*t + b
		}
		t--
		return -c/2*(t*(t-2)-1) + b
	},

	"easeInCubic":  func(t, b, c, d float64) float64 { t /= d; return c*t*t*t + b },
	"easeOutCubic": func(t, b, c, d float64) float64 { t = t/d - 1; return c*(t*t*t+1) + b },
	"easeInOutCubic": func(t, b, c, d float64) float64 {
		t /= d / 2
		if t < 1 {
			return c/2*t*t*t + b
		}
		t -= 2
		return c/2*(t*t*t+2) + b
	},

	"easeInQuart":  func(t, b, c, d float64) float64 { t /= d; return c*t*t*t*t + b },
	"easeOutQuart": func(t, b, c, d float64) float64 { t = t/d - 1; return -c*(t*t*t*t-1) + b },
	"easeInOutQuart": func(t, b, c, d float64) float64 {
		t /= d / 2
		if t < 1 {
			return c/2*t*t*t*t + b
		}
		t -= 2
		return -c/2*(t*t*t*t-2) + b
	},

	"easeInQuint":  func(t, b, c, d float64) float64 { t /= d; return c*t*t*t*t*t + b },
	"easeOutQuint": func(t, b, c, d float64) float64 { t = t/d - 1; return c*(t*t*t*t*t+1) + b },
	"easeInOutQuint": func(t, b, c, d float64) float64 {
		t /= d / 2
		if t < 1 {
			return c/2*t*t*t*t*t + b
		}
		t -= 2
		return c/2*(t*t*t*t*t+2) + b
	},

	"easeInSine":    func(t, b, c, d float64) float64 { return -c*math.Cos(t/d*(math.Pi/2)) + c + b },
	"easeOutSine":   func(t, b, c, d float64) float64 { return c*math.Sin(t/d*(math.Pi/2)) + b },
	"easeInOutSine": func(t, b, c, d float64) float64 { return -c/2*(math.Cos(math.Pi*t/d)-1) + b },

	"easeInExpo": func(t, b, c, d float64) float64 {
		if t == 0 {
			return b
		}
		return c*pow2(10*(t/d-1)) + b
	},
	"easeOutExpo": func(t, b, c, d float64) float64 {
		if t == d {
			return b + c
		}
		return c*(-pow2(-10*t/d)+1) + b
	},
	"easeInOutExpo": func(t, b, c, d float64) float64 {
		if t == 0 {
			return b
		}
		if t == d {
			return b + c
		}
		t /= d / 2
		if t < 1 {
			return c/2*pow2(10*(t-1)) + b
		}
		t--
		return c/2*(-pow2(-10*t)+2) + b
	},

	"easeInCirc":  func(t, b, c, d float64) float64 { t /= d; return -c*(math.Sqrt(1-t*t)-1) + b },
	"easeOutCirc": func(t, b, c, d float64) float64 { t = t/d - 1; return c*math.Sqrt(1-t*t) + b },
	"easeInOutCirc": func(t, b, c, d float64) float64 {
		t /= d / 2
		if t < 1 {
			return -c/2*(math.Sqrt(1-t*t)-1) + b
		}
		t -= 2
		return c/2*(math.Sqrt(1-t*t)+1) + b
	},

	"easeInElastic": func(t, b, c, d float64) float64 {
		if t == 0 {
			return b
		}
		t /= d
		if t == 1 {
			return b + c
		}
		p := d * 0.3
		s := p / 4
		t--
		return -(c * pow2(10*t) * math.Sin((t*d-s)*(2*math.Pi)/p)) + b
	},
	"easeOutElastic": func(t, b, c, d float64) float64 {
		if t == 0 {
			return b
		}
		t /= d
		if t == 1 {
			return b + c
		}
		p := d * 0.3
		s := p / 4
		return c*pow2(-10*t)*math.Sin((t*d-s)*(2*math.Pi)/p) + c + b
	},
	"easeInOutElastic": func(t, b, c, d float64) float64 {
		if t == 0 {
			return b
		}
		t /= d / 2
		if t == 2 {
			return b + c
		}
		p := d * (0.3 * 1.5)
		s := p / 4
		t--
		if t < 0 {
			return -0.5*(c*pow2(10*t)*math.Sin((t*d-s)*(2*math.Pi)/p)) + b
		}
		return c*pow2(-10*t)*math.Sin((t*d-s)*(2*math.Pi)/p)*0.5 + c + b
	},

	"easeInBack": func(t, b, c, d float64) float64 {
		const s = 1.70158
		t /= d
		return c*t*t*((s+1)*t-s) + b
	},
	"easeOutBack": func(t, b, c, d float64) float64 {
		const s = 1.70158
		t = t/d - 1
		return c*(t*t*((s+1)*t+s)+1) + b
	},
	"easeInOutBack": func(t, b, c, d float64) float64 {
		const s = 1.70158 * 1.525
		t /= d / 2
		if t < 1 {
			return c/2*(t*t*((s+1)*t-s)) + b
		}
		t -= 2
		return c/2*(t*t*((s+1)*t+s)+2) + b
	},

	"easeInBounce":  easeInBounce,
	"easeOutBounce": easeOutBounce,
	"easeInOutBounce": func(t, b, c, d float64) float64 {
		if t < d/2 {
			return easeInBounce(t*2, 0, c, d)*0.5 + b
		}
		return easeOutBounce(t*2-d, 0, c, d)*0.5 + c*0.5 + b
	},
}

func easeOutBounce(t, b, c, d float64) float64 {
	t /= d
	switch {
	case t < 1/2.75:
		return c*(7.5625*t*t) + b
	case t < 2/2.75:
		t -= 1.5 / 2.75
		return c*(7.5625*t*t+0.75) + b
	case t < 2.5/2.75:
		t -= 2.25 / 2.75
		return c*(7.5625*t*t+0.9375) + b
	default:
		t -= 2.625 / 2.75
		return c*(7.5625*t*t+0.984375) + b
	}
}

func easeInBounce(t, b, c, d float64) float64 {
	return c - easeOutBounce(d-t, 0, c, d) + b
}

func pow2(x float64) float64 {
	const ln2 = 0.69314718055994530942
	return float64(approx.FastExp(float32(x * ln2)))
}

// LookupEasing returns the named curve, falling back to DefaultEasing.
func LookupEasing(name string) Easing {
	if e, ok := easings[name]; ok {
		return e
	}
	return easings[DefaultEasing]
}

// HasEasing reports whether a curve is registered under name.
func HasEasing(name string) bool {
	_, ok := easings[name]
	return ok
}

// RegisterEasing adds or replaces a named curve. A nil curve is ignored.
// Not safe for use while fades are being started on other goroutines.
func RegisterEasing(name string, e Easing) {
	if e == nil {
		return
	}
	easings[name] = e
}

// EasingNames lists every registered curve in lexical order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

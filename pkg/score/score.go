package score

import (
	"fmt"
	"log/slog"
)

// Weights maps signal names to configured weight values. Values stay
// untyped until lookup so that a non-numeric entry surfaces as a
// ConfigTypeError exactly when its signal fires, never earlier.
// Weights are opaque signed numbers; the engine adds whatever is
// configured and assumes nothing about sign or magnitude.
type Weights map[string]any

// ConfigTypeError reports a configured weight that is not numeric.
type ConfigTypeError struct {
	Key   string
	Value any
}

func (e *ConfigTypeError) Error() string {
	return fmt.Sprintf("weight %q: non-numeric value %v (%T)", e.Key, e.Value, e.Value)
}

// Weight resolves the weight for a signal name. Missing keys default
// to 0 and unknown extra keys are ignored; only a present non-numeric
// value is an error.
func (w Weights) Weight(name string) (float64, error) {
	v, ok := w[name]
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, &ConfigTypeError{Key: name, Value: v}
	}
}

// SignalResult is one breakdown entry: whether the signal fired and
// what it contributed to the total.
type SignalResult struct {
	Name         string  `json:"name" yaml:"name"`
	Fired        bool    `json:"fired" yaml:"fired"`
	Contribution float64 `json:"contribution" yaml:"contribution"`
}

// Result is the outcome of one scoring call: the signed-sum total and
// the ordered per-signal breakdown. All signals are listed, fired or
// not, so consumers can explain the score without guessing.
type Result struct {
	Total   float64        `json:"total" yaml:"total"`
	Signals []SignalResult `json:"signals" yaml:"signals"`
}

// Fired reports whether the named signal fired in this result.
func (r *Result) Fired(name string) bool {
	for _, s := range r.Signals {
		if s.Name == name && s.Fired {
			return true
		}
	}
	return false
}

// Compute scores a record against the given weights. After validating
// the record it runs every evaluator in fixed order and sums the
// weights of the signals that fired. Plain signed sum: no
// normalization, no clamping, no weighting by match count. Identical
// inputs always produce identical results; the call holds no state and
// performs no I/O.
func Compute(r Record, w Weights) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	signals := Signals()
	res := &Result{Signals: make([]SignalResult, 0, len(signals))}

	for _, s := range signals {
		fired := s.Eval(r)
		var contribution float64
		if fired {
			wt, err := w.Weight(s.Name)
			if err != nil {
				return nil, err
			}
			contribution = wt
			res.Total += wt
		}
		res.Signals = append(res.Signals, SignalResult{
			Name:         s.Name,
			Fired:        fired,
			Contribution: contribution,
		})
		slog.Debug("signal evaluated", "name", s.Name, "fired", fired, "contribution", contribution)
	}

	slog.Debug("score computed", "total", res.Total)
	return res, nil
}

package worker

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Delay is an inclusive random duration range.
type Delay struct {
	Min time.Duration `json:"min" yaml:"min"`
	Max time.Duration `json:"max" yaml:"max"`
}

// Pick returns a duration in [Min, Max].
func (d Delay) Pick(r *rand.Rand) time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + time.Duration(r.Int64N(int64(d.Max-d.Min)+1))
}

// Validate checks the range is well formed; name labels the error.
func (d Delay) Validate(name string) error {
	if d.Min < 0 {
		return fmt.Errorf("%s.min must be >= 0, got %v", name, d.Min)
	}
	if d.Max < d.Min {
		return fmt.Errorf("%s.max (%v) must be >= %s.min (%v)", name, d.Max, name, d.Min)
	}
	return nil
}

func (d Delay) sleep(r *rand.Rand) {
	if wait := d.Pick(r); wait > 0 {
		time.Sleep(wait)
	}
}

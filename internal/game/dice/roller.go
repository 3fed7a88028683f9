package dice

import (
	"math"

	"go.uber.org/zap"
)

// Roller wraps a Source with the roll shapes the game rules use. Every roll
// is logged at debug level with the reason it was made.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller that draws from src and logs to logger.
//
// Precondition: src must be non-nil. A nil logger disables roll logging.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Percent rolls a d100.
//
// Postcondition: Returns a value in [1, 100].
func (r *Roller) Percent(reason string) int {
	v := r.src.Intn(100) + 1
	r.log(reason, "d100", v)
	return v
}

// Between returns a uniformly distributed value in [lo, hi].
// When hi < lo the bounds are swapped.
func (r *Roller) Between(reason string, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	v := lo + r.src.Intn(hi-lo+1)
	r.log(reason, "range", v, zap.Int("lo", lo), zap.Int("hi", hi))
	return v
}

// Pick returns a uniformly chosen index in [0, n).
//
// Precondition: n > 0.
func (r *Roller) Pick(reason string, n int) int {
	v := r.src.Intn(n)
	r.log(reason, "pick", v, zap.Int("n", n))
	return v
}

// Weighted returns an index chosen with probability proportional to weights.
// Weights are resolved to tenths so fractional weights such as 17.5 stay exact.
//
// Precondition: len(weights) > 0 and at least one weight is positive.
// Postcondition: Returns an index i with weights[i] > 0.
func (r *Roller) Weighted(reason string, weights []float64) int {
	scaled := make([]int, len(weights))
	total := 0
	for i, w := range weights {
		if w > 0 {
			scaled[i] = int(math.Round(w * 10))
		}
		total += scaled[i]
	}
	if total <= 0 {
		panic("dice: Weighted called without a positive weight")
	}
	n := r.src.Intn(total)
	idx := 0
	for i, w := range scaled {
		if n < w {
			idx = i
			break
		}
		n -= w
	}
	r.log(reason, "weighted", idx, zap.Float64s("weights", weights))
	return idx
}

// Check rolls a d100 against chance.
//
// Postcondition: ok is true iff roll <= chance.
func (r *Roller) Check(reason string, chance int) (roll int, ok bool) {
	roll = r.Percent(reason)
	return roll, roll <= chance
}

func (r *Roller) log(reason, kind string, v int, extra ...zap.Field) {
	if ce := r.logger.Check(zap.DebugLevel, "dice roll"); ce != nil {
		fields := append([]zap.Field{
			zap.String("reason", reason),
			zap.String("kind", kind),
			zap.Int("result", v),
		}, extra...)
		ce.Write(fields...)
	}
}

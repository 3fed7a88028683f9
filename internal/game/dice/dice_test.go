package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/lifesim/internal/game/dice"
)

// seqSrc returns queued values in order, repeating the last one when exhausted.
type seqSrc struct {
	vals []int
	i    int
}

func (s *seqSrc) Intn(n int) int {
	v := s.vals[len(s.vals)-1]
	if s.i < len(s.vals) {
		v = s.vals[s.i]
		s.i++
	}
	return v % n
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestRoller_Percent(t *testing.T) {
	r := dice.NewRoller(&seqSrc{vals: []int{0, 99}}, nil)
	assert.Equal(t, 1, r.Percent("low"))
	assert.Equal(t, 100, r.Percent("high"))
}

func TestRoller_Between_SwapsBounds(t *testing.T) {
	r := dice.NewRoller(&seqSrc{vals: []int{0}}, nil)
	assert.Equal(t, 3, r.Between("swap", 9, 3))
}

func TestRoller_Weighted_SkipsZeroWeights(t *testing.T) {
	// total = 10 + 0 + 30 = 40; n = 10 falls into the third bucket.
	r := dice.NewRoller(&seqSrc{vals: []int{10}}, nil)
	assert.Equal(t, 2, r.Weighted("zones", []float64{1, 0, 3}))
}

func TestRoller_Weighted_FractionalWeights(t *testing.T) {
	// weights in tenths: 150,300,100,100,175,175 → total 1000; n=999 is the last bucket.
	r := dice.NewRoller(&seqSrc{vals: []int{999}}, nil)
	assert.Equal(t, 5, r.Weighted("zones", []float64{15, 30, 10, 10, 17.5, 17.5}))
}

func TestRoller_Weighted_PanicsWithoutPositiveWeight(t *testing.T) {
	r := dice.NewRoller(&seqSrc{vals: []int{0}}, nil)
	assert.Panics(t, func() { r.Weighted("none", []float64{0, 0}) })
}

func TestRoller_Check(t *testing.T) {
	r := dice.NewRoller(&seqSrc{vals: []int{49, 50}}, nil)
	roll, ok := r.Check("hit", 50)
	assert.Equal(t, 50, roll)
	assert.True(t, ok)
	roll, ok = r.Check("hit", 50)
	assert.Equal(t, 51, roll)
	assert.False(t, ok)
}

func TestRoller_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewRoller(&seqSrc{vals: []int{4}}, zap.New(core))
	r.Percent("escape")
	entries := logs.FilterMessage("dice roll").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "escape", entries[0].ContextMap()["reason"])
		assert.Equal(t, int64(5), entries[0].ContextMap()["result"])
	}
}

func TestProperty_BetweenInRange(t *testing.T) {
	r := dice.NewRoller(dice.NewCryptoSource(), nil)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-100, 100).Draw(rt, "lo")
		hi := rapid.IntRange(lo, lo+200).Draw(rt, "hi")
		v := r.Between("prop", lo, hi)
		assert.GreaterOrEqual(rt, v, lo)
		assert.LessOrEqual(rt, v, hi)
	})
}

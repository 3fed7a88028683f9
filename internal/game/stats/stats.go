// Package stats encodes and decodes the fixed-width two-digit stat strings
// carried on every character record.
package stats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Width is the number of attributes in a stat block.
const Width = 10

// EncodedLen is the exact length of an encoded stat block.
const EncodedLen = Width * 2

// MaxValue is the largest value an attribute may hold.
const MaxValue = 99

// ErrMalformedStat is returned when a stat string has the wrong length or
// contains a non-numeric pair.
var ErrMalformedStat = errors.New("malformed stat string")

// Block is an ordered vector of attribute values.
//
// Invariant: every value is in [0, MaxValue] once produced by Decode or Encode.
type Block [Width]int

// CombatStat indexes the combat stat block.
type CombatStat int

const (
	Strength CombatStat = iota
	Endurance
	Accuracy
	Speed
	Experience
	Reflex
	Toughness
	Focus
	Stamina
	Willpower
)

var combatNames = [Width]string{
	"Strength", "Endurance", "Accuracy", "Speed", "Experience",
	"Reflex", "Toughness", "Focus", "Stamina", "Willpower",
}

// String returns the display name of the combat stat.
func (c CombatStat) String() string {
	if c < 0 || int(c) >= Width {
		return fmt.Sprintf("CombatStat(%d)", int(c))
	}
	return combatNames[c]
}

// PersonalityStat indexes the personality stat block.
type PersonalityStat int

const (
	Empathy PersonalityStat = iota
	Assertiveness
	Discipline
	Intelligence
	Charisma
	Creativity
	Social
	Luck
	Wisdom
	Patience
)

var personalityNames = [Width]string{
	"Empathy", "Assertiveness", "Discipline", "Intelligence", "Charisma",
	"Creativity", "Social", "Luck", "Wisdom", "Patience",
}

// String returns the display name of the personality stat.
func (p PersonalityStat) String() string {
	if p < 0 || int(p) >= Width {
		return fmt.Sprintf("PersonalityStat(%d)", int(p))
	}
	return personalityNames[p]
}

// Get returns the combat attribute c.
func (b Block) Get(c CombatStat) int { return b[c] }

// Trait returns the personality attribute p.
func (b Block) Trait(p PersonalityStat) int { return b[p] }

// Clamp bounds v to [0, MaxValue].
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}

// Decode parses a fixed-width stat string into a Block.
//
// Precondition: s must be exactly EncodedLen characters of decimal digit pairs.
// Postcondition: Returns the decoded Block or an error wrapping ErrMalformedStat.
func Decode(s string) (Block, error) {
	var b Block
	if len(s)%2 != 0 {
		return b, fmt.Errorf("%w: odd length %d", ErrMalformedStat, len(s))
	}
	if len(s) != EncodedLen {
		return b, fmt.Errorf("%w: length %d, want %d", ErrMalformedStat, len(s), EncodedLen)
	}
	for i := 0; i < Width; i++ {
		pair := s[i*2 : i*2+2]
		if pair[0] < '0' || pair[0] > '9' || pair[1] < '0' || pair[1] > '9' {
			return Block{}, fmt.Errorf("%w: non-numeric pair %q at slot %d", ErrMalformedStat, pair, i)
		}
		v, err := strconv.Atoi(pair)
		if err != nil {
			return Block{}, fmt.Errorf("%w: slot %d: %v", ErrMalformedStat, i, err)
		}
		b[i] = v
	}
	return b, nil
}

// Encode formats b as a fixed-width string, clamping each value first.
//
// Postcondition: len(result) == EncodedLen.
func Encode(b Block) string {
	var sb strings.Builder
	sb.Grow(EncodedLen)
	for _, v := range b {
		fmt.Fprintf(&sb, "%02d", Clamp(v))
	}
	return sb.String()
}

// Adjust adds delta to the attribute at index and re-encodes the result.
// This is the only sanctioned way to change a single attribute in an encoded string.
//
// Precondition: 0 <= index < Width.
// Postcondition: the adjusted attribute is in [0, MaxValue]; all others are unchanged.
func Adjust(s string, index, delta int) (string, error) {
	if index < 0 || index >= Width {
		return "", fmt.Errorf("stat index %d out of range [0,%d)", index, Width)
	}
	b, err := Decode(s)
	if err != nil {
		return "", err
	}
	b[index] = Clamp(b[index] + delta)
	return Encode(b), nil
}

// MustDecode decodes s and panics on error. Intended for fixtures and constants.
func MustDecode(s string) Block {
	b, err := Decode(s)
	if err != nil {
		panic("stats: MustDecode: " + err.Error())
	}
	return b
}

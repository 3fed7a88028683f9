package console

import (
	"errors"

	"github.com/cory-johannsen/lifesim/internal/game/combat"
)

// Sink returns a combat.Sink that prints events to term.
func Sink(term *Terminal) combat.Sink {
	return func(e combat.Event) {
		if line := RenderEvent(e); line != "" {
			_ = term.WriteLine(line)
		}
	}
}

func isInvalid(err error) bool {
	return errors.Is(err, combat.ErrInvalidSelection)
}

package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/combat"
	"github.com/cory-johannsen/lifesim/internal/game/medical"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
)

var actionMenu = []combat.Action{combat.ActionPunch, combat.ActionKick, combat.ActionEscape, combat.ActionSurrender}

// Controller asks the player at the terminal. It implements
// combat.Controller and aftermath.CareChooser.
type Controller struct {
	term *Terminal
}

// NewController returns a Controller reading from and writing to term.
func NewController(term *Terminal) *Controller {
	return &Controller{term: term}
}

// choice reads a menu number in [lo, hi]. Anything else is
// combat.ErrInvalidSelection so the engine asks again.
func (c *Controller) choice(ctx context.Context, prompt string, lo, hi int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	line, err := c.term.Ask(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < lo || n > hi {
		_ = c.term.WriteLine(Colorf(Red, "Choose a number from %d to %d.", lo, hi))
		return 0, fmt.Errorf("%q: %w", line, combat.ErrInvalidSelection)
	}
	return n, nil
}

// ChooseAction implements combat.Controller.
func (c *Controller) ChooseAction(ctx context.Context, v combat.View) (combat.Action, error) {
	var b strings.Builder
	b.WriteString(RenderStatus(v))
	for i, a := range actionMenu {
		b.WriteString(fmt.Sprintf("  %s%d%s) %s", BrightCyan, i+1, Reset, a))
	}
	if err := c.term.WriteLine(b.String()); err != nil {
		return 0, err
	}
	n, err := c.choice(ctx, "Action> ", 1, len(actionMenu))
	if err != nil {
		return 0, err
	}
	return actionMenu[n-1], nil
}

func zoneMenu() string {
	var b strings.Builder
	for i, z := range body.Zones {
		b.WriteString(fmt.Sprintf("  %s%d%s) %s", BrightCyan, i+1, Reset, z))
	}
	return b.String()
}

// ChooseTarget implements combat.Controller.
func (c *Controller) ChooseTarget(ctx context.Context, _ combat.View) (body.Zone, error) {
	if err := c.term.WriteLine(zoneMenu()); err != nil {
		return 0, err
	}
	n, err := c.choice(ctx, "Target> ", 1, body.ZoneCount)
	if err != nil {
		return 0, err
	}
	return body.Zones[n-1], nil
}

// ChooseBlock implements combat.Controller. 0 declines to guess.
func (c *Controller) ChooseBlock(ctx context.Context, v combat.View, hint combat.Prediction) (body.Zone, bool, error) {
	msg := Colorf(Magenta, "%s winds up. You sense the %s (%d%% sure).", v.Opponent.Name, hint.Zone, hint.Confidence)
	if err := c.term.WriteLine(msg + "\n" + zoneMenu() + fmt.Sprintf("  %s0%s) no guess", BrightCyan, Reset)); err != nil {
		return 0, false, err
	}
	n, err := c.choice(ctx, "Block> ", 0, body.ZoneCount)
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	return body.Zones[n-1], true, nil
}

// ChooseCare implements aftermath.CareChooser. Invalid input is asked again
// here since the mortality pipeline does not re-prompt.
func (c *Controller) ChooseCare(ctx context.Context, _ *character.Character, cond mortality.Condition, options []medical.Care) (medical.Care, bool, error) {
	if len(options) == 0 {
		return medical.Care{}, false, c.term.WriteLine(Colorize(Red, "No medical help is available here."))
	}
	if err := c.term.WriteLine(RenderCareOptions(cond, options)); err != nil {
		return medical.Care{}, false, err
	}
	for {
		n, err := c.choice(ctx, "Care> ", 0, len(options))
		if err == nil {
			if n == 0 {
				return medical.Care{}, false, nil
			}
			return options[n-1], true, nil
		}
		if !isInvalid(err) {
			return medical.Care{}, false, err
		}
	}
}

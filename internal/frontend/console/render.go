package console

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/lifesim/internal/game/aftermath"
	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/combat"
	"github.com/cory-johannsen/lifesim/internal/game/medical"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
)

var eventColors = map[combat.EventKind]string{
	combat.EventRoundStarted: Dim,
	combat.EventTurnSkipped:  Yellow,
	combat.EventPanicked:     BrightYellow,
	combat.EventExhausted:    Yellow,
	combat.EventPenalty:      Dim,
	combat.EventConfidence:   Cyan,
	combat.EventMiss:         White,
	combat.EventHit:          BrightRed,
	combat.EventEscaped:      BrightGreen,
	combat.EventEscapeFailed: Red,
	combat.EventStrike:       Red,
	combat.EventMercy:        Green,
	combat.EventNoMercy:      BrightRed,
	combat.EventDefeated:     Bold + BrightRed,
	combat.EventResolved:     Bold + BrightWhite,
}

// RenderEvent formats one fight event. Round markers are rendered only
// every tenth round to keep the idle rounds between turns quiet.
//
// Postcondition: Returns "" for events that should not be shown.
func RenderEvent(e combat.Event) string {
	if e.Kind == combat.EventRoundStarted && e.Round%10 != 1 {
		return ""
	}
	text := e.Narrative
	if text == "" {
		text = e.Kind.String()
	}
	if e.Kind == combat.EventHit && e.Critical {
		text = "CRITICAL! " + text
	}
	color, ok := eventColors[e.Kind]
	if !ok {
		color = White
	}
	return Colorize(color, text)
}

func healthColor(hp int) string {
	switch {
	case hp >= 70:
		return Green
	case hp >= 40:
		return Yellow
	default:
		return Red
	}
}

// RenderBody formats zone health on two lines.
func RenderBody(s body.State) string {
	var b strings.Builder
	for i, z := range body.Zones {
		if i == 3 {
			b.WriteString("\n")
		}
		hp := s.Health(z)
		b.WriteString(fmt.Sprintf("  %-10s %s", z.String(), Colorf(healthColor(hp), "%3d", hp)))
	}
	return b.String()
}

// RenderStatus formats both sides as seen from the player's seat.
func RenderStatus(v combat.View) string {
	var b strings.Builder
	for _, s := range []combat.Snapshot{v.Self, v.Opponent} {
		b.WriteString(Colorize(BrightYellow, s.Name))
		b.WriteString(fmt.Sprintf("  confidence %d (%s)  stamina %.0f/%.0f\n",
			s.Confidence, s.Tier, s.Stamina, s.MaxStamina))
		b.WriteString(RenderBody(s.Body))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderOutcome summarizes a finished fight.
func RenderOutcome(o combat.Outcome) string {
	var b strings.Builder
	b.WriteString(Colorf(Bold+BrightWhite, "Fight over after %d rounds: %s\n", o.Rounds, o.Result))
	if o.Disposition != nil {
		b.WriteString(RenderDisposition(*o.Disposition))
	}
	return b.String()
}

// RenderDisposition describes what the mortality pipeline did to a casualty.
func RenderDisposition(d aftermath.Disposition) string {
	var b strings.Builder
	switch d.Status {
	case aftermath.Unharmed:
		b.WriteString(Colorize(Green, "Battered, but stable.\n"))
	case aftermath.Recovered:
		b.WriteString(Colorize(BrightGreen, "Pulled back from the brink.\n"))
	case aftermath.NearDeath:
		b.WriteString(Colorf(BrightYellow, "Near death: %s (%s).\n", d.Condition.Cause, d.Condition.Severity))
	case aftermath.Survived:
		b.WriteString(Colorize(Yellow, "Survived against the odds.\n"))
	case aftermath.Dead:
		if d.Death != nil {
			b.WriteString(Colorize(Bold+BrightRed, d.Death.String()))
			b.WriteString("\n")
		} else {
			b.WriteString(Colorize(Bold+BrightRed, "Dead.\n"))
		}
	}
	if d.Treatment != nil {
		result := "failed"
		if d.Treatment.Success {
			result = "succeeded"
		}
		b.WriteString(fmt.Sprintf("  %s %s (rolled %d against %d%%)\n",
			d.Treatment.Care.Name, result, d.Treatment.Roll, d.Treatment.Chance))
	}
	for _, r := range d.Rolls {
		b.WriteString(fmt.Sprintf("  %s: rolled %d against %d%% death chance\n", r.Cause, r.Roll, r.Chance))
	}
	for _, h := range d.Healed {
		b.WriteString(Colorf(Green, "  %s healed to %d\n", h.Zone, h.After))
	}
	return b.String()
}

// RenderCareOptions lists care options numbered from 1, with 0 declining.
func RenderCareOptions(cond mortality.Condition, options []medical.Care) string {
	var b strings.Builder
	b.WriteString(Colorf(BrightYellow, "You are in %s condition from %s.\n", cond.Severity, cond.Cause))
	for i, c := range options {
		b.WriteString(fmt.Sprintf("  %s%d%s) %-18s %3d%%  $%d  %dh\n",
			BrightCyan, i+1, Reset, c.Name, c.Effectiveness, c.Cost, c.Hours))
	}
	b.WriteString(fmt.Sprintf("  %s0%s) Refuse treatment\n", BrightCyan, Reset))
	return b.String()
}

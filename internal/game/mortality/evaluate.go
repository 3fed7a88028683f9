package mortality

import "github.com/cory-johannsen/lifesim/internal/game/body"

// Status is the coarse result of a mortality evaluation.
type Status int

const (
	Stable Status = iota
	NearDeath
	DeathRisk
)

// String returns the persisted status name.
func (s Status) String() string {
	switch s {
	case NearDeath:
		return "near_death"
	case DeathRisk:
		return "death_risk"
	default:
		return "stable"
	}
}

// Condition is the result of Evaluate.
//
// Cause and Severity are set only for NearDeath; Causes only for DeathRisk.
type Condition struct {
	Status   Status
	Cause    Cause
	Severity Stage
	Causes   []Cause
}

// Evaluate classifies a body snapshot. The categories are checked in a fixed
// order: head, torso, overall blood loss, shock, suffocation. A near-death
// band in any category returns immediately; lethal bands accumulate into a
// single DeathRisk.
func Evaluate(s body.State) Condition {
	pct := s.HealthPercent()
	head := s.Health(body.Head)
	torso := s.Health(body.Torso)

	var causes []Cause

	if head <= 5 {
		causes = append(causes, HeadTrauma)
	} else if head <= 15 {
		return nearDeath(HeadTrauma, Critical)
	}

	if torso <= 3 {
		causes = append(causes, OrganFailure)
	} else if torso <= 12 {
		return nearDeath(OrganFailure, Grave)
	}

	if pct <= 15 {
		causes = append(causes, BloodLoss)
	} else if pct <= 25 {
		return nearDeath(BloodLoss, Grave)
	}

	injured := s.CountBelow(50)
	if injured >= 4 && pct <= 40 {
		causes = append(causes, Shock)
	} else if injured >= 3 && pct <= 35 {
		return nearDeath(Shock, Serious)
	}

	if head <= 20 && torso <= 30 {
		causes = append(causes, Suffocation)
	}

	if len(causes) > 0 {
		return Condition{Status: DeathRisk, Causes: causes}
	}
	if pct <= 30 {
		return nearDeath(BloodLoss, Steady)
	}
	return Condition{Status: Stable}
}

func nearDeath(c Cause, sev Stage) Condition {
	return Condition{Status: NearDeath, Cause: c, Severity: sev}
}

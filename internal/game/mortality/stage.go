package mortality

// Stage is a near-death severity. Lower is worse.
type Stage int

const (
	Critical Stage = iota
	Grave
	Serious
	Steady
	Recovering
)

var stageNames = [...]struct{ name, desc string }{
	Critical:   {"Critical", "Unconscious, barely breathing"},
	Grave:      {"Grave", "In and out of consciousness"},
	Serious:    {"Serious", "Weak but conscious"},
	Steady:     {"Stable", "Conscious but hurt"},
	Recovering: {"Recovering", "Walking wounded"},
}

// Valid reports whether s is one of the five stages.
func (s Stage) Valid() bool { return s >= Critical && s <= Recovering }

// String returns the stage name.
func (s Stage) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return stageNames[s].name
}

// Description returns a one-line description of the stage.
func (s Stage) Description() string {
	if !s.Valid() {
		return ""
	}
	return stageNames[s].desc
}

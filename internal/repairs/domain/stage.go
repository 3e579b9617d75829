package domain

// Stage is the lifecycle position of a repair request. The values are stored
// verbatim in the order metadata bag.
type Stage string

const (
	StagePendingAssignment Stage = "pending_assignment"
	StageAssigned          Stage = "assigned"
	StageInProgress        Stage = "in_progress"
	StageCompleted         Stage = "completed"
)

// stageOrder is the authoritative forward order of the lifecycle.
var stageOrder = []Stage{
	StagePendingAssignment,
	StageAssigned,
	StageInProgress,
	StageCompleted,
}

// Stages returns the lifecycle in forward order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// ParseStage reports whether raw names a known stage.
func ParseStage(raw string) (Stage, bool) {
	for _, s := range stageOrder {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// CoerceStage maps unknown or missing values to the initial stage.
func CoerceStage(raw string) Stage {
	if s, ok := ParseStage(raw); ok {
		return s
	}
	return StagePendingAssignment
}

// Rank is the zero-based position of s in the lifecycle, or -1 when unknown.
func (s Stage) Rank() int {
	for i, known := range stageOrder {
		if known == s {
			return i
		}
	}
	return -1
}

// CanAdvanceTo reports whether moving from s to target is a forward step.
// Staying put or moving backwards is not an advance.
func (s Stage) CanAdvanceTo(target Stage) bool {
	to := target.Rank()
	return to >= 0 && to > CoerceStage(string(s)).Rank()
}

// IsTerminal reports whether no further advance is possible.
func (s Stage) IsTerminal() bool {
	return s == StageCompleted
}

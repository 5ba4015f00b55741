package admission

// Level is the capacity band a booking was admitted into.
type Level string

const (
	LevelNormal       Level = "normal"
	LevelNearCapacity Level = "near_capacity"
	LevelOverbooked   Level = "overbooked"
)

func (l Level) String() string { return string(l) }

func (l Level) IsValid() bool {
	switch l {
	case LevelNormal, LevelNearCapacity, LevelOverbooked:
		return true
	}
	return false
}

// Outcome of an admission request.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	// OutcomeWaitlisted is part of the contract but Evaluate never returns it:
	// requests past the absolute cap are rejected.
	OutcomeWaitlisted Outcome = "waitlisted"
	OutcomeRejected   Outcome = "rejected"
)

// Reason labels a rejected admission for callers and metrics.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonSlotClosed Reason = "slot_closed"
	ReasonSlotFull   Reason = "slot_full"
)

// ProjectedLevel extends Level with the states only a read projection shows.
type ProjectedLevel string

const (
	ProjectedNormal       ProjectedLevel = "normal"
	ProjectedNearCapacity ProjectedLevel = "near_capacity"
	ProjectedOverbooked   ProjectedLevel = "overbooked"
	ProjectedFull         ProjectedLevel = "full"
	ProjectedClosed       ProjectedLevel = "closed"
)

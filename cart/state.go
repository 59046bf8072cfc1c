package cart

import "storefront/models"

// LineState is the sync status of one cart line.
type LineState int

const (
	Stable LineState = iota
	// Pending lines show an optimistic quantity the server has not confirmed.
	Pending
	Reconciled
	Reverted
)

func (s LineState) String() string {
	switch s {
	case Stable:
		return "stable"
	case Pending:
		return "pending"
	case Reconciled:
		return "reconciled"
	case Reverted:
		return "reverted"
	}
	return "unknown"
}

var transitions = map[LineState][]LineState{
	Stable:     {Pending},
	Pending:    {Reconciled, Reverted},
	Reconciled: {Stable},
	Reverted:   {Stable},
}

func canTransition(from, to LineState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// tracker holds non-stable line states. Absent keys are Stable.
type tracker map[models.LineKey]LineState

func (t tracker) get(key models.LineKey) LineState {
	return t[key]
}

// move applies an allowed transition and reports whether it happened.
func (t tracker) move(key models.LineKey, to LineState) bool {
	if !canTransition(t[key], to) {
		return false
	}
	if to == Stable {
		delete(t, key)
		return true
	}
	t[key] = to
	return true
}

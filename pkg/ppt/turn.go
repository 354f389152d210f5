// Package ppt implements the Plain-Preference-Tree (PPT) notation: a
// line-oriented plain-text format for hand-written dialogues where some turns
// carry alternative "chosen" and "rejected" continuations.
package ppt

// Role is the speaker of a Turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// RoleAt returns the role of the turn at position i. Roles alternate strictly
// starting with the user, so the role is a function of position only.
func RoleAt(i int) Role {
	if i%2 == 0 {
		return RoleUser
	}
	return RoleAssistant
}

// Turn is one speaker's utterance plus its annotated alternatives.
type Turn struct {
	Role Role   `json:"role"`
	Main string `json:"main"`

	// Chosens are alternatives marked as preferred.
	Chosens []string `json:"chosens"`

	// Rejecteds are alternatives marked as dispreferred.
	Rejecteds []string `json:"rejecteds"`

	// Drafts and Unrated are only produced by the continuation grammar
	// ("*" and "?" subnodes). The blank-line grammar has no syntax for them.
	Drafts  []string `json:"drafts,omitempty"`
	Unrated []string `json:"unrated,omitempty"`
}

// Equal reports whether t and other are structurally equal. Nil and empty
// alternative lists compare equal.
func (t Turn) Equal(other Turn) bool {
	return t.Role == other.Role &&
		t.Main == other.Main &&
		equalStrings(t.Chosens, other.Chosens) &&
		equalStrings(t.Rejecteds, other.Rejecteds) &&
		equalStrings(t.Drafts, other.Drafts) &&
		equalStrings(t.Unrated, other.Unrated)
}

// PT (Preference Tree) is an ordered dialogue with branch annotations.
type PT []Turn

// Roles returns the role of every turn in order.
func (pt PT) Roles() []Role {
	roles := make([]Role, len(pt))
	for i, turn := range pt {
		roles[i] = turn.Role
	}
	return roles
}

// Equal reports whether pt and other hold structurally equal turns.
func (pt PT) Equal(other PT) bool {
	if len(pt) != len(other) {
		return false
	}
	for i := range pt {
		if !pt[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Annotated returns the indexes of turns that carry rejected content, in
// increasing order.
func (pt PT) Annotated() []int {
	var idx []int
	for i, turn := range pt {
		if len(turn.Rejecteds) > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package roster

// EditState is the name-entry state of one member row.
type EditState int

const (
	// Idle shows a confirmed name (or no name with the picker closed).
	Idle EditState = iota
	// Adding shows the free-text input, used both for brand-new names and
	// in-place renames. No name is committed while in this state.
	Adding
)

// Editor tracks which member rows are in the Adding state and the name each
// row had before editing began. The prior name distinguishes a rename (the
// registry entry moves) from a fresh add (a new registry entry), and lets a
// cancelled rename revert.
type Editor struct {
	drafts map[string]string // member ID -> name before editing began
}

// NewEditor returns an editor with every row in the Idle state.
func NewEditor() *Editor {
	return &Editor{drafts: make(map[string]string)}
}

// Begin moves a member row into the Adding state, remembering the name it
// currently has. Beginning an already-editing row keeps the original prior
// name.
func (e *Editor) Begin(memberID, currentName string) {
	if _, ok := e.drafts[memberID]; ok {
		return
	}
	e.drafts[memberID] = currentName
}

// State reports the edit state of a member row.
func (e *Editor) State(memberID string) EditState {
	if _, ok := e.drafts[memberID]; ok {
		return Adding
	}
	return Idle
}

// Prior returns the name the row had when editing began. The second return
// is false when the row is not in the Adding state.
func (e *Editor) Prior(memberID string) (string, bool) {
	prior, ok := e.drafts[memberID]
	return prior, ok
}

// End moves a member row back to Idle. Called after a successful commit or
// a cancel; a failed commit leaves the row in Adding.
func (e *Editor) End(memberID string) {
	delete(e.drafts, memberID)
}

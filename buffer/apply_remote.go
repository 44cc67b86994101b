package buffer

// RemoteEdit is one edit received from another site. OpID is the engine's
// identifier for the operation, if it has one.
type RemoteEdit struct {
	Range Range
	Text  string
	OpID  string
}

type ApplyRemoteResult struct {
	Change Change
	// AppliedOpIDs lists the ids of edits that changed the text, in order.
	AppliedOpIDs []string
}

// ApplyRemote applies edits received from another site in order. Each edit
// is in the coordinates of the text left by the previous one.
//
// Remote edits are not recorded in history. Local undo and redo steps are
// transformed through them so that Undo keeps reverting only local edits.
func (b *Buffer) ApplyRemote(edits []RemoteEdit) (ApplyRemoteResult, bool) {
	if len(edits) == 0 {
		return ApplyRemoteResult{}, false
	}

	change := b.beginChange(ChangeSourceRemote, ChangeKindRemote)
	var opIDs []string
	for _, e := range edits {
		applied, changed := b.replaceRange(e.Range, e.Text)
		if !changed {
			continue
		}
		change.addAppliedEdit(applied)
		b.rebaseHistory(applied)
		if e.OpID != "" {
			opIDs = append(opIDs, e.OpID)
		}
	}

	out, ok := b.commitChange(change)
	if !ok {
		return ApplyRemoteResult{}, false
	}
	return ApplyRemoteResult{Change: out, AppliedOpIDs: opIDs}, true
}

package buffer

// ChangeSource identifies where a change originated.
type ChangeSource uint8

const (
	ChangeSourceLocal ChangeSource = iota
	ChangeSourceRemote
)

func (s ChangeSource) String() string {
	switch s {
	case ChangeSourceLocal:
		return "local"
	case ChangeSourceRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// ChangeKind tells observers which operation produced a change.
type ChangeKind uint8

const (
	ChangeKindEdit ChangeKind = iota
	ChangeKindUndo
	ChangeKindRedo
	ChangeKindReload
	ChangeKindRemote
)

// AppliedEdit describes one effective edit in a change transaction.
//
// RangeBefore is expressed in the document as it was right before this edit,
// RangeAfter in the document right after it.
type AppliedEdit struct {
	RangeBefore Range
	RangeAfter  Range
	InsertText  string
	DeletedText string
}

// Change is a normalized, versioned mutation payload.
type Change struct {
	Source        ChangeSource
	Kind          ChangeKind
	VersionBefore uint64
	VersionAfter  uint64
	AppliedEdits  []AppliedEdit
}

type changeBuilder struct {
	source        ChangeSource
	kind          ChangeKind
	versionBefore uint64
	appliedEdits  []AppliedEdit
}

// LastChange returns the most recent effective change.
func (b *Buffer) LastChange() (Change, bool) {
	if !b.hasLastChange {
		return Change{}, false
	}
	return cloneChange(b.lastChange), true
}

func cloneChange(in Change) Change {
	out := in
	out.AppliedEdits = append([]AppliedEdit(nil), in.AppliedEdits...)
	return out
}

func (b *Buffer) beginChange(source ChangeSource, kind ChangeKind) changeBuilder {
	return changeBuilder{
		source:        source,
		kind:          kind,
		versionBefore: b.version,
	}
}

func (cb *changeBuilder) addAppliedEdit(edit AppliedEdit) {
	edit.RangeBefore = NormalizeRange(edit.RangeBefore)
	edit.RangeAfter = NormalizeRange(edit.RangeAfter)
	cb.appliedEdits = append(cb.appliedEdits, edit)
}

// commitChange records the change and notifies observers. It reports false
// when nothing was applied.
func (b *Buffer) commitChange(cb changeBuilder) (Change, bool) {
	if len(cb.appliedEdits) == 0 {
		return Change{}, false
	}
	b.version++
	b.lastChange = Change{
		Source:        cb.source,
		Kind:          cb.kind,
		VersionBefore: cb.versionBefore,
		VersionAfter:  b.version,
		AppliedEdits:  append([]AppliedEdit(nil), cb.appliedEdits...),
	}
	b.hasLastChange = true
	out := cloneChange(b.lastChange)
	b.syncChanges.Emit(cloneChange(out))
	b.changes.Emit(cloneChange(out))
	return out, true
}

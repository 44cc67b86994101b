package buffer

import "github.com/iw2rmb/tandem/internal/grapheme"

// Apply applies a sequence of local text edits in order. Each edit's range is
// interpreted against the buffer state at the time that edit is applied.
//
// Semantics:
// - Edit ranges are clamped into current document bounds.
// - Empty range + non-empty text inserts.
// - All effective edits form one undo step and one Change.
func (b *Buffer) Apply(edits ...TextEdit) (Change, bool) {
	return b.applyLocal(ChangeKindEdit, edits)
}

// Reload replaces the whole content with text as a single local edit that
// covers only the differing span. It is recorded in history like any edit.
func (b *Buffer) Reload(text string) (Change, bool) {
	cur := flatten(b.lines)
	next := flatten(splitLines(text))
	prefix, suffix := grapheme.CommonAffixes(cur, next)
	if prefix == len(cur) && prefix == len(next) {
		return Change{}, false
	}

	r := Range{
		Start: posAtIndex(cur, prefix),
		End:   posAtIndex(cur, len(cur)-suffix),
	}
	inserted := grapheme.Join(next[prefix : len(next)-suffix])
	return b.applyLocal(ChangeKindReload, []TextEdit{{Range: r, Text: inserted}})
}

func (b *Buffer) applyLocal(kind ChangeKind, edits []TextEdit) (Change, bool) {
	if len(edits) == 0 {
		return Change{}, false
	}

	change := b.beginChange(ChangeSourceLocal, kind)
	for _, e := range edits {
		applied, changed := b.replaceRange(e.Range, e.Text)
		if !changed {
			continue
		}
		change.addAppliedEdit(applied)
	}

	if len(change.appliedEdits) == 0 {
		return Change{}, false
	}
	b.recordUndo(change.appliedEdits)
	return b.commitChange(change)
}

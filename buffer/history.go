package buffer

// historyEdit is one step of reverting a history entry: replace Range with
// Text. Steps are applied in order.
type historyEdit struct {
	Range Range
	Text  string
}

type historyEntry struct {
	edits []historyEdit
}

// historyState keeps only edits made through this buffer's local API. Remote
// edits are never recorded; instead every stored entry is transformed
// through them so that undo reverts this site's edits in the current text.
type historyState struct {
	undo []historyEntry
	redo []historyEntry
}

// invertEdits builds the entry that reverts applied, which must be in
// application order.
func invertEdits(applied []AppliedEdit) historyEntry {
	out := make([]historyEdit, 0, len(applied))
	for i := len(applied) - 1; i >= 0; i-- {
		e := applied[i]
		out = append(out, historyEdit{Range: e.RangeAfter, Text: e.DeletedText})
	}
	return historyEntry{edits: out}
}

func (b *Buffer) recordUndo(applied []AppliedEdit) {
	limit := b.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	b.hist.undo = pushEntry(b.hist.undo, invertEdits(applied), limit)
	b.hist.redo = nil
}

func pushEntry(stack []historyEntry, e historyEntry, limit int) []historyEntry {
	stack = append(stack, e)
	if len(stack) > limit {
		stack = append([]historyEntry(nil), stack[len(stack)-limit:]...)
	}
	return stack
}

func (b *Buffer) CanUndo() bool { return len(b.hist.undo) > 0 }

func (b *Buffer) CanRedo() bool { return len(b.hist.redo) > 0 }

// UndoDepth returns the number of undoable steps.
func (b *Buffer) UndoDepth() int { return len(b.hist.undo) }

// RedoDepth returns the number of redoable steps.
func (b *Buffer) RedoDepth() int { return len(b.hist.redo) }

// ClearHistory drops both undo and redo stacks.
func (b *Buffer) ClearHistory() {
	b.hist = historyState{}
}

// Undo reverts the most recent local step that is still undoable.
func (b *Buffer) Undo() bool {
	if len(b.hist.undo) == 0 {
		return false
	}

	i := len(b.hist.undo) - 1
	entry := b.hist.undo[i]
	b.hist.undo = b.hist.undo[:i]

	change, applied := b.revert(entry, ChangeKindUndo)
	if len(applied) > 0 && b.opt.HistoryLimit > 0 {
		b.hist.redo = pushEntry(b.hist.redo, invertEdits(applied), b.opt.HistoryLimit)
	}
	b.commitChange(change)
	return true
}

// Redo re-applies the most recently undone step.
func (b *Buffer) Redo() bool {
	if len(b.hist.redo) == 0 {
		return false
	}

	i := len(b.hist.redo) - 1
	entry := b.hist.redo[i]
	b.hist.redo = b.hist.redo[:i]

	change, applied := b.revert(entry, ChangeKindRedo)
	if len(applied) > 0 && b.opt.HistoryLimit > 0 {
		b.hist.undo = pushEntry(b.hist.undo, invertEdits(applied), b.opt.HistoryLimit)
	}
	b.commitChange(change)
	return true
}

func (b *Buffer) revert(entry historyEntry, kind ChangeKind) (changeBuilder, []AppliedEdit) {
	change := b.beginChange(ChangeSourceLocal, kind)
	for _, e := range entry.edits {
		applied, changed := b.replaceRange(e.Range, e.Text)
		if !changed {
			continue
		}
		change.addAppliedEdit(applied)
	}
	return change, change.appliedEdits
}

// rebaseHistory transforms both stacks through a remote edit so that their
// ranges stay valid in the new text.
func (b *Buffer) rebaseHistory(remote AppliedEdit) {
	r := historyEdit{Range: remote.RangeBefore, Text: remote.InsertText}
	b.hist.undo = rebaseStack(b.hist.undo, r)
	b.hist.redo = rebaseStack(b.hist.redo, r)
}

// rebaseStack walks the stack from the top. The top entry applies to the
// current text; each older entry applies to the text left after reverting the
// entries above it, so the remote edit is carried down through each entry.
func rebaseStack(stack []historyEntry, r historyEdit) []historyEntry {
	for i := len(stack) - 1; i >= 0; i-- {
		stack[i], r = transformEntry(stack[i], r)
	}
	return stack
}

func transformEntry(entry historyEntry, r historyEdit) (historyEntry, historyEdit) {
	out := make([]historyEdit, 0, len(entry.edits))
	for _, e := range entry.edits {
		var next historyEdit
		next, r = transformEdit(e, r)
		out = append(out, next)
	}
	return historyEntry{edits: out}, r
}

// transformEdit takes two edits valid on the same text and returns h valid
// after r, and r valid after h. Two inserts at the same point order r first.
//
// When the ranges overlap, the remote text is kept: h only removes what is
// left of its own range and puts its text next to the remote text, before it
// when h starts first.
func transformEdit(h, r historyEdit) (historyEdit, historyEdit) {
	hr := NormalizeRange(h.Range)
	rr := NormalizeRange(r.Range)
	bothEmpty := hr.IsEmpty() && rr.IsEmpty()

	switch {
	case ComparePos(hr.End, rr.Start) < 0 || (hr.End == rr.Start && !bothEmpty):
		return h, historyEdit{
			Range: Range{Start: shiftPos(rr.Start, hr, h.Text), End: shiftPos(rr.End, hr, h.Text)},
			Text:  r.Text,
		}
	case ComparePos(rr.End, hr.Start) <= 0:
		return historyEdit{
			Range: Range{Start: shiftPos(hr.Start, rr, r.Text), End: shiftPos(hr.End, rr, r.Text)},
			Text:  h.Text,
		}, r
	}

	// Overlap: both results are expressed over the union of the two ranges.
	start, end := hr.Start, hr.End
	if ComparePos(rr.Start, start) < 0 {
		start = rr.Start
	}
	if ComparePos(rr.End, end) > 0 {
		end = rr.End
	}
	endAfterR := shiftPos(end, rr, r.Text)

	var next historyEdit
	merged := h.Text + r.Text
	switch {
	case ComparePos(rr.Start, hr.Start) <= 0:
		// Nothing of h's range precedes the remote text.
		merged = r.Text + h.Text
		next = historyEdit{Range: Range{Start: EndOfText(rr.Start, r.Text), End: endAfterR}, Text: h.Text}
	case ComparePos(hr.End, rr.End) <= 0:
		// Nothing of h's range follows the remote text.
		next = historyEdit{Range: Range{Start: hr.Start, End: rr.Start}, Text: h.Text}
	default:
		next = historyEdit{Range: Range{Start: hr.Start, End: endAfterR}, Text: merged}
	}
	return next, historyEdit{Range: Range{Start: start, End: shiftPos(end, hr, h.Text)}, Text: merged}
}

// shiftPos maps p, which must not precede r.End, through replacing r with text.
func shiftPos(p Pos, r Range, text string) Pos {
	after := EndOfText(r.Start, text)
	if p.Row == r.End.Row {
		return Pos{Row: after.Row, GraphemeCol: after.GraphemeCol + p.GraphemeCol - r.End.GraphemeCol}
	}
	return Pos{Row: p.Row + after.Row - r.End.Row, GraphemeCol: p.GraphemeCol}
}

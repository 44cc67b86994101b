package buffer

// RemapStatus tells how a position was affected by an edit.
type RemapStatus uint8

const (
	RemapUnchanged RemapStatus = iota
	RemapMoved
	RemapClamped     // the position was inside replaced text
	RemapInvalidated // the range the position belonged to collapsed
)

func (s RemapStatus) String() string {
	switch s {
	case RemapUnchanged:
		return "unchanged"
	case RemapMoved:
		return "moved"
	case RemapClamped:
		return "clamped"
	case RemapInvalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

// RemapPoint reports a position before and after remapping.
type RemapPoint struct {
	Before Pos
	After  Pos
	Status RemapStatus
}

// RemapPos maps p through one applied edit.
//
// Positions before the edit stay. A position at an insertion point moves past
// the inserted text. Positions inside the replaced text clamp to the end of
// the new text. Positions after the edit shift.
func RemapPos(p Pos, e AppliedEdit) RemapPoint {
	r := NormalizeRange(e.RangeBefore)
	out := RemapPoint{Before: p, After: p, Status: RemapUnchanged}

	switch {
	case ComparePos(p, r.Start) < 0:
		return out
	case p == r.Start && !r.IsEmpty():
		return out
	case ComparePos(p, r.End) < 0:
		out.After = EndOfText(r.Start, e.InsertText)
		out.Status = RemapClamped
		return out
	}

	out.After = shiftPos(p, r, e.InsertText)
	if out.After != p {
		out.Status = RemapMoved
	}
	return out
}

// RemapPosThrough maps p through edits in order. The reported status is the
// strongest one seen.
func RemapPosThrough(p Pos, edits []AppliedEdit) RemapPoint {
	out := RemapPoint{Before: p, After: p, Status: RemapUnchanged}
	for _, e := range edits {
		step := RemapPos(out.After, e)
		out.After = step.After
		if step.Status > out.Status {
			out.Status = step.Status
		}
	}
	if out.Status == RemapMoved && out.After == p {
		out.Status = RemapUnchanged
	}
	return out
}

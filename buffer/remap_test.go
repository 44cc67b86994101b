package buffer

import "testing"

func TestRemapPos_StatusMatrix(t *testing.T) {
	tests := []struct {
		name       string
		p          Pos
		edit       AppliedEdit
		wantAfter  Pos
		wantStatus RemapStatus
	}{
		{
			name:       "unchanged-when-edit-after",
			p:          pos(0, 1),
			edit:       AppliedEdit{RangeBefore: Range{Start: pos(0, 4), End: pos(0, 6)}},
			wantAfter:  pos(0, 1),
			wantStatus: RemapUnchanged,
		},
		{
			name:       "moved-when-edit-before",
			p:          pos(0, 3),
			edit:       AppliedEdit{RangeBefore: Range{Start: pos(0, 1), End: pos(0, 1)}, InsertText: "ZZ"},
			wantAfter:  pos(0, 5),
			wantStatus: RemapMoved,
		},
		{
			name:       "moved-past-insert-at-point",
			p:          pos(0, 2),
			edit:       AppliedEdit{RangeBefore: Range{Start: pos(0, 2), End: pos(0, 2)}, InsertText: "Q"},
			wantAfter:  pos(0, 3),
			wantStatus: RemapMoved,
		},
		{
			name:       "unchanged-at-start-of-replaced-range",
			p:          pos(0, 2),
			edit:       AppliedEdit{RangeBefore: Range{Start: pos(0, 2), End: pos(0, 4)}, InsertText: "Q"},
			wantAfter:  pos(0, 2),
			wantStatus: RemapUnchanged,
		},
		{
			name:       "clamped-when-edit-covers-point",
			p:          pos(0, 3),
			edit:       AppliedEdit{RangeBefore: Range{Start: pos(0, 2), End: pos(0, 5)}},
			wantAfter:  pos(0, 2),
			wantStatus: RemapClamped,
		},
		{
			name:       "moved-rows-after-multiline-insert",
			p:          pos(3, 2),
			edit:       AppliedEdit{RangeBefore: Range{Start: pos(1, 0), End: pos(1, 0)}, InsertText: "a\nb\n"},
			wantAfter:  pos(5, 2),
			wantStatus: RemapMoved,
		},
		{
			name:       "joined-line",
			p:          pos(1, 2),
			edit:       AppliedEdit{RangeBefore: Range{Start: pos(0, 3), End: pos(1, 0)}},
			wantAfter:  pos(0, 5),
			wantStatus: RemapMoved,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RemapPos(tc.p, tc.edit)
			if got.Before != tc.p {
				t.Fatalf("before=%v, want %v", got.Before, tc.p)
			}
			if got.After != tc.wantAfter {
				t.Fatalf("after=%v, want %v", got.After, tc.wantAfter)
			}
			if got.Status != tc.wantStatus {
				t.Fatalf("status=%v, want %v", got.Status, tc.wantStatus)
			}
		})
	}
}

func TestRemapPosThrough_OrderedEdits(t *testing.T) {
	edits := []AppliedEdit{
		{RangeBefore: Range{Start: pos(0, 1), End: pos(0, 4)}, InsertText: "X"},
		{RangeBefore: Range{Start: pos(0, 1), End: pos(0, 3)}, InsertText: "YZ"},
	}

	got := RemapPosThrough(pos(0, 4), edits)
	if got.After != pos(0, 3) {
		t.Fatalf("after=%v, want (0,3)", got.After)
	}
	if got.Status != RemapClamped {
		t.Fatalf("status=%v, want %v", got.Status, RemapClamped)
	}
}

func TestRemapPosThrough_RoundTripIsUnchanged(t *testing.T) {
	edits := []AppliedEdit{
		{RangeBefore: Range{Start: pos(0, 0), End: pos(0, 0)}, InsertText: "ab"},
		{RangeBefore: Range{Start: pos(0, 0), End: pos(0, 2)}},
	}
	got := RemapPosThrough(pos(0, 3), edits)
	if got.After != pos(0, 3) || got.Status != RemapUnchanged {
		t.Fatalf("remap=%#v, want unchanged (0,3)", got)
	}
}

func TestRemapStatus_String(t *testing.T) {
	statuses := map[RemapStatus]string{
		RemapUnchanged:   "unchanged",
		RemapMoved:       "moved",
		RemapClamped:     "clamped",
		RemapInvalidated: "invalidated",
	}
	for status, want := range statuses {
		if got := status.String(); got != want {
			t.Fatalf("String()=%q, want %q", got, want)
		}
	}
}

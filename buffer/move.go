package buffer

import "github.com/iw2rmb/tandem/internal/grapheme"

type MoveUnit int

const (
	MoveGrapheme MoveUnit = iota
	MoveWord
	MoveLine
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
	DirUp
	DirDown
	DirHome
	DirEnd
)

// Move describes a caret motion. Home and End mean line start and end, or
// document start and end for MoveDoc.
type Move struct {
	Unit MoveUnit
	Dir  MoveDir
	// Extend asks the view to grow its selection instead of clearing it.
	Extend bool
}

// MovePos returns where a caret at p lands after m. Selection handling
// belongs to the view that owns the caret.
func (b *Buffer) MovePos(p Pos, m Move) Pos {
	p = b.clampPos(p)

	switch {
	case m.Unit == MoveDoc:
		switch m.Dir {
		case DirHome, DirUp:
			return Pos{}
		case DirEnd, DirDown:
			return b.EndPos()
		}
	case m.Dir == DirHome:
		return Pos{Row: p.Row}
	case m.Dir == DirEnd:
		return Pos{Row: p.Row, GraphemeCol: b.lineLen(p.Row)}
	case m.Dir == DirUp && m.Unit != MoveWord:
		return b.vertical(p, -1)
	case m.Dir == DirDown && m.Unit != MoveWord:
		return b.vertical(p, 1)
	case m.Unit == MoveGrapheme:
		return b.stepGrapheme(p, m.Dir)
	case m.Unit == MoveWord:
		line := b.lines[p.Row]
		switch m.Dir {
		case DirLeft:
			return Pos{Row: p.Row, GraphemeCol: wordStartBefore(line, p.GraphemeCol)}
		case DirRight:
			return Pos{Row: p.Row, GraphemeCol: wordEndAfter(line, p.GraphemeCol)}
		}
	}
	return p
}

// vertical moves delta rows, keeping the column when the target line is
// long enough.
func (b *Buffer) vertical(p Pos, delta int) Pos {
	row := p.Row + delta
	if row < 0 || row >= len(b.lines) {
		return p
	}
	col := p.GraphemeCol
	if n := b.lineLen(row); col > n {
		col = n
	}
	return Pos{Row: row, GraphemeCol: col}
}

// stepGrapheme moves one grapheme, wrapping across line breaks.
func (b *Buffer) stepGrapheme(p Pos, dir MoveDir) Pos {
	switch dir {
	case DirLeft:
		switch {
		case p.GraphemeCol > 0:
			return Pos{Row: p.Row, GraphemeCol: p.GraphemeCol - 1}
		case p.Row > 0:
			return Pos{Row: p.Row - 1, GraphemeCol: b.lineLen(p.Row - 1)}
		}
	case DirRight:
		switch {
		case p.GraphemeCol < b.lineLen(p.Row):
			return Pos{Row: p.Row, GraphemeCol: p.GraphemeCol + 1}
		case p.Row < len(b.lines)-1:
			return Pos{Row: p.Row + 1}
		}
	}
	return p
}

// Words are runs of non-space graphemes. Word motion stops at line
// boundaries.
func wordStartBefore(line []string, col int) int {
	i := min(max(col, 0), len(line))
	for i > 0 && grapheme.IsSpace(line[i-1]) {
		i--
	}
	for i > 0 && !grapheme.IsSpace(line[i-1]) {
		i--
	}
	return i
}

func wordEndAfter(line []string, col int) int {
	i := min(max(col, 0), len(line))
	for i < len(line) && grapheme.IsSpace(line[i]) {
		i++
	}
	for i < len(line) && !grapheme.IsSpace(line[i]) {
		i++
	}
	return i
}

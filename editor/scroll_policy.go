package editor

import "fmt"

// ScrollPolicy decides whether the viewport may scroll away from the cursor.
type ScrollPolicy int

const (
	// ScrollAllowManual lets the mouse wheel scroll without moving the cursor.
	ScrollAllowManual ScrollPolicy = iota
	// ScrollFollowCursorOnly ignores the wheel; only cursor motion scrolls.
	ScrollFollowCursorOnly
)

var scrollPolicyNames = map[string]ScrollPolicy{
	"":              ScrollAllowManual,
	"allow-manual":  ScrollAllowManual,
	"follow-cursor": ScrollFollowCursorOnly,
}

// ParseScrollPolicy maps the editor.scrollPolicy config value to a
// ScrollPolicy.
func ParseScrollPolicy(s string) (ScrollPolicy, error) {
	p, ok := scrollPolicyNames[s]
	if !ok {
		return ScrollAllowManual, fmt.Errorf("unknown scroll policy %q", s)
	}
	return p, nil
}

package binding

// syncState is the echo guard of a binding. A binding either forwards local
// changes or applies remote ones, never both at once.
type syncState uint8

const (
	stateIdle syncState = iota
	stateApplyingRemote
	stateForwardingLocal
)

func (s syncState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateApplyingRemote:
		return "applying-remote"
	case stateForwardingLocal:
		return "forwarding-local"
	default:
		return "unknown"
	}
}

type guard struct {
	state syncState
}

// enter moves from idle to s. It refuses every other transition.
func (g *guard) enter(s syncState) bool {
	if g.state != stateIdle || s == stateIdle {
		return false
	}
	g.state = s
	return true
}

func (g *guard) exit() { g.state = stateIdle }

func (g *guard) is(s syncState) bool { return g.state == s }

package job

// State is a build job's position in its lifecycle. Transitions fire strictly
// in order; any component failure short-circuits to StateFailed.
type State string

const (
	StateIdle        State = "idle"
	StateStaging     State = "staging"
	StateDiscovering State = "discovering"
	StateCompiling   State = "compiling"
	StateResolving   State = "resolving"
	StateSucceeded   State = "succeeded"
	StateFailed      State = "failed"
)

// IsTerminal returns true if the state represents a final outcome.
func (s State) IsTerminal() bool { return s == StateSucceeded || s == StateFailed }

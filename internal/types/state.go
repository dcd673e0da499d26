package types

// Enum values for the supervisor state machine
type SupervisorState string

const (
	StateStopped  SupervisorState = "STOPPED"
	StateStarting SupervisorState = "STARTING"
	StateRunning  SupervisorState = "RUNNING"
	StateRetrying SupervisorState = "RETRYING"
	StateStopping SupervisorState = "STOPPING"
	StateFailed   SupervisorState = "FAILED"
)

// AllSupervisorStates lists every state, for gauges that carry one
// series per state.
func AllSupervisorStates() []string {
	return []string{
		StateStopped.String(),
		StateStarting.String(),
		StateRunning.String(),
		StateRetrying.String(),
		StateStopping.String(),
		StateFailed.String(),
	}
}

func (s SupervisorState) String() string {
	return string(s)
}

// IsTerminal reports whether the supervisor worker has exited for good.
// FAILED is only left through an explicit restart.
func (s SupervisorState) IsTerminal() bool {
	return s == StateFailed
}

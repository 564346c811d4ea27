package workflow

// Trigger is a caller-driven event that moves a station between states
type Trigger string

const (
	TriggerStart    Trigger = "START"
	TriggerComplete Trigger = "COMPLETE"
	TriggerSkip     Trigger = "SKIP"
	TriggerRestore  Trigger = "RESTORE"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

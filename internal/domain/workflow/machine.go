package workflow

import "context"

// StateMachine tracks one station's state and validates transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is configured for the current state
	CanFire(trigger Trigger) bool

	// Fire executes the trigger, moving to the new state if a guard allows it
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns the triggers configured for the current state, sorted
	PermittedTriggers() []Trigger

	// TriggerTo finds the trigger that leads from the current state to target
	TriggerTo(target State) (Trigger, bool)
}

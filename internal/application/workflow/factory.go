package workflow

import (
	domainwf "github.com/procureflow/registry/internal/domain/workflow"
)

// BuildStationStateMachine creates the per-station machine:
// pending -> processing -> completed, any state -> na, na -> pending.
// canRestore guards the way back from na; nil allows it unconditionally.
func BuildStationStateMachine(initialState domainwf.State, canRestore domainwf.GuardFunc) domainwf.StateMachine {
	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StatePending).
		Permit(domainwf.TriggerStart, domainwf.StateProcessing).
		Permit(domainwf.TriggerSkip, domainwf.StateNA)

	builder.Configure(domainwf.StateProcessing).
		Permit(domainwf.TriggerComplete, domainwf.StateCompleted).
		Permit(domainwf.TriggerSkip, domainwf.StateNA)

	builder.Configure(domainwf.StateCompleted).
		Permit(domainwf.TriggerSkip, domainwf.StateNA)

	builder.Configure(domainwf.StateNA).
		PermitIf(domainwf.TriggerRestore, domainwf.StatePending, canRestore)

	return builder.Build(initialState)
}

/*
Package navigator implements the navigation session state machine.

It is split in two layers:

  - Pure transitions (Start, Select, Reset, ResolveStart, ResolveSelect) that take the
    current domain.State value and return the next one. They never perform I/O and are
    deterministic, which keeps the state machine testable without goroutines.
  - Controller, which owns a single State, calls the ports.TopicService on background
    goroutines and feeds the responses back through the pure transitions.

Every request is tagged with the generation it was issued against. StartSession and
Reset advance the generation, so a late response for an older generation is discarded
instead of clobbering the current session.

	ctrl := navigator.New(service)
	req, err := ctrl.StartSession(ctx, "Physics")
	if err != nil {
		return err
	}
	if err := req.Wait(ctx); err != nil {
		// ctrl.State().Request carries the user visible message
	}
	req, err = ctrl.SelectItem(ctx, ctrl.State().Session.Menu[0])

The topic service has no built-in timeout. A request that never returns leaves the
controller Loading until a new StartSession or Reset supersedes it, unless
WithRequestTimeout is configured.
*/
package navigator

// Package engine executes device commands for Hearthcloud Core.
//
// A command names a device, an operation, and its parameters. The engine
// validates that the device can accept the command, applies the trait
// semantics, persists the resulting state, and queues a best-effort
// notification to the device's agent.
//
// Architecture:
//
//	┌───────────────────────────────────────────────────────┐
//	│               Dispatcher (dispatch.go)                 │
//	│  Routes commands through a fixed handler registry      │
//	│  ┌──────────────────────────────────────────────┐     │
//	│  │  Execution Pipeline                           │     │
//	│  │  1. Resolve handler (closed registry)         │     │
//	│  │  2. Load device from the directory            │     │
//	│  │  3. Validate preconditions (validate.go)      │     │
//	│  │     online → errorCode → two-factor           │     │
//	│  │  4. Run trait handler (trait_*.go)            │     │
//	│  │  5. Persist dotted-path writes in one call    │     │
//	│  │  6. Submit notifications (fire-and-forget)    │     │
//	│  │  7. Merge state delta into the outcome        │     │
//	│  └──────────────────────────────────────────────┘     │
//	└───────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - Command: Command identifier, parameters, and optional challenge
//   - Dispatcher: Orchestrator wiring store, notifier, and audit trail
//   - Outcome: Post-execution state snapshot plus SUCCESS/PENDING status
//   - UnsupportedCommandError: Returned for commands outside the registry
//
// # Error Reporting
//
// Handlers return sentinel errors (ErrDeviceOffline, ErrPinNeeded, ...)
// that ErrorCode maps to wire-level error code strings. Anything
// unrecognised maps to "hardError".
//
// # Thread Safety
//
// Dispatcher is safe for concurrent use: the handler registry is built
// once at construction and handlers only touch per-call execution state.
//
// # Usage
//
//	dispatcher := engine.NewDispatcher(store, notifier, log,
//	    engine.WithAuditor(audit))
//
//	outcome, err := dispatcher.Execute(ctx, userID, deviceID, engine.Command{
//	    ID:     engine.CmdOnOff,
//	    Params: map[string]any{"on": true},
//	})
//	if err != nil {
//	    code := engine.ErrorCode(err)
//	    ...
//	}
package engine

package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmadland/hearthcloud-core/internal/directory"
	"github.com/jmadland/hearthcloud-core/internal/infrastructure/logging"
	"github.com/jmadland/hearthcloud-core/internal/notify"
)

// Store is the slice of the device directory the engine needs.
// *directory.SQLiteDirectory satisfies this interface.
type Store interface {
	Get(ctx context.Context, userID, deviceID string) (*directory.Device, error)
	UpdateFields(ctx context.Context, userID, deviceID string, fields map[string]any) error
}

// Notifier receives state change notifications for asynchronous
// delivery to device agents. *notify.Notifier satisfies this interface.
type Notifier interface {
	SubmitAll(notes []notify.Notification) error
}

// Auditor records command outcomes. *influxdb.Client satisfies this
// interface; a nil Auditor disables auditing.
type Auditor interface {
	RecordCommand(userID, deviceID, command, outcome string, duration time.Duration)
}

// Status is the terminal state of a command execution.
type Status string

const (
	// StatusSuccess means the command applied and state is persisted.
	StatusSuccess Status = "SUCCESS"

	// StatusPending means the command was accepted but completes
	// asynchronously (e.g. a network speed test).
	StatusPending Status = "PENDING"
)

// Outcome is the result of a successful Execute call.
type Outcome struct {
	// States is the device's full post-execution state snapshot.
	States map[string]any

	// Status is SUCCESS or PENDING.
	Status Status
}

// handlerFunc mutates an execution in place. Returning an error aborts
// the command with no writes and no notifications.
type handlerFunc func(ex *execution) error

// Dispatcher validates, executes, and persists device commands.
//
// All collaborators are injected; the zero value is not usable, use
// NewDispatcher.
type Dispatcher struct {
	store    Store
	notifier Notifier
	audit    Auditor
	log      *logging.Logger

	// now and randFloat exist so tests can pin time and randomness.
	now       func() time.Time
	randFloat func() float64

	handlers map[CommandID]handlerFunc
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAuditor attaches a command audit recorder.
func WithAuditor(a Auditor) DispatcherOption {
	return func(d *Dispatcher) {
		d.audit = a
	}
}

// WithClock overrides the dispatcher's time source.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// WithRand overrides the dispatcher's randomness source.
func WithRand(randFloat func() float64) DispatcherOption {
	return func(d *Dispatcher) {
		d.randFloat = randFloat
	}
}

// NewDispatcher creates a Dispatcher with the full command registry.
func NewDispatcher(store Store, notifier Notifier, log *logging.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:     store,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
		randFloat: rand.Float64, //nolint:gosec // simulated measurements, not security material
	}
	for _, opt := range opts {
		opt(d)
	}
	d.handlers = d.buildRegistry()
	return d
}

// buildRegistry maps every supported command to its handler.
func (d *Dispatcher) buildRegistry() map[CommandID]handlerFunc {
	return map[CommandID]handlerFunc{
		CmdAppSelect:  d.handleAppSelect,
		CmdAppInstall: d.handleAppInstall,
		CmdAppSearch:  d.handleAppSearch,

		CmdArmDisarm:  d.handleArmDisarm,
		CmdLockUnlock: d.handleLockUnlock,

		CmdBrightnessAbsolute: d.handleBrightnessAbsolute,
		CmdColorAbsolute:      d.handleColorAbsolute,

		CmdGetCameraStream: d.handleGetCameraStream,

		CmdCook:     d.handleCook,
		CmdDispense: d.handleDispense,

		CmdDock:   d.handleDock,
		CmdCharge: d.handleCharge,

		CmdSetFanSpeed: d.handleSetFanSpeed,
		CmdReverse:     d.handleReverse,

		CmdFill: d.handleFill,

		CmdSetHumidity:                   d.handleSetHumidity,
		CmdSetTemperature:                d.handleSetTemperature,
		CmdThermostatTemperatureSetpoint: d.handleThermostatTemperatureSetpoint,
		CmdThermostatTemperatureSetRange: d.handleThermostatTemperatureSetRange,
		CmdThermostatSetMode:             d.handleThermostatSetMode,

		CmdSetInput:      d.handleSetInput,
		CmdPreviousInput: d.handlePreviousInput,
		CmdNextInput:     d.handleNextInput,
		CmdSelectChannel: d.handleSelectChannel,

		CmdLocate: d.handleLocate,

		CmdEnableDisableGuestNetwork:   d.handleEnableDisableGuestNetwork,
		CmdEnableDisableNetworkProfile: d.handleEnableDisableNetworkProfile,
		CmdTestNetworkSpeed:            d.handleTestNetworkSpeed,
		CmdGetGuestNetworkPassword:     d.handleGetGuestNetworkPassword,

		CmdOnOff:          d.handleOnOff,
		CmdReboot:         d.handleReboot,
		CmdSoftwareUpdate: d.handleSoftwareUpdate,

		CmdOpenClose:      d.handleOpenClose,
		CmdRotateAbsolute: d.handleRotateAbsolute,

		CmdActivateScene: d.handleActivateScene,

		CmdStartStop:    d.handleStartStop,
		CmdPauseUnpause: d.handlePauseUnpause,

		CmdSetModes:   d.handleSetModes,
		CmdSetToggles: d.handleSetToggles,

		CmdTimerStart:  d.handleTimerStart,
		CmdTimerAdjust: d.handleTimerAdjust,
		CmdTimerPause:  d.handleTimerPause,
		CmdTimerResume: d.handleTimerResume,
		CmdTimerCancel: d.handleTimerCancel,

		CmdMediaStop:                d.handleMediaStop,
		CmdMediaNext:                d.handleMediaLogged,
		CmdMediaPrevious:            d.handleMediaLogged,
		CmdMediaPause:               d.handleMediaPause,
		CmdMediaResume:              d.handleMediaResume,
		CmdMediaRepeatMode:          d.handleMediaLogged,
		CmdMediaShuffle:             d.handleMediaLogged,
		CmdMediaClosedCaptioningOn:  d.handleMediaLogged,
		CmdMediaClosedCaptioningOff: d.handleMediaLogged,
		CmdMediaSeekRelative:        d.handleMediaLogged,
		CmdMediaSeekToPosition:      d.handleMediaLogged,

		CmdSetVolume:      d.handleSetVolume,
		CmdVolumeRelative: d.handleVolumeRelative,
		CmdMute:           d.handleMute,
	}
}

// SupportedCommands returns every command ID the dispatcher executes.
func (d *Dispatcher) SupportedCommands() []CommandID {
	ids := make([]CommandID, 0, len(d.handlers))
	for id := range d.handlers {
		ids = append(ids, id)
	}
	return ids
}

// execution is the per-command working state handlers mutate.
type execution struct {
	device *directory.Device
	params map[string]any
	cmd    CommandID

	writes  map[string]any // dotted paths for UpdateFields
	delta   map[string]any // state changes reported back to the caller
	notes   []notify.Notification
	pending bool
}

// setState stages a state value for persistence AND reports it in the
// delta. Most handlers want both.
func (ex *execution) setState(key string, value any) {
	ex.writes["states."+key] = value
	ex.delta[key] = value
}

// write stages a value for persistence without reporting it.
func (ex *execution) write(path string, value any) {
	ex.writes[path] = value
}

// echo reports a value in the delta without persisting it.
func (ex *execution) echo(key string, value any) {
	ex.delta[key] = value
}

// echoState copies a current state value into the delta unchanged.
// Missing states echo as nil, matching the persisted document.
func (ex *execution) echoState(key string) {
	ex.delta[key] = ex.device.States[key]
}

// notify queues a {key: value} push to the device's agent.
func (ex *execution) notify(key string, value any) {
	ex.notes = append(ex.notes, notify.Notification{
		DeviceID: ex.device.ID,
		Key:      key,
		Value:    value,
	})
}

// state reads a current state value.
func (ex *execution) state(key string) any {
	return ex.device.States[key]
}

// attr reads a device attribute.
func (ex *execution) attr(key string) any {
	return ex.device.Attributes[key]
}

// missingParam builds the error for an absent or mistyped parameter.
func missingParam(name string) error {
	return fmt.Errorf("%w: %s", ErrInvalidParams, name)
}

// Execute runs one command against one device.
//
// The pipeline is: load the device, validate preconditions, run the
// handler against the in-memory snapshot, persist staged writes, then
// queue notifications. Notifications are only submitted after a
// successful persist, so agents never hear about state that was not
// saved.
//
// On success the returned Outcome carries the device's full
// post-execution states (snapshot merged with the handler's delta).
func (d *Dispatcher) Execute(ctx context.Context, userID, deviceID string, cmd Command) (*Outcome, error) {
	start := d.now()

	outcome, err := d.execute(ctx, userID, deviceID, cmd)

	if d.audit != nil {
		result := "success"
		if err != nil {
			result = ErrorCode(err)
		} else if outcome.Status == StatusPending {
			result = "pending"
		}
		d.audit.RecordCommand(userID, deviceID, string(cmd.ID), result, d.now().Sub(start))
	}

	return outcome, err
}

func (d *Dispatcher) execute(ctx context.Context, userID, deviceID string, cmd Command) (*Outcome, error) {
	handler, ok := d.handlers[cmd.ID]
	if !ok {
		return nil, &UnsupportedCommandError{Command: string(cmd.ID)}
	}

	device, err := d.store.Get(ctx, userID, deviceID)
	if err != nil {
		return nil, fmt.Errorf("loading device: %w", err)
	}

	if err := validatePreconditions(device, cmd.Challenge); err != nil {
		return nil, err
	}

	ex := &execution{
		device: device,
		params: cmd.Params,
		cmd:    cmd.ID,
		writes: make(map[string]any),
		delta:  make(map[string]any),
	}

	if err := handler(ex); err != nil {
		return nil, err
	}

	if len(ex.writes) > 0 {
		if err := d.store.UpdateFields(ctx, userID, deviceID, ex.writes); err != nil {
			return nil, fmt.Errorf("persisting state: %w", err)
		}
	}

	if err := d.notifier.SubmitAll(ex.notes); err != nil {
		// Notifications are best effort; a closed notifier during
		// shutdown must not fail an already-persisted command.
		d.log.Warn("notifications dropped",
			"device_id", deviceID,
			"error", err,
		)
	}

	d.log.Debug("command executed",
		"user_id", userID,
		"device_id", deviceID,
		"command", cmd.ID.Name(),
		"pending", ex.pending,
	)

	// Merge delta over the loaded snapshot for the response.
	states := make(map[string]any, len(device.States)+len(ex.delta))
	for k, v := range device.States {
		states[k] = v
	}
	for k, v := range ex.delta {
		states[k] = v
	}

	status := StatusSuccess
	if ex.pending {
		status = StatusPending
	}

	return &Outcome{States: states, Status: status}, nil
}

package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmadland/hearthcloud-core/internal/directory"
	"github.com/jmadland/hearthcloud-core/internal/infrastructure/logging"
	"github.com/jmadland/hearthcloud-core/internal/notify"
)

// ============================================================================
// Mocks
// ============================================================================

type mockStore struct {
	device    *directory.Device
	getErr    error
	updateErr error

	updates []map[string]any
}

func (m *mockStore) Get(_ context.Context, _, _ string) (*directory.Device, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.device, nil
}

func (m *mockStore) UpdateFields(_ context.Context, _, _ string, fields map[string]any) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, fields)
	return nil
}

type mockNotifier struct {
	submitErr error
	notes     []notify.Notification
}

func (m *mockNotifier) SubmitAll(notes []notify.Notification) error {
	if m.submitErr != nil {
		return m.submitErr
	}
	m.notes = append(m.notes, notes...)
	return nil
}

type auditRecord struct {
	userID   string
	deviceID string
	command  string
	outcome  string
}

type mockAuditor struct {
	records []auditRecord
}

func (m *mockAuditor) RecordCommand(userID, deviceID, command, outcome string, _ time.Duration) {
	m.records = append(m.records, auditRecord{userID, deviceID, command, outcome})
}

// ============================================================================
// Helpers
// ============================================================================

func testDevice(states map[string]any) *directory.Device {
	if states == nil {
		states = map[string]any{}
	}
	if _, ok := states["online"]; !ok {
		states["online"] = true
	}
	return &directory.Device{
		ID:         "light-1",
		Name:       "Ceiling Light",
		Type:       "action.devices.types.LIGHT",
		Traits:     []string{"action.devices.traits.OnOff"},
		States:     states,
		Attributes: map[string]any{},
	}
}

func newTestDispatcher(device *directory.Device, opts ...DispatcherOption) (*Dispatcher, *mockStore, *mockNotifier) {
	store := &mockStore{device: device}
	notifier := &mockNotifier{}
	d := NewDispatcher(store, notifier, logging.Default(), opts...)
	return d, store, notifier
}

// ============================================================================
// Command routing
// ============================================================================

func TestExecute_UnknownCommand(t *testing.T) {
	d, store, _ := newTestDispatcher(testDevice(nil))

	_, err := d.Execute(context.Background(), "user-1", "light-1", Command{
		ID: CommandID("action.devices.commands.DoesNotExist"),
	})

	var unsupported *UnsupportedCommandError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedCommandError, got %v", err)
	}
	if code := ErrorCode(err); code != "functionNotSupported" {
		t.Errorf("ErrorCode = %q, want functionNotSupported", code)
	}
	if len(store.updates) != 0 {
		t.Errorf("unexpected writes for unknown command: %v", store.updates)
	}
}

func TestExecute_DeviceNotFound(t *testing.T) {
	d, _, _ := newTestDispatcher(nil)
	d.store = &mockStore{getErr: directory.ErrDeviceNotFound}

	_, err := d.Execute(context.Background(), "user-1", "ghost", Command{
		ID:     CmdOnOff,
		Params: map[string]any{"on": true},
	})

	if !errors.Is(err, directory.ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
	if code := ErrorCode(err); code != "deviceNotFound" {
		t.Errorf("ErrorCode = %q, want deviceNotFound", code)
	}
}

func TestSupportedCommands_MatchesRegistry(t *testing.T) {
	all := []CommandID{
		CmdAppSelect, CmdAppInstall, CmdAppSearch,
		CmdArmDisarm, CmdLockUnlock,
		CmdBrightnessAbsolute, CmdColorAbsolute,
		CmdGetCameraStream,
		CmdCook, CmdDispense,
		CmdDock, CmdCharge,
		CmdSetFanSpeed, CmdReverse,
		CmdFill,
		CmdSetHumidity, CmdSetTemperature,
		CmdThermostatTemperatureSetpoint, CmdThermostatTemperatureSetRange, CmdThermostatSetMode,
		CmdSetInput, CmdPreviousInput, CmdNextInput, CmdSelectChannel,
		CmdLocate,
		CmdEnableDisableGuestNetwork, CmdEnableDisableNetworkProfile,
		CmdTestNetworkSpeed, CmdGetGuestNetworkPassword,
		CmdOnOff, CmdReboot, CmdSoftwareUpdate,
		CmdOpenClose, CmdRotateAbsolute,
		CmdActivateScene,
		CmdStartStop, CmdPauseUnpause,
		CmdSetModes, CmdSetToggles,
		CmdTimerStart, CmdTimerAdjust, CmdTimerPause, CmdTimerResume, CmdTimerCancel,
		CmdMediaStop, CmdMediaNext, CmdMediaPrevious, CmdMediaPause, CmdMediaResume,
		CmdMediaRepeatMode, CmdMediaShuffle,
		CmdMediaClosedCaptioningOn, CmdMediaClosedCaptioningOff,
		CmdMediaSeekRelative, CmdMediaSeekToPosition,
		CmdSetVolume, CmdVolumeRelative, CmdMute,
	}

	d, _, _ := newTestDispatcher(testDevice(nil))

	supported := make(map[CommandID]bool, len(d.SupportedCommands()))
	for _, id := range d.SupportedCommands() {
		supported[id] = true
	}

	for _, id := range all {
		if !supported[id] {
			t.Errorf("command %s missing from registry", id)
		}
	}
	if len(supported) != len(all) {
		t.Errorf("registry has %d commands, want %d", len(supported), len(all))
	}
}

// ============================================================================
// Preconditions
// ============================================================================

func TestExecute_Preconditions(t *testing.T) {
	onOff := Command{ID: CmdOnOff, Params: map[string]any{"on": true}}

	tests := []struct {
		name      string
		device    *directory.Device
		challenge map[string]any
		wantErr   error
		wantCode  string
	}{
		{
			name:     "offline device",
			device:   testDevice(map[string]any{"online": false}),
			wantErr:  ErrDeviceOffline,
			wantCode: "deviceOffline",
		},
		{
			name: "offline wins over device fault",
			device: func() *directory.Device {
				d := testDevice(map[string]any{"online": false})
				d.ErrorCode = "lowBattery"
				return d
			}(),
			wantErr:  ErrDeviceOffline,
			wantCode: "deviceOffline",
		},
		{
			name: "device fault",
			device: func() *directory.Device {
				d := testDevice(nil)
				d.ErrorCode = "lowBattery"
				return d
			}(),
			wantCode: "lowBattery",
		},
		{
			name: "ack required without challenge",
			device: func() *directory.Device {
				d := testDevice(nil)
				d.TFA = "ack"
				return d
			}(),
			wantErr:  ErrAckNeeded,
			wantCode: "ackNeeded",
		},
		{
			name: "pin required without challenge",
			device: func() *directory.Device {
				d := testDevice(nil)
				d.TFA = "1234"
				return d
			}(),
			wantErr:  ErrPinNeeded,
			wantCode: "pinNeeded",
		},
		{
			name: "wrong pin",
			device: func() *directory.Device {
				d := testDevice(nil)
				d.TFA = "1234"
				return d
			}(),
			challenge: map[string]any{"pin": "0000"},
			wantErr:   ErrChallengeFailedPinNeeded,
			wantCode:  "challengeFailedPinNeeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, store, _ := newTestDispatcher(tt.device)

			cmd := onOff
			cmd.Challenge = tt.challenge
			_, err := d.Execute(context.Background(), "user-1", tt.device.ID, cmd)

			if err == nil {
				t.Fatal("expected precondition failure, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if code := ErrorCode(err); code != tt.wantCode {
				t.Errorf("ErrorCode = %q, want %q", code, tt.wantCode)
			}
			if len(store.updates) != 0 {
				t.Errorf("precondition failure must not persist, got %v", store.updates)
			}
		})
	}
}

func TestExecute_ChallengeSatisfied(t *testing.T) {
	tests := []struct {
		name      string
		tfa       string
		challenge map[string]any
	}{
		{name: "ack acknowledged", tfa: "ack", challenge: map[string]any{"ack": true}},
		{name: "any challenge satisfies ack", tfa: "ack", challenge: map[string]any{"pin": "9999"}},
		{name: "correct pin", tfa: "1234", challenge: map[string]any{"pin": "1234"}},
		{name: "challenge without pin passes", tfa: "1234", challenge: map[string]any{"ack": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := testDevice(nil)
			device.TFA = tt.tfa
			d, _, _ := newTestDispatcher(device)

			outcome, err := d.Execute(context.Background(), "user-1", device.ID, Command{
				ID:        CmdOnOff,
				Params:    map[string]any{"on": true},
				Challenge: tt.challenge,
			})
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if outcome.States["on"] != true {
				t.Errorf("on = %v, want true", outcome.States["on"])
			}
		})
	}
}

// ============================================================================
// Pipeline behaviour
// ============================================================================

func TestExecute_PersistsAndMergesDelta(t *testing.T) {
	device := testDevice(map[string]any{"on": false, "brightness": 40})
	d, store, notifier := newTestDispatcher(device)

	outcome, err := d.Execute(context.Background(), "user-1", device.ID, Command{
		ID:     CmdOnOff,
		Params: map[string]any{"on": true},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(store.updates) != 1 {
		t.Fatalf("expected 1 persist call, got %d", len(store.updates))
	}
	if store.updates[0]["states.on"] != true {
		t.Errorf("persisted fields = %v, want states.on=true", store.updates[0])
	}

	if outcome.Status != StatusSuccess {
		t.Errorf("status = %s, want SUCCESS", outcome.Status)
	}
	if outcome.States["on"] != true {
		t.Errorf("delta not applied: on = %v", outcome.States["on"])
	}
	if outcome.States["brightness"] != 40 {
		t.Errorf("untouched state lost: brightness = %v", outcome.States["brightness"])
	}

	if len(notifier.notes) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.notes))
	}
	note := notifier.notes[0]
	if note.DeviceID != device.ID || note.Key != "on" || note.Value != true {
		t.Errorf("unexpected notification: %+v", note)
	}
}

func TestExecute_NotifierFailureDoesNotFailCommand(t *testing.T) {
	device := testDevice(nil)
	d, store, notifier := newTestDispatcher(device)
	notifier.submitErr = notify.ErrClosed

	outcome, err := d.Execute(context.Background(), "user-1", device.ID, Command{
		ID:     CmdOnOff,
		Params: map[string]any{"on": true},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if outcome.States["on"] != true {
		t.Errorf("on = %v, want true", outcome.States["on"])
	}
	if len(store.updates) != 1 {
		t.Errorf("state must persist despite notifier failure")
	}
}

func TestExecute_HandlerErrorSkipsPersistAndNotify(t *testing.T) {
	device := testDevice(map[string]any{"timerRemainingSec": -1})
	d, store, notifier := newTestDispatcher(device)

	_, err := d.Execute(context.Background(), "user-1", device.ID, Command{
		ID:     CmdTimerPause,
		Params: map[string]any{},
	})

	if !errors.Is(err, ErrNoTimerExists) {
		t.Fatalf("expected ErrNoTimerExists, got %v", err)
	}
	if len(store.updates) != 0 {
		t.Errorf("failed handler must not persist, got %v", store.updates)
	}
	if len(notifier.notes) != 0 {
		t.Errorf("failed handler must not notify, got %v", notifier.notes)
	}
}

func TestExecute_PersistFailureAbortsNotifications(t *testing.T) {
	device := testDevice(nil)
	d, _, notifier := newTestDispatcher(device)
	d.store = &mockStore{device: device, updateErr: errors.New("disk full")}

	_, err := d.Execute(context.Background(), "user-1", device.ID, Command{
		ID:     CmdOnOff,
		Params: map[string]any{"on": true},
	})

	if err == nil {
		t.Fatal("expected persist error")
	}
	if len(notifier.notes) != 0 {
		t.Errorf("notifications must follow a successful persist, got %v", notifier.notes)
	}
}

func TestExecute_MissingParam(t *testing.T) {
	d, _, _ := newTestDispatcher(testDevice(nil))

	_, err := d.Execute(context.Background(), "user-1", "light-1", Command{
		ID:     CmdOnOff,
		Params: map[string]any{},
	})

	if !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
	if code := ErrorCode(err); code != "protocolError" {
		t.Errorf("ErrorCode = %q, want protocolError", code)
	}
}

// ============================================================================
// Audit trail
// ============================================================================

func TestExecute_Audit(t *testing.T) {
	t.Run("success outcome", func(t *testing.T) {
		audit := &mockAuditor{}
		device := testDevice(nil)
		d, _, _ := newTestDispatcher(device, WithAuditor(audit))

		_, err := d.Execute(context.Background(), "user-1", device.ID, Command{
			ID:     CmdOnOff,
			Params: map[string]any{"on": true},
		})
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(audit.records) != 1 {
			t.Fatalf("expected 1 audit record, got %d", len(audit.records))
		}
		rec := audit.records[0]
		if rec.outcome != "success" || rec.command != string(CmdOnOff) {
			t.Errorf("unexpected audit record: %+v", rec)
		}
	})

	t.Run("pending outcome", func(t *testing.T) {
		audit := &mockAuditor{}
		device := testDevice(nil)
		d, _, _ := newTestDispatcher(device,
			WithAuditor(audit),
			WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
			WithRand(func() float64 { return 0.5 }),
		)

		_, err := d.Execute(context.Background(), "user-1", device.ID, Command{
			ID: CmdTestNetworkSpeed,
		})
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if audit.records[0].outcome != "pending" {
			t.Errorf("outcome = %q, want pending", audit.records[0].outcome)
		}
	})

	t.Run("error outcome records code", func(t *testing.T) {
		audit := &mockAuditor{}
		device := testDevice(map[string]any{"online": false})
		d, _, _ := newTestDispatcher(device, WithAuditor(audit))

		_, _ = d.Execute(context.Background(), "user-1", device.ID, Command{
			ID:     CmdOnOff,
			Params: map[string]any{"on": true},
		})

		if audit.records[0].outcome != "deviceOffline" {
			t.Errorf("outcome = %q, want deviceOffline", audit.records[0].outcome)
		}
	})
}

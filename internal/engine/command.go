package engine

// CommandID is a fully qualified device command name
// (e.g. "action.devices.commands.OnOff").
type CommandID string

// commandPrefix is the namespace shared by all device commands.
const commandPrefix = "action.devices.commands."

// The closed set of commands the engine executes. A command not listed
// here fails with UnsupportedCommandError.
const (
	// Application control
	CmdAppSelect  CommandID = commandPrefix + "appSelect"
	CmdAppInstall CommandID = commandPrefix + "appInstall"
	CmdAppSearch  CommandID = commandPrefix + "appSearch"

	// Security
	CmdArmDisarm  CommandID = commandPrefix + "ArmDisarm"
	CmdLockUnlock CommandID = commandPrefix + "LockUnlock"

	// Lighting
	CmdBrightnessAbsolute CommandID = commandPrefix + "BrightnessAbsolute"
	CmdColorAbsolute      CommandID = commandPrefix + "ColorAbsolute"

	// Camera
	CmdGetCameraStream CommandID = commandPrefix + "GetCameraStream"

	// Cooking and dispensing
	CmdCook     CommandID = commandPrefix + "Cook"
	CmdDispense CommandID = commandPrefix + "Dispense"

	// Docking and charging
	CmdDock   CommandID = commandPrefix + "Dock"
	CmdCharge CommandID = commandPrefix + "Charge"

	// Fan
	CmdSetFanSpeed CommandID = commandPrefix + "SetFanSpeed"
	CmdReverse     CommandID = commandPrefix + "Reverse"

	// Fill
	CmdFill CommandID = commandPrefix + "Fill"

	// Climate
	CmdSetHumidity                   CommandID = commandPrefix + "SetHumidity"
	CmdSetTemperature                CommandID = commandPrefix + "SetTemperature"
	CmdThermostatTemperatureSetpoint CommandID = commandPrefix + "ThermostatTemperatureSetpoint"
	CmdThermostatTemperatureSetRange CommandID = commandPrefix + "ThermostatTemperatureSetRange"
	CmdThermostatSetMode             CommandID = commandPrefix + "ThermostatSetMode"

	// Input selection
	CmdSetInput      CommandID = commandPrefix + "SetInput"
	CmdPreviousInput CommandID = commandPrefix + "PreviousInput"
	CmdNextInput     CommandID = commandPrefix + "NextInput"
	CmdSelectChannel CommandID = commandPrefix + "selectChannel"

	// Locator
	CmdLocate CommandID = commandPrefix + "Locate"

	// Network control
	CmdEnableDisableGuestNetwork   CommandID = commandPrefix + "EnableDisableGuestNetwork"
	CmdEnableDisableNetworkProfile CommandID = commandPrefix + "EnableDisableNetworkProfile"
	CmdTestNetworkSpeed            CommandID = commandPrefix + "TestNetworkSpeed"
	CmdGetGuestNetworkPassword     CommandID = commandPrefix + "GetGuestNetworkPassword"

	// Power and lifecycle
	CmdOnOff          CommandID = commandPrefix + "OnOff"
	CmdReboot         CommandID = commandPrefix + "Reboot"
	CmdSoftwareUpdate CommandID = commandPrefix + "SoftwareUpdate"

	// Openable devices
	CmdOpenClose      CommandID = commandPrefix + "OpenClose"
	CmdRotateAbsolute CommandID = commandPrefix + "RotateAbsolute"

	// Scenes
	CmdActivateScene CommandID = commandPrefix + "ActivateScene"

	// Run state
	CmdStartStop    CommandID = commandPrefix + "StartStop"
	CmdPauseUnpause CommandID = commandPrefix + "PauseUnpause"

	// Modes and toggles
	CmdSetModes   CommandID = commandPrefix + "SetModes"
	CmdSetToggles CommandID = commandPrefix + "SetToggles"

	// Timers
	CmdTimerStart  CommandID = commandPrefix + "TimerStart"
	CmdTimerAdjust CommandID = commandPrefix + "TimerAdjust"
	CmdTimerPause  CommandID = commandPrefix + "TimerPause"
	CmdTimerResume CommandID = commandPrefix + "TimerResume"
	CmdTimerCancel CommandID = commandPrefix + "TimerCancel"

	// Media transport
	CmdMediaStop                CommandID = commandPrefix + "mediaStop"
	CmdMediaNext                CommandID = commandPrefix + "mediaNext"
	CmdMediaPrevious            CommandID = commandPrefix + "mediaPrevious"
	CmdMediaPause               CommandID = commandPrefix + "mediaPause"
	CmdMediaResume              CommandID = commandPrefix + "mediaResume"
	CmdMediaRepeatMode          CommandID = commandPrefix + "mediaRepeatMode"
	CmdMediaShuffle             CommandID = commandPrefix + "mediaShuffle"
	CmdMediaClosedCaptioningOn  CommandID = commandPrefix + "mediaClosedCaptioningOn"
	CmdMediaClosedCaptioningOff CommandID = commandPrefix + "mediaClosedCaptioningOff"
	CmdMediaSeekRelative        CommandID = commandPrefix + "mediaSeekRelative"
	CmdMediaSeekToPosition      CommandID = commandPrefix + "mediaSeekToPosition"

	// Volume
	CmdSetVolume      CommandID = commandPrefix + "setVolume"
	CmdVolumeRelative CommandID = commandPrefix + "volumeRelative"
	CmdMute           CommandID = commandPrefix + "mute"
)

// Command is a single execution request against one device.
type Command struct {
	// ID is the fully qualified command name.
	ID CommandID

	// Params carries the command's parameters as decoded JSON.
	Params map[string]any

	// Challenge carries secondary verification data ("ack" or "pin"),
	// or nil when the request has none.
	Challenge map[string]any
}

// Name returns the command's short name without the shared prefix.
func (id CommandID) Name() string {
	s := string(id)
	if len(s) > len(commandPrefix) && s[:len(commandPrefix)] == commandPrefix {
		return s[len(commandPrefix):]
	}
	return s
}

package engine

// Handlers for audio/video commands: applications, inputs, channels,
// media transport, and volume.

func (d *Dispatcher) handleAppSelect(ex *execution) error {
	app, ok := asString(ex.params["newApplication"])
	if !ok {
		if app, ok = asString(ex.params["newApplicationName"]); !ok {
			return missingParam("newApplication")
		}
	}
	ex.setState("currentApplication", app)
	ex.notify("currentApplication", app)
	return nil
}

// appInstall and appSearch have no device state: the engine records the
// request and reports success, matching what a real install pipeline
// would acknowledge synchronously.
func (d *Dispatcher) handleAppInstall(ex *execution) error {
	d.log.Info("app install requested",
		"device_id", ex.device.ID,
		"application", ex.params["newApplication"],
	)
	return nil
}

func (d *Dispatcher) handleAppSearch(ex *execution) error {
	d.log.Info("app search requested",
		"device_id", ex.device.ID,
		"application", ex.params["newApplication"],
	)
	return nil
}

func (d *Dispatcher) handleSelectChannel(ex *execution) error {
	ex.notify("channelNumber", ex.params["channelNumber"])
	return nil
}

func (d *Dispatcher) handleSetInput(ex *execution) error {
	input, ok := asString(ex.params["newInput"])
	if !ok {
		return missingParam("newInput")
	}
	ex.setState("currentInput", input)
	ex.notify("currentInput", input)
	return nil
}

func (d *Dispatcher) handlePreviousInput(ex *execution) error {
	return d.stepInput(ex, -1)
}

func (d *Dispatcher) handleNextInput(ex *execution) error {
	return d.stepInput(ex, +1)
}

// stepInput moves currentInput through attributes.availableInputs.
//
// The stepping rule is inherited behaviour: stepping back clamps to the
// first input rather than stopping one short, and a currentInput that
// is not in the list starts from index -1. Indexes that land outside
// the list fail with ErrValueOutOfRange.
func (d *Dispatcher) stepInput(ex *execution, direction int) error {
	available, ok := ex.attr("availableInputs").([]any)
	if !ok || len(available) == 0 {
		return ErrNotSupported
	}

	current, _ := asString(ex.state("currentInput"))
	index := -1
	for i, entry := range available {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if key, _ := asString(m["key"]); key == current {
			index = i
			break
		}
	}

	if direction < 0 {
		index = min(index-1, 0)
	} else {
		index = min(index+1, len(available)-1)
	}

	if index < 0 || index >= len(available) {
		return ErrValueOutOfRange
	}

	m, ok := available[index].(map[string]any)
	if !ok {
		return ErrNotSupported
	}
	key, ok := asString(m["key"])
	if !ok {
		return ErrNotSupported
	}

	ex.setState("currentInput", key)
	ex.notify("currentInput", key)
	return nil
}

func (d *Dispatcher) handleGetCameraStream(ex *execution) error {
	// Streams are minted per request and never persisted.
	ex.echo("cameraStreamAccessUrl", cameraStreamURL)
	ex.notify("cameraStreamAccessUrl", cameraStreamURL)
	return nil
}

// cameraStreamURL is the placeholder stream endpoint returned until a
// real streaming service is wired in.
const cameraStreamURL = "https://fluffysheep.com/baaaaa.mp4"

// handleMediaLogged covers transport commands with no modelled state
// (next, previous, shuffle, repeat, captions, seek). The command is
// acknowledged and logged; agents act on the live playback session.
func (d *Dispatcher) handleMediaLogged(ex *execution) error {
	d.log.Info("media transport command",
		"device_id", ex.device.ID,
		"command", ex.cmd.Name(),
	)
	return nil
}

func (d *Dispatcher) handleMediaPause(ex *execution) error {
	ex.setState("playbackState", "PAUSED")
	ex.notify("playbackState", "PAUSED")
	return nil
}

func (d *Dispatcher) handleMediaResume(ex *execution) error {
	ex.setState("playbackState", "PLAYING")
	ex.notify("playbackState", "PLAYING")
	return nil
}

func (d *Dispatcher) handleMediaStop(ex *execution) error {
	ex.setState("playbackState", "STOPPED")
	ex.notify("playbackState", "STOPPED")
	return nil
}

func (d *Dispatcher) handleSetVolume(ex *execution) error {
	volume, ok := asInt(ex.params["volumeLevel"])
	if !ok {
		return missingParam("volumeLevel")
	}
	ex.setState("currentVolume", volume)
	ex.notify("currentVolume", volume)
	return nil
}

// handleVolumeRelative adds the requested steps to the current volume
// without clamping; devices with a volumeMaxLevel attribute rely on the
// agent to saturate. Known gap, kept for agent compatibility.
func (d *Dispatcher) handleVolumeRelative(ex *execution) error {
	steps, ok := asInt(ex.params["relativeSteps"])
	if !ok {
		return missingParam("relativeSteps")
	}
	current, _ := asInt(ex.state("currentVolume"))
	volume := current + steps
	ex.setState("currentVolume", volume)
	ex.notify("currentVolume", volume)
	return nil
}

func (d *Dispatcher) handleMute(ex *execution) error {
	mute, ok := asBool(ex.params["mute"])
	if !ok {
		return missingParam("mute")
	}
	ex.setState("isMuted", mute)
	ex.notify("isMuted", mute)
	return nil
}

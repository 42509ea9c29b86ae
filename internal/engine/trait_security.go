package engine

// Handlers for security and network commands.

// guestNetworkPassword is the canned credential returned for guest
// network password queries. Real credential storage sits behind the
// router agent, not the cloud.
const guestNetworkPassword = "wifi-password-123"

func (d *Dispatcher) handleArmDisarm(ex *execution) error {
	arm, ok := asBool(ex.params["arm"])
	if !ok {
		return missingParam("arm")
	}
	if cancel, ok := asBool(ex.params["cancel"]); ok && cancel {
		arm = !arm
	}

	ex.setState("isArmed", arm)
	if level, ok := asString(ex.params["armLevel"]); ok {
		ex.setState("currentArmLevel", level)
	}
	ex.notify("isArmed", arm)
	return nil
}

func (d *Dispatcher) handleLockUnlock(ex *execution) error {
	lock, ok := asBool(ex.params["lock"])
	if !ok {
		return missingParam("lock")
	}
	ex.setState("isLocked", lock)
	ex.notify("isLocked", lock)
	return nil
}

func (d *Dispatcher) handleEnableDisableGuestNetwork(ex *execution) error {
	enable, ok := asBool(ex.params["enable"])
	if !ok {
		return missingParam("enable")
	}
	ex.setState("guestNetworkEnabled", enable)
	ex.notify("guestNetworkEnabled", enable)
	return nil
}

// handleEnableDisableNetworkProfile validates the profile against the
// device's advertised list. Toggling itself is handled on the agent, so
// a recognised profile needs no state change here.
func (d *Dispatcher) handleEnableDisableNetworkProfile(ex *execution) error {
	profile, ok := asString(ex.params["profile"])
	if !ok {
		return missingParam("profile")
	}

	profiles, ok := ex.attr("networkProfiles").([]any)
	if !ok {
		return ErrNetworkProfileNotRecognized
	}
	for _, p := range profiles {
		if name, _ := asString(p); name == profile {
			return nil
		}
	}
	return ErrNetworkProfileNotRecognized
}

// handleTestNetworkSpeed kicks off a simulated speed test for each
// flagged direction, merging the fresh sample over the stored one. The
// result lands immediately in state, but the command reports PENDING
// because a real test completes after the response goes out.
func (d *Dispatcher) handleTestNetworkSpeed(ex *execution) error {
	now := d.now().Unix()

	if down, _ := asBool(ex.params["testDownloadSpeed"]); down {
		sample := speedSample(ex.state("lastNetworkDownloadSpeedTest"))
		sample["downloadSpeedMbps"] = d.randFloat() * 100
		sample["unixTimestampSec"] = now
		ex.setState("lastNetworkDownloadSpeedTest", sample)
	}
	if up, _ := asBool(ex.params["testUploadSpeed"]); up {
		sample := speedSample(ex.state("lastNetworkUploadSpeedTest"))
		sample["uploadSpeedMbps"] = d.randFloat() * 100
		sample["unixTimestampSec"] = now
		ex.setState("lastNetworkUploadSpeedTest", sample)
	}

	ex.pending = true
	return nil
}

// speedSample copies the stored sample map so staged writes never alias
// the device snapshot.
func speedSample(prior any) map[string]any {
	sample := make(map[string]any)
	if m, ok := prior.(map[string]any); ok {
		for k, v := range m {
			sample[k] = v
		}
	}
	return sample
}

func (d *Dispatcher) handleGetGuestNetworkPassword(ex *execution) error {
	ex.echo("guestNetworkPassword", guestNetworkPassword)
	return nil
}

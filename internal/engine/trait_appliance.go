package engine

// Handlers for appliance commands: cooking, dispensing, docking,
// run state, modes, toggles, timers, and openable devices.

// Values the cooking state resets to when no run is active.
const (
	cookingModeNone = "NONE"
	foodPresetNone  = "NONE"
	foodUnitNone    = "NONE"
)

func (d *Dispatcher) handleCook(ex *execution) error {
	start, ok := asBool(ex.params["start"])
	if !ok {
		return missingParam("start")
	}

	if start {
		mode, ok := asString(ex.params["cookingMode"])
		if !ok {
			return missingParam("cookingMode")
		}
		preset, ok := asString(ex.params["foodPreset"])
		if !ok {
			preset = foodPresetNone
		}
		quantity, ok := asFloat(ex.params["quantity"])
		if !ok {
			quantity = 0
		}
		unit, ok := asString(ex.params["unit"])
		if !ok {
			unit = foodUnitNone
		}
		ex.setState("currentCookingMode", mode)
		ex.setState("currentFoodPreset", preset)
		ex.setState("currentFoodQuantity", quantity)
		ex.setState("currentFoodUnit", unit)
	} else {
		ex.setState("currentCookingMode", cookingModeNone)
		ex.setState("currentFoodPreset", foodPresetNone)
		ex.setState("currentFoodQuantity", 0)
		ex.setState("currentFoodUnit", foodUnitNone)
	}

	ex.notify("start", start)
	return nil
}

// catFoodPreset gets a fixed serving; every other preset dispenses what
// the request asked for.
const (
	catFoodPreset = "cat food bowl"
	catFoodAmount = 4
	catFoodUnit   = "CUPS"
)

func (d *Dispatcher) handleDispense(ex *execution) error {
	item, _ := asString(ex.params["item"])
	amount, _ := asFloat(ex.params["amount"])
	unit, _ := asString(ex.params["unit"])

	_, byPreset := ex.params["presetName"]
	if preset, _ := asString(ex.params["presetName"]); preset == catFoodPreset {
		amount = catFoodAmount
		unit = catFoodUnit
	}

	dispenseItems := []any{
		map[string]any{
			"itemName": item,
			"amountLastDispensed": map[string]any{
				"amount": amount,
				"unit":   unit,
			},
			"isCurrentlyDispensing": byPreset,
		},
	}
	ex.setState("dispenseItems", dispenseItems)
	ex.notify("dispenseItems", dispenseItems)
	return nil
}

func (d *Dispatcher) handleDock(ex *execution) error {
	ex.setState("isDocked", true)
	ex.notify("isDocked", true)
	return nil
}

func (d *Dispatcher) handleCharge(ex *execution) error {
	charge, ok := asBool(ex.params["charge"])
	if !ok {
		return missingParam("charge")
	}
	ex.setState("isCharging", charge)
	ex.notify("isCharging", charge)
	return nil
}

func (d *Dispatcher) handleFill(ex *execution) error {
	fill, ok := asBool(ex.params["fill"])
	if !ok {
		return missingParam("fill")
	}

	// Draining always lands on "none", whatever the request says.
	level := "none"
	if fill {
		level = "half"
		if requested, ok := asString(ex.params["fillLevel"]); ok {
			level = requested
		}
	}

	ex.setState("isFilled", fill)
	ex.setState("currentFillLevel", level)
	ex.notify("isFilled", fill)
	return nil
}

func (d *Dispatcher) handleStartStop(ex *execution) error {
	start, ok := asBool(ex.params["start"])
	if !ok {
		return missingParam("start")
	}
	ex.setState("isRunning", start)
	ex.notify("isRunning", start)
	return nil
}

func (d *Dispatcher) handlePauseUnpause(ex *execution) error {
	pause, ok := asBool(ex.params["pause"])
	if !ok {
		return missingParam("pause")
	}
	ex.setState("isPaused", pause)
	ex.notify("isPaused", pause)
	return nil
}

func (d *Dispatcher) handleSetModes(ex *execution) error {
	return d.mergeSettings(ex, "updateModeSettings", "currentModeSettings")
}

func (d *Dispatcher) handleSetToggles(ex *execution) error {
	return d.mergeSettings(ex, "updateToggleSettings", "currentToggleSettings")
}

// mergeSettings folds the requested setting updates into the current
// settings map, preserving settings the request does not mention.
func (d *Dispatcher) mergeSettings(ex *execution, paramKey, stateKey string) error {
	updates, ok := ex.params[paramKey].(map[string]any)
	if !ok {
		return missingParam(paramKey)
	}

	merged := make(map[string]any)
	if current, ok := ex.state(stateKey).(map[string]any); ok {
		for k, v := range current {
			merged[k] = v
		}
	}
	for k, v := range updates {
		merged[k] = v
	}

	ex.setState(stateKey, merged)
	ex.notify(stateKey, merged)
	return nil
}

// noTimerSentinel marks an idle timer in device state.
const noTimerSentinel = -1

// timerRemaining reads the current timer, reporting whether one is set.
func (ex *execution) timerRemaining() (int, bool) {
	remaining, ok := asInt(ex.state("timerRemainingSec"))
	if !ok {
		return noTimerSentinel, false
	}
	return remaining, remaining != noTimerSentinel
}

func (d *Dispatcher) handleTimerStart(ex *execution) error {
	seconds, ok := asInt(ex.params["timerTimeSec"])
	if !ok {
		return missingParam("timerTimeSec")
	}
	ex.setState("timerRemainingSec", seconds)
	ex.notify("timerRemainingSec", seconds)
	return nil
}

func (d *Dispatcher) handleTimerAdjust(ex *execution) error {
	remaining, running := ex.timerRemaining()
	if !running {
		return ErrNoTimerExists
	}
	delta, ok := asInt(ex.params["timerTimeSec"])
	if !ok {
		return missingParam("timerTimeSec")
	}
	adjusted := remaining + delta
	if adjusted < 0 {
		return ErrValueOutOfRange
	}
	ex.setState("timerRemainingSec", adjusted)
	ex.notify("timerRemainingSec", adjusted)
	return nil
}

func (d *Dispatcher) handleTimerPause(ex *execution) error {
	if _, running := ex.timerRemaining(); !running {
		return ErrNoTimerExists
	}
	ex.setState("timerPaused", true)
	ex.notify("timerPaused", true)
	return nil
}

func (d *Dispatcher) handleTimerResume(ex *execution) error {
	if _, running := ex.timerRemaining(); !running {
		return ErrNoTimerExists
	}
	ex.setState("timerPaused", false)
	ex.notify("timerPaused", false)
	return nil
}

// handleTimerCancel persists the idle sentinel but reports zero: the
// stored -1 means "no timer", while callers and agents see the timer
// run down to nothing.
func (d *Dispatcher) handleTimerCancel(ex *execution) error {
	if _, running := ex.timerRemaining(); !running {
		return ErrNoTimerExists
	}
	ex.write("states.timerRemainingSec", noTimerSentinel)
	ex.echo("timerRemainingSec", 0)
	ex.notify("timerRemainingSec", 0)
	return nil
}

func (d *Dispatcher) handleRotateAbsolute(ex *execution) error {
	if percent, ok := asFloat(ex.params["rotationPercent"]); ok {
		ex.setState("rotationPercent", percent)
		ex.notify("rotationPercent", percent)
		return nil
	}
	if degrees, ok := asFloat(ex.params["rotationDegrees"]); ok {
		ex.setState("rotationDegrees", degrees)
		ex.notify("rotationDegrees", degrees)
		return nil
	}
	return missingParam("rotationPercent or rotationDegrees")
}

// handleOpenClose devices with an openDirection attribute track one
// openState entry per direction; others carry a single openPercent.
func (d *Dispatcher) handleOpenClose(ex *execution) error {
	openPercent, ok := asFloat(ex.params["openPercent"])
	if !ok {
		return missingParam("openPercent")
	}

	if ex.attr("openDirection") == nil {
		ex.setState("openPercent", openPercent)
		ex.notify("openPercent", openPercent)
		return nil
	}

	direction, ok := asString(ex.params["openDirection"])
	if !ok {
		return missingParam("openDirection")
	}

	openState, ok := ex.state("openState").([]any)
	if !ok {
		return ErrNotSupported
	}
	for _, entry := range openState {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if dir, _ := asString(m["openDirection"]); dir == direction {
			m["openPercent"] = openPercent
		}
	}

	ex.setState("openState", openState)
	ex.notify("openState", openState)
	return nil
}

// handleLocate persists the alert but only reports generatedAlert:
// whether the locate was silent is the device's business.
func (d *Dispatcher) handleLocate(ex *execution) error {
	silent, _ := asBool(ex.params["silent"])
	ex.write("states.silent", silent)
	ex.setState("generatedAlert", true)
	ex.notify("generatedAlert", true)
	return nil
}

// handleActivateScene records the request direction; scenes are
// stateless so nothing is reported back.
func (d *Dispatcher) handleActivateScene(ex *execution) error {
	deactivate, _ := asBool(ex.params["deactivate"])
	ex.write("states.deactivate", deactivate)
	return nil
}

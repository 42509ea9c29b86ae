package engine

// Handlers for power, lighting, and device lifecycle commands.

func (d *Dispatcher) handleOnOff(ex *execution) error {
	on, ok := asBool(ex.params["on"])
	if !ok {
		return missingParam("on")
	}
	ex.setState("on", on)
	ex.notify("on", on)
	return nil
}

func (d *Dispatcher) handleBrightnessAbsolute(ex *execution) error {
	brightness, ok := asInt(ex.params["brightness"])
	if !ok {
		return missingParam("brightness")
	}
	ex.setState("brightness", brightness)
	ex.notify("brightness", brightness)
	return nil
}

// handleColorAbsolute applies the first recognised color format, in
// fixed precedence: spectrumRGB, then spectrumHSV, then temperature.
// A color object carrying none of the three is not supported.
func (d *Dispatcher) handleColorAbsolute(ex *execution) error {
	color, ok := ex.params["color"].(map[string]any)
	if !ok {
		return missingParam("color")
	}

	switch {
	case color["spectrumRGB"] != nil:
		rgb, ok := asInt(color["spectrumRGB"])
		if !ok {
			return missingParam("color.spectrumRGB")
		}
		ex.write("states.color.spectrumRgb", rgb)
		ex.echo("color", map[string]any{"spectrumRgb": rgb})
		ex.notify("spectrumRgb", rgb)

	case color["spectrumHSV"] != nil:
		hsv, ok := color["spectrumHSV"].(map[string]any)
		if !ok {
			return missingParam("color.spectrumHSV")
		}
		ex.write("states.color.spectrumHsv", hsv)
		ex.echo("color", map[string]any{"spectrumHsv": hsv})
		ex.notify("spectrumHsv", hsv)

	case color["temperature"] != nil:
		kelvin, ok := asInt(color["temperature"])
		if !ok {
			return missingParam("color.temperature")
		}
		ex.write("states.color.temperatureK", kelvin)
		ex.echo("color", map[string]any{"temperatureK": kelvin})
		ex.notify("temperatureK", kelvin)

	default:
		return ErrNotSupported
	}
	return nil
}

// handleReboot marks the device offline; the agent flips it back when
// the device reconnects. No notification: the reboot itself takes the
// agent's connection down.
func (d *Dispatcher) handleReboot(ex *execution) error {
	ex.setState("online", false)
	return nil
}

func (d *Dispatcher) handleSoftwareUpdate(ex *execution) error {
	ex.setState("online", false)
	ex.setState("lastSoftwareUpdateUnixTimestampSec", d.now().Unix())
	return nil
}

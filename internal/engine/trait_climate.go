package engine

// Handlers for climate, fan, and humidity commands.
//
// Thermostat handlers echo the device's ambient readings and mode
// alongside the written setpoints so the caller sees a coherent
// climate snapshot without a second read.

func (d *Dispatcher) handleSetHumidity(ex *execution) error {
	humidity, ok := asInt(ex.params["humiditySetpointPercent"])
	if !ok {
		return missingParam("humiditySetpointPercent")
	}
	ex.setState("humiditySetpointPercent", humidity)
	ex.notify("humiditySetpointPercent", humidity)
	return nil
}

func (d *Dispatcher) handleSetTemperature(ex *execution) error {
	temperature, ok := asFloat(ex.params["temperature"])
	if !ok {
		return missingParam("temperature")
	}
	ex.setState("temperatureSetpointCelsius", temperature)
	ex.echoState("temperatureAmbientCelsius")
	ex.notify("temperatureSetpointCelsius", temperature)
	return nil
}

func (d *Dispatcher) handleThermostatTemperatureSetpoint(ex *execution) error {
	setpoint, ok := asFloat(ex.params["thermostatTemperatureSetpoint"])
	if !ok {
		return missingParam("thermostatTemperatureSetpoint")
	}
	ex.setState("thermostatTemperatureSetpoint", setpoint)
	ex.echoState("thermostatMode")
	ex.echoState("thermostatTemperatureAmbient")
	ex.echoState("thermostatHumidityAmbient")
	ex.notify("thermostatTemperatureSetpoint", setpoint)
	return nil
}

func (d *Dispatcher) handleThermostatTemperatureSetRange(ex *execution) error {
	low, okLow := asFloat(ex.params["thermostatTemperatureSetpointLow"])
	high, okHigh := asFloat(ex.params["thermostatTemperatureSetpointHigh"])
	if !okLow || !okHigh {
		return missingParam("thermostatTemperatureSetpointLow/High")
	}
	ex.setState("thermostatTemperatureSetpointLow", low)
	ex.setState("thermostatTemperatureSetpointHigh", high)
	ex.echoState("thermostatTemperatureSetpoint")
	ex.echoState("thermostatMode")
	ex.echoState("thermostatTemperatureAmbient")
	ex.echoState("thermostatHumidityAmbient")
	ex.notify("thermostatTemperatureSetpointLow", low)
	ex.notify("thermostatTemperatureSetpointHigh", high)
	return nil
}

func (d *Dispatcher) handleThermostatSetMode(ex *execution) error {
	mode, ok := asString(ex.params["thermostatMode"])
	if !ok {
		return missingParam("thermostatMode")
	}
	ex.setState("thermostatMode", mode)
	ex.echoState("thermostatTemperatureSetpoint")
	ex.echoState("thermostatTemperatureAmbient")
	ex.echoState("thermostatHumidityAmbient")
	ex.notify("thermostatMode", mode)
	return nil
}

func (d *Dispatcher) handleSetFanSpeed(ex *execution) error {
	speed, ok := asString(ex.params["fanSpeed"])
	if !ok {
		return missingParam("fanSpeed")
	}
	ex.setState("currentFanSpeedSetting", speed)
	ex.notify("currentFanSpeedSetting", speed)
	return nil
}

func (d *Dispatcher) handleReverse(ex *execution) error {
	ex.setState("currentFanSpeedReverse", true)
	ex.notify("currentFanSpeedReverse", true)
	return nil
}

package engine

// JSON decoding yields float64 for every number, but trait semantics
// distinguish integer state (brightness, volume) from fractional state
// (temperatures). These helpers coerce decoded parameter values without
// caring which concrete numeric type the caller handed in.

// asBool extracts a boolean parameter value.
func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// asString extracts a string parameter value.
func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asFloat extracts a numeric parameter value as float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// asInt extracts a numeric parameter value as int, truncating any
// fractional part.
func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

package directory

import "strings"

// deleteMarker is the type of the Delete sentinel.
type deleteMarker struct{}

// Delete is a sentinel value for UpdateFields: assigning it to a path
// removes that field instead of writing a value.
//
//	dir.UpdateFields(ctx, userID, deviceID, map[string]any{
//	    "states.timerRemainingSec": directory.Delete,
//	})
var Delete any = deleteMarker{}

// setPath writes value at the dotted path within m, creating
// intermediate maps as needed. An intermediate that exists but is not
// a map is replaced.
func setPath(m map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := m[part].(map[string]any)
		if !ok {
			child = make(map[string]any)
			m[part] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
}

// deletePath removes the field at the dotted path within m. Missing
// intermediates make this a no-op.
func deletePath(m map[string]any, path string) {
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := m[part].(map[string]any)
		if !ok {
			return
		}
		m = child
	}
	delete(m, parts[len(parts)-1])
}

// splitPath separates a dotted path into its first segment and the rest.
// "states.color.spectrumRgb" -> ("states", "color.spectrumRgb").
func splitPath(path string) (head, rest string) {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

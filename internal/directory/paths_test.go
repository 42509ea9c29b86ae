package directory

import (
	"reflect"
	"testing"
)

func TestSetPath(t *testing.T) {
	tests := []struct {
		name  string
		start map[string]any
		path  string
		value any
		want  map[string]any
	}{
		{
			name:  "top level key",
			start: map[string]any{},
			path:  "on",
			value: true,
			want:  map[string]any{"on": true},
		},
		{
			name:  "nested key creates intermediate map",
			start: map[string]any{},
			path:  "color.spectrumRgb",
			value: 16711680,
			want:  map[string]any{"color": map[string]any{"spectrumRgb": 16711680}},
		},
		{
			name:  "nested key preserves siblings",
			start: map[string]any{"color": map[string]any{"spectrumHsv": "x"}},
			path:  "color.spectrumRgb",
			value: 255,
			want:  map[string]any{"color": map[string]any{"spectrumHsv": "x", "spectrumRgb": 255}},
		},
		{
			name:  "non-map intermediate is replaced",
			start: map[string]any{"color": "red"},
			path:  "color.spectrumRgb",
			value: 255,
			want:  map[string]any{"color": map[string]any{"spectrumRgb": 255}},
		},
		{
			name:  "overwrite existing value",
			start: map[string]any{"brightness": 10},
			path:  "brightness",
			value: 65,
			want:  map[string]any{"brightness": 65},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setPath(tt.start, tt.path, tt.value)
			if !reflect.DeepEqual(tt.start, tt.want) {
				t.Errorf("setPath() result = %v, want %v", tt.start, tt.want)
			}
		})
	}
}

func TestDeletePath(t *testing.T) {
	tests := []struct {
		name  string
		start map[string]any
		path  string
		want  map[string]any
	}{
		{
			name:  "top level key",
			start: map[string]any{"on": true, "brightness": 65},
			path:  "on",
			want:  map[string]any{"brightness": 65},
		},
		{
			name:  "nested key",
			start: map[string]any{"color": map[string]any{"spectrumRgb": 255, "spectrumHsv": "x"}},
			path:  "color.spectrumRgb",
			want:  map[string]any{"color": map[string]any{"spectrumHsv": "x"}},
		},
		{
			name:  "missing key is a no-op",
			start: map[string]any{"on": true},
			path:  "brightness",
			want:  map[string]any{"on": true},
		},
		{
			name:  "missing intermediate is a no-op",
			start: map[string]any{"on": true},
			path:  "color.spectrumRgb",
			want:  map[string]any{"on": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deletePath(tt.start, tt.path)
			if !reflect.DeepEqual(tt.start, tt.want) {
				t.Errorf("deletePath() result = %v, want %v", tt.start, tt.want)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path     string
		wantHead string
		wantRest string
	}{
		{"states.on", "states", "on"},
		{"states.color.spectrumRgb", "states", "color.spectrumRgb"},
		{"name", "name", ""},
	}

	for _, tt := range tests {
		head, rest := splitPath(tt.path)
		if head != tt.wantHead || rest != tt.wantRest {
			t.Errorf("splitPath(%q) = (%q, %q), want (%q, %q)",
				tt.path, head, rest, tt.wantHead, tt.wantRest)
		}
	}
}

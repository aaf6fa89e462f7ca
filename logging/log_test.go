package logging

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T, level LogLevel, categories LogCategory) *bytes.Buffer {
	t.Helper()
	previousLevel, previousCategories, previousOutput := Level, Categories, Output
	t.Cleanup(func() {
		Level, Categories, Output = previousLevel, previousCategories, previousOutput
	})

	var buf bytes.Buffer
	Level, Categories, Output = level, categories, &buf
	return &buf
}

func TestLevelMask(t *testing.T) {
	tests := []struct {
		name    string
		level   LogLevel
		log     func(format string, args ...any)
		printed bool
	}{
		{"errors only drops debug", LevelError, MeshDebug, false},
		{"errors only keeps errors", LevelError, MeshError, true},
		{"errors only drops warnings", LevelError, GJKWarning, false},
		{"debug alone drops errors", LevelDebug, MeshError, false},
		{"debug alone keeps debug", LevelDebug, EPADebug, true},
		{"warning and debug", LevelWarning | LevelDebug, EPAWarning, true},
		{"everything", LevelError | LevelWarning | LevelInfo | LevelDebug, GJKDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.level, CategoryGJK|CategoryEPA|CategoryMesh)
			tt.log("value %d", 42)
			if printed := buf.Len() > 0; printed != tt.printed {
				t.Errorf("printed = %v, want %v (output %q)", printed, tt.printed, buf.String())
			}
		})
	}
}

func TestCategoryMask(t *testing.T) {
	buf := capture(t, LevelWarning, CategoryEPA)

	GJKWarning("hidden")
	if buf.Len() != 0 {
		t.Errorf("gjk line printed with only epa enabled: %q", buf.String())
	}

	EPAWarning("depth %g", 0.5)
	if got := buf.String(); !strings.Contains(got, "[WARN] epa: depth 0.5") {
		t.Errorf("output = %q, want the epa warning", got)
	}
}

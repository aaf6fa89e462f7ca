// Package logging is a minimal level and category gated logger for debug traces of
// the proximity queries. It is silent except for errors unless Level is raised.
package logging

import (
	"fmt"
	"io"
	"os"
)

type LogLevel int

const (
	LevelError LogLevel = 1 << iota
	LevelWarning
	LevelInfo
	LevelDebug
)

type LogCategory int

const (
	CategoryGJK LogCategory = 1 << iota
	CategoryEPA
	CategoryMesh
)

// Level and Categories are masks: a line is printed when both its level and its
// category bits are set.
var (
	Level      = LevelError
	Categories = CategoryGJK | CategoryEPA | CategoryMesh
	Output     io.Writer = os.Stderr
)

var levelNames = map[LogLevel]string{
	LevelError:   "ERROR",
	LevelWarning: "WARN",
	LevelInfo:    "INFO",
	LevelDebug:   "DEBUG",
}

var categoryNames = map[LogCategory]string{
	CategoryGJK:  "gjk",
	CategoryEPA:  "epa",
	CategoryMesh: "mesh",
}

func log(cat LogCategory, lvl LogLevel, format string, args ...any) {
	if Level&lvl == 0 {
		return
	}
	if Categories&cat == 0 {
		return
	}
	fmt.Fprintf(Output, "[%s] %s: %s\n", levelNames[lvl], categoryNames[cat], fmt.Sprintf(format, args...))
}

func GJKDebug(format string, args ...any) {
	log(CategoryGJK, LevelDebug, format, args...)
}

func GJKWarning(format string, args ...any) {
	log(CategoryGJK, LevelWarning, format, args...)
}

func EPADebug(format string, args ...any) {
	log(CategoryEPA, LevelDebug, format, args...)
}

func EPAWarning(format string, args ...any) {
	log(CategoryEPA, LevelWarning, format, args...)
}

func MeshDebug(format string, args ...any) {
	log(CategoryMesh, LevelDebug, format, args...)
}

func MeshError(format string, args ...any) {
	log(CategoryMesh, LevelError, format, args...)
}

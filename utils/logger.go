// Package utils provides utility functions for the application.
package utils

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogRotationSettings controls size-based rotation for file log output
type LogRotationSettings struct {
	FilePath   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// ConfigureLogOutput wires the standard logger to stdout, a rotating file,
// or both, depending on the configured output mode.
func ConfigureLogOutput(output string, rotation LogRotationSettings) {
	switch output {
	case "file":
		log.SetOutput(newRotatingWriter(rotation))
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, newRotatingWriter(rotation)))
	default:
		log.SetOutput(os.Stdout)
	}
}

func newRotatingWriter(rotation LogRotationSettings) io.Writer {
	return &lumberjack.Logger{
		Filename:   rotation.FilePath,
		MaxSize:    rotation.MaxSize,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAge,
		Compress:   rotation.Compress,
	}
}

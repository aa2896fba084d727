package logger

import (
	"log"
	"os"
	"strings"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var currentLevel = parseLevel(os.Getenv("LOG_LEVEL"))

func parseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func logf(lvl Level, prefix, format string, args ...interface{}) {
	if currentLevel <= lvl {
		log.Printf(prefix+format, args...)
	}
}

func Debug(format string, args ...interface{}) {
	logf(DebugLevel, "[DEBUG] ", format, args...)
}

func Info(format string, args ...interface{}) {
	logf(InfoLevel, "[INFO] ", format, args...)
}

func Warn(format string, args ...interface{}) {
	logf(WarnLevel, "[WARN] ", format, args...)
}

func Error(format string, args ...interface{}) {
	logf(ErrorLevel, "[ERROR] ", format, args...)
}

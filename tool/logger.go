package tool

import (
	"github.com/charmbracelet/log"
)

// DefaultLogger is the process-wide logger shared by every relay layer.
var DefaultLogger = log.Default()

// InitLogger applies the relay's log shape: wall-clock timestamps and caller
// reporting, so stream and collaborator errors name their origin.
func InitLogger() {
	DefaultLogger.SetTimeFormat("2006-01-02 15:04:05")
	DefaultLogger.SetReportCaller(true)
}

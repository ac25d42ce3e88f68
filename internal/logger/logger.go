package logger

import (
	"log"
	"os"
)

// DebugLog prints pipeline diagnostics when DEBUG=1 is set. Normal runs
// stay quiet so the CLI output is readable by non-developers.
func DebugLog(format string, args ...any) {
	if os.Getenv("DEBUG") == "1" {
		log.Printf("[DEBUG] "+format, args...)
	}
}

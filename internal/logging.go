// Package internal holds shared setup helpers for the collector binaries.
package internal

import (
	"log"
	"os"
)

// InitLogging routes operational logs to stdout with timestamps precise
// enough to correlate batches with raw snapshots on disk.
func InitLogging() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

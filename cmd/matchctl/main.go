// Command matchctl is the operator CLI: schema migrations and local test tokens.
package main

import (
	"os"

	"jobmatch-backend/internal/shared/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		telemetry.Error("matchctl.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

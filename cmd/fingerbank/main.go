package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vulntor/fingerbank/cmd/fingerbank/commands"
)

// main runs the fingerbank CLI and exits with the code chosen by
// commands.Execute.
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Invalid usage (missing or conflicting catalog source)
//   - 3: Malformed catalog (grammar, record or range overlap errors)
//   - 4: Not found (no exact match, unknown entry, class or vendor)
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

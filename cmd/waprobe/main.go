// Package main is the waprobe command: it checks which phone numbers from a
// list have a WhatsApp account by driving WhatsApp Web in a real browser.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/waprobe/cmd/waprobe/commands"
	"github.com/entrhq/waprobe/pkg/logging"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n\nShutting down gracefully...")
		cancel()
	}()

	err := commands.Execute(ctx)
	cancel()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

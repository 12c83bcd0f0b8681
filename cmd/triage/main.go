package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/synaptica-ai/triage/pkg/common/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		logger.Log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

// run executes the CLI with ctx as the context of every command, so an
// interrupt aborts in-flight fetches and retry backoffs.
func run(ctx context.Context, args []string, out io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

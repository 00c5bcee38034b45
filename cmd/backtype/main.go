package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/backtype-go/internal/cli"
	"github.com/samvad-hq/backtype-go/pkg/backtype"
)

func main() {
	if err := run(); err != nil {
		if code, ok := backtype.StatusCode(err); ok {
			fmt.Fprintf(os.Stderr, "backtype: HTTP %d\n", code)
		}
		fmt.Fprintf(os.Stderr, "backtype: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd().ExecuteContext(ctx)
}

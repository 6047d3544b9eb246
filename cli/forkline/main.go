package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	forklinecmder "github.com/forkline/forkline/cmd/forkline"
	"github.com/forkline/forkline/pkg/cliui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := forklinecmder.NewForklineCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cliui.NewWriter(os.Stderr), "\n  %s %v\n\n", cliui.FailMark, err)
		stop()
		os.Exit(1)
	}
}

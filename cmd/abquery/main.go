package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/wongpratan/abquery/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		// Commands report their own failures; only bare errors need printing.
		if cli.GetErrorCode(err) == cli.ErrCodeGeneric {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}

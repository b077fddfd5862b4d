package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dcos/dcos-package/cmd/dcos-package/deps"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context) int {
	container, err := deps.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var rootCmd *cobra.Command
	if err := container.Invoke(func(cmd *cobra.Command) { rootCmd = cmd }); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetsheet/internal/cli"
	apperrors "github.com/matzehuels/magnetsheet/pkg/errors"
)

// Exit codes.
const (
	exitError    = 1
	exitRejected = 2   // the order itself is invalid
	exitSignal   = 130 // interrupted (SIGINT)
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(report(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// report prints err and returns the process exit code.
func report(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitSignal
	}
	code := apperrors.GetCode(err)
	if code == "" {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", code, apperrors.UserMessage(err))
	switch code {
	case apperrors.ErrCodeInvalidOrder, apperrors.ErrCodeInvalidQuantity, apperrors.ErrCodeQuantityMismatch,
		apperrors.ErrCodeTooManyPhotos, apperrors.ErrCodeInvalidOrderFile:
		return exitRejected
	}
	return exitError
}

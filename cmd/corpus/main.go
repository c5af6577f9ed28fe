// Command corpus checks classifier corpus files and previews predictions
// without a database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tripbudget/internal/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect the expense category corpus",
		Long: `corpus validates keyword corpus files used to train the expense
category classifier and previews which category a description would get.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("file", "f", "", "corpus TOML file (default: built-in corpus)")
	root.PersistentFlags().StringP("method", "m", "bayes", "classification method (bayes, keyword)")

	root.AddCommand(checkCmd())
	root.AddCommand(predictCmd())
	return root
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

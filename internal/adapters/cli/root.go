package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "polisbot",
		Short: "Polisbot - automated unit recruitment for your cities",
		Long: `Polisbot plans and executes troop and ship recruitment across all of
your cities, splitting an order proportionally to each building's speed
and feeding partial batches as resources allow.

Examples:
  polisbot recruit
  polisbot recruit --ships
  polisbot recruit --background
  polisbot recruit --exclude 117344 --exclude 120051`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: config.yaml in ., ./configs, /etc/polisbot)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewRecruitCommand())

	return rootCmd
}

// Execute runs the root command. Interrupts cancel the context so a
// running recruitment loop stops at its next suspension point and still
// logs out.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

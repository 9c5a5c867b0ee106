package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shortalex12333/Cloud-PMS-sub020/cmd/lanectl/commands"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/observability/logging"
)

var (
	// Version information (set by build flags)
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	if _, err := logging.InitLoggerFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
	}

	rootCmd := &cobra.Command{
		Use:   "lanectl",
		Short: "Fleet query lane router control CLI",
		Long: `lanectl is a command-line tool for the fleet query lane router.

It classifies queries offline, exactly as the API server would, and
validates router configuration files.

Common workflows:
  lanectl classify "create work order for bilge pump"
  lanectl config validate -c config.yaml`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file")

	rootCmd.AddCommand(commands.NewClassifyCmd())
	rootCmd.AddCommand(commands.NewConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

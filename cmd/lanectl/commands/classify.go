package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/config"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/services"
)

// NewClassifyCmd classifies one query from the command line and prints the
// result as JSON, using the same pipeline the API server runs.
func NewClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <query>",
		Short: "Classify a query and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigFlag(cmd)
			if err != nil {
				return err
			}

			svc, err := services.NewClassificationService(cfg)
			if err != nil {
				return fmt.Errorf("failed to build classification service: %w", err)
			}

			result := svc.Classify(args[0])

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}
}

func loadConfigFlag(cmd *cobra.Command) (*config.RouterConfig, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

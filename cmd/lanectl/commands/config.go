package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/config"
)

// NewConfigCmd groups configuration subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	configCmd.AddCommand(newConfigValidateCmd())
	return configCmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a router configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if path == "" {
				return fmt.Errorf("no config file given; use --config")
			}

			cfg, err := config.Parse(path)
			if err != nil {
				return err
			}

			fmt.Printf("Config %s is valid: extra_signatures=%d, extra_phrases=%d, extra_aliases=%d\n",
				path,
				len(cfg.Tables.ExtraInjectionSignatures),
				len(cfg.Tables.ExtraNonDomainPhrases),
				len(cfg.Tables.ExtraEquipmentAliases))
			return nil
		},
	}
}

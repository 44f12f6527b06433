package main

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/props/internal/config"
	"github.com/vango-dev/props/internal/errors"
)

func configCmd(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create " + config.ConfigFileName,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to " + config.ConfigFileName,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			if config.Exists(dir) && !force {
				return errors.New("C003").
					WithDetail(config.ConfigFileName + " already exists in " + dir).
					WithSuggestion("Use --force to overwrite it")
			}
			path := filepath.Join(dir, config.ConfigFileName)
			if err := cfg().SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg())
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/props/internal/errors"
)

func codesCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "codes [code]",
		Short: "List error codes",
		Long: `List every error code, or explain a single one.

Examples:
  props codes
  props codes --category=scenario
  props codes P010`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				code := strings.ToUpper(args[0])
				if _, ok := errors.GetTemplate(code); !ok {
					return errors.New("X001").WithDetailf("unknown error code %q", args[0])
				}
				fmt.Fprintln(out, errors.New(code).Format())
				return nil
			}

			for _, code := range errors.GetAllCodes() {
				t, _ := errors.GetTemplate(code)
				if category != "" && string(t.Category) != category {
					continue
				}
				fmt.Fprintf(out, "%s  %-12s %s\n", code, t.Category, t.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list codes of this category")

	return cmd
}

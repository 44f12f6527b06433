package main

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/props/internal/config"
	"github.com/vango-dev/props/internal/errors"
	"github.com/vango-dev/props/internal/scenario"
)

func runCmd(cfg func() *config.Config) *cobra.Command {
	var (
		quiet  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scenario and print its events",
		Long: `Execute a scenario file and print every change event it produced.

The command fails if a step is invalid, an expectation does not
hold, or a list's recorded events do not replay to its content.

Examples:
  props run form.yaml
  props run --quiet form.yaml
  props run --json form.yaml`,
		Args: requireArgs(1, "scenario file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}

			r := scenario.NewRunner(
				scenario.WithLogger(slog.Default().With("component", "scenario")),
				scenario.WithMaxDepth(cfg().Binding.MaxDepth),
			)
			defer r.Close()

			report, runErr := r.Run(s)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(struct {
					*scenario.Report
					Failures []string       `json:"failures,omitempty"`
					State    map[string]any `json:"state"`
				}{report, failureStrings(report), r.State()}); err != nil {
					return err
				}
				return runErr
			}

			if !quiet {
				for _, e := range report.Events {
					info(out, "%s", e)
				}
			}
			for _, f := range report.Failures {
				errorMsg(out, "%s", f)
			}
			if runErr != nil {
				return runErr
			}
			success(out, "%s: %d steps, %d expectations, %d events",
				report.Name, report.Steps, report.Expectations, len(report.Events))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the summary")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report and final state as JSON")

	return cmd
}

// requireArgs is cobra.ExactArgs with a props error.
func requireArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.New("X001").
				WithDetailf("%s expects %d argument(s) (%s), got %d", cmd.Name(), n, what, len(args)).
				WithExample(cmd.UseLine())
		}
		return nil
	}
}

func failureStrings(report *scenario.Report) []string {
	out := make([]string, len(report.Failures))
	for i, f := range report.Failures {
		out[i] = f.Error()
	}
	return out
}

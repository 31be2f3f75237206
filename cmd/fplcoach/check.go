package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	"github.com/preston-bernstein/fpl-coach-service/internal/squadfile"
)

var errIllegalSquad = errors.New("squad is not legal")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Replay a YAML or JSON squad file through the squad rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := squadfile.Load(args[0])
			if err != nil {
				return err
			}
			cfg, logger, err := loadEnv()
			if err != nil {
				return err
			}
			r, err := fetchRoster(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			report := squadfile.Check(f, r.Players, squad.DefaultRules())
			printReport(cmd.OutOrStdout(), report)
			if !report.Legal() {
				return errIllegalSquad
			}
			return nil
		},
	}
}

func printReport(w io.Writer, report squadfile.Report) {
	name := report.Name
	if name == "" {
		name = "squad"
	}
	fmt.Fprintf(w, "%s: %d players, cost %.1f, remaining %.1f\n",
		name, report.Metrics.Size, report.Metrics.TotalCost, report.Metrics.RemainingBudget)
	for _, issue := range report.Issues {
		fmt.Fprintf(w, "  rejected %d (%s): %s\n", issue.PlayerID, issue.Kind, issue.Message)
	}
	if !report.Metrics.Complete {
		fmt.Fprintln(w, "  incomplete")
	}
}

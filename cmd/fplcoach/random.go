package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/fpl-coach-service/internal/app/squads"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	"github.com/preston-bernstein/fpl-coach-service/internal/optimizer"
	"github.com/preston-bernstein/fpl-coach-service/internal/store"
)

func newRandomCmd() *cobra.Command {
	var ai bool
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print a random legal squad as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnv()
			if err != nil {
				return err
			}
			r, err := fetchRoster(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			ms := store.NewMemoryStore()
			ms.SetRoster(r)
			gen := squads.NewGenerator(ms, nil, squad.DefaultRules(), optimizer.GeneticConfig{
				Population:   cfg.Optimizer.Population,
				Generations:  cfg.Optimizer.Generations,
				MutationRate: cfg.Optimizer.MutationRate,
				Elitism:      cfg.Optimizer.Elitism,
			}, nil)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if ai {
				out, err := gen.AISquad(cmd.Context())
				if err != nil {
					return err
				}
				return enc.Encode(out)
			}
			sq, err := gen.RandomSquad(cmd.Context())
			if err != nil {
				return err
			}
			return enc.Encode(sq)
		},
	}
	cmd.Flags().BoolVar(&ai, "ai", false, "run the genetic optimiser instead of random sampling")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/gemfall/internal/api/handler"
	"github.com/mcoot/gemfall/internal/api/request"
	"github.com/mcoot/gemfall/internal/model"
)

func newSimulateCmd() *cobra.Command {
	var req request.CreateSimulationRequest

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play headless games with an AI profile",
		Long: `Play seeded headless games and record the results.

The same seed, profile and field size always produce the same game. With
--count above one the games run concurrently and a given seed is suffixed
with the game number.`,
		Example: `  gemfall simulate --profile hard --seed demo
  gemfall simulate --profile normal --count 20 --pieces 200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Count < 1 || req.Count > handler.MaxBatch {
				return fmt.Errorf("count must be between 1 and %d", handler.MaxBatch)
			}

			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()

			sims, err := b.Simulate(cmd.Context(), req)
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(sims)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Profile, "profile", "p", model.ProfileNormal, "AI profile to play")
	cmd.Flags().StringVar(&req.Seed, "seed", "", "Seed for the piece sequence; random when empty")
	cmd.Flags().IntVar(&req.Pieces, "pieces", model.DefaultPieces, "Pieces to play before stopping")
	cmd.Flags().IntVar(&req.Width, "width", model.DefaultWidth, "Field width")
	cmd.Flags().IntVar(&req.Height, "height", model.DefaultHeight, "Field height")
	cmd.Flags().IntVarP(&req.Count, "count", "n", 1, "Number of games")

	return cmd
}

func newSimulationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulations",
		Short: "List recorded simulations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()

			sims, err := b.Simulations(cmd.Context())
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(sims)
			return nil
		},
	}
}

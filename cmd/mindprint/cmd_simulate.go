package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"mindprint/internal/catalog"
	"mindprint/internal/config"
	"mindprint/internal/engine"
	"mindprint/internal/profile"
	"mindprint/internal/session"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a full synthetic session against the engine",
		Long: `Simulate drives an in-memory session with randomly picked options
until the selector stops, then prints the final ranking. The seed makes
runs reproducible.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			seed, _ := cmd.Flags().GetInt64("seed")
			topN, _ := cmd.Flags().GetInt("top")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.Catalog.Path)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			candidates, err := profile.Load(cfg.Profiles.Path)
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}

			eng, err := engine.New(engine.Options{
				Catalog:    cat,
				Candidates: candidates,
				Store:      session.NewMemoryStore(),
				Selector:   cfg.Selector,
				Retrieval:  cfg.Retrieval,
				Weights:    cfg.Weights,
			})
			if err != nil {
				return fmt.Errorf("build engine: %w", err)
			}

			st, err := eng.InitSession("")
			if err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seed))

			fmt.Printf("session %s (seed %d)\n", st.ID, seed)
			for {
				next, err := eng.NextQuestion(st.ID)
				if err != nil {
					return err
				}
				if next.Done {
					fmt.Printf("stopped after %d answers: %s\n", next.Step, next.Reason)
					break
				}

				opt := next.Question.Options[rng.Intn(len(next.Question.Options))]
				res, err := eng.ProcessAnswer(st.ID, next.Question.ID, opt.ID)
				if err != nil {
					return err
				}
				fmt.Printf("  step %2d  [%-12s] %-18s -> %-10s confidence=%.4f\n",
					res.Step, next.Phase, next.Question.ID, opt.ID, res.Confidence)
			}

			rec, err := eng.FinishSession(st.ID)
			if err != nil {
				return err
			}

			fmt.Printf("archetype: %s (confidence %.4f)\n", rec.Archetypes.PrimaryName(), rec.Confidence)
			fmt.Println("attribute targets:")
			for _, a := range rec.Attributes {
				fmt.Printf("  %-12s target=%.2f uncertainty=%.3f\n", a.Name, a.Target, a.Uncertainty)
			}

			if topN > len(rec.Results) {
				topN = len(rec.Results)
			}
			fmt.Printf("top %d of %d candidates:\n", topN, len(rec.Results))
			for i := 0; i < topN; i++ {
				r := rec.Results[i]
				fmt.Printf("  %2d. %-14s score=%.4f  %s\n", i+1, r.Name, r.FinalScore, r.Explanation)
			}
			return nil
		},
	}

	cmd.Flags().Int64("seed", 1, "Random seed for option choices")
	cmd.Flags().Int("top", 5, "Number of ranked candidates to print")
	return cmd
}

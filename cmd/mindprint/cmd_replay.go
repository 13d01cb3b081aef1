package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mindprint/internal/catalog"
	"mindprint/internal/config"
	"mindprint/internal/replay"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a recorded answer fixture through the belief pipeline",
		Long: `Replay runs a fixture's answers through a fresh belief, validating
every step with the eval harness and checking the fixture's expectations.
Exits non-zero when any expectation fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			fixturePath, _ := cmd.Flags().GetString("fixture")
			verbose, _ := cmd.Flags().GetBool("verbose")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.Catalog.Path)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			fixture, err := replay.LoadFixture(fixturePath)
			if err != nil {
				return err
			}

			replayCfg := replay.DefaultReplayConfig()
			replayCfg.Selector = cfg.Selector

			results, summary, err := replay.Replay(cat, fixture.ToAnswers(), replayCfg)
			if err != nil {
				return err
			}

			fmt.Printf("fixture: %s\n", fixture.Description)
			if verbose {
				for _, r := range results {
					fmt.Printf("  step %2d  %-18s %-10s %-11s confidence=%.4f entropy=%.4f\n",
						r.Step, r.QuestionID, r.OptionID, r.Action, r.Confidence, r.Entropy)
				}
			}
			fmt.Printf("steps: %d (%d evidence, %d dealbreaker, %d eval failures)\n",
				summary.TotalSteps, summary.EvidenceSteps, summary.DealbreakerSteps, summary.EvalFailures)
			fmt.Printf("final: confidence=%.4f archetype=%s selector_done=%v\n",
				summary.FinalConfidence, summary.PrimaryArchetype, summary.SelectorDone)

			if mismatches := fixture.Check(results, summary); len(mismatches) > 0 {
				for _, m := range mismatches {
					fmt.Printf("MISMATCH: %s\n", m)
				}
				return fmt.Errorf("%d expectation(s) failed", len(mismatches))
			}
			fmt.Println("all expectations met")
			return nil
		},
	}

	cmd.Flags().String("fixture", "", "Path to fixture JSON file")
	_ = cmd.MarkFlagRequired("fixture")
	cmd.Flags().Bool("verbose", false, "Print every replayed step")
	return cmd
}

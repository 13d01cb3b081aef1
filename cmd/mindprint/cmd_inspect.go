package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mindprint/internal/belief"
	"mindprint/internal/config"
	"mindprint/internal/gate"
	"mindprint/internal/logging"
	"mindprint/internal/session"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect a stored session's version history and audit trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			sessionID, _ := cmd.Flags().GetString("session")
			dbPath, _ := cmd.Flags().GetString("db")
			limit, _ := cmd.Flags().GetInt("limit")
			traits, _ := cmd.Flags().GetBool("traits")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.Database.Path
			}

			store, err := session.NewSQLiteStore(dbPath)
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			defer store.Close()

			versions, err := store.ListVersions(sessionID, limit)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				return fmt.Errorf("session %q has no stored versions", sessionID)
			}

			fmt.Printf("session %s: %d version(s)\n", sessionID, len(versions))
			for _, v := range versions {
				fmt.Printf("  step %2d  version=%s  answers=%d  confidence=%.4f  updated=%s\n",
					v.Step, v.VersionID, len(v.Answers), v.Belief.Confidence(),
					v.UpdatedAt.Format("2006-01-02T15:04:05Z"))
			}

			latest := versions[len(versions)-1]
			if latest.Dealbreakers != (gate.Record{}) {
				fmt.Printf("dealbreakers: %+v\n", latest.Dealbreakers)
			}

			if traits {
				fmt.Println("traits (latest version):")
				for i, name := range belief.TraitNames {
					fmt.Printf("  %-22s mu=%.4f sigma=%.4f\n", name, latest.Belief.Mu[i], latest.Belief.Sigma[i])
				}
			}

			auditor, err := logging.NewAuditor(store.DB())
			if err != nil {
				return err
			}
			trail, err := auditor.Trail(sessionID)
			if err != nil {
				return err
			}
			if len(trail) > 0 {
				fmt.Println("audit trail:")
				for _, e := range trail {
					fmt.Printf("  step %2d  %-18s %-10s phase=%-13s confidence=%.4f\n",
						e.Step, e.QuestionID, e.OptionID, e.Phase, e.Confidence)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("session", "", "Session id to inspect")
	_ = cmd.MarkFlagRequired("session")
	cmd.Flags().String("db", "", "SQLite path (overrides config)")
	cmd.Flags().Int("limit", 50, "Maximum versions to list")
	cmd.Flags().Bool("traits", false, "Print the full trait vector of the latest version")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/sidgajraj/caseline/internal/config"
	"github.com/sidgajraj/caseline/internal/store"
	"github.com/spf13/cobra"
)

// shortID abbreviates a case id for display. Ids are normally uuids, but
// rows written by other tools may carry shorter ids.
func shortID(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func newCasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Inspect saved cases",
	}

	cmd.AddCommand(newCasesListCmd())
	return cmd
}

func newCasesListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved cases, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				cfg = config.Defaults()
			}

			db, err := store.Open(paths.DatabasePath(cfg.Store), log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			cases, err := store.NewSQLiteCaseStore(db).ListCases(ctx, limit)
			if err != nil {
				return err
			}
			if len(cases) == 0 {
				fmt.Println("no cases saved yet")
				return nil
			}

			for _, c := range cases {
				name := c.Name
				if name == "" {
					name = "(unnamed)"
				}
				date := c.DateOfIncident
				if date == "" {
					date = "(no date)"
				}
				fmt.Printf("%s  %s  %s  %s\n", c.CreatedAt.Format(time.DateOnly), shortID(c.ID), name, date)
				fmt.Printf("    %s\n", c.Description)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of cases to show (default 50)")

	return cmd
}

package cmd

import (
	"github.com/abhisek/prism/internal/docstore"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "Tiered interview that builds your digital twin",
	Long:  "Prism interviews you in tiers, fills a nested preference profile, and turns it into grounded recommendations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PRISM_DB env var)")

	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PRISM_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, docstore.EnsureDir(p)
	}
	return docstore.DefaultDBPath()
}

// openStore resolves the path and opens the document store.
func openStore(cmd *cobra.Command) (*docstore.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return docstore.Open(dbPath)
}

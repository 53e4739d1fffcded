package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/prism/internal/app"
	"github.com/abhisek/prism/internal/llm"
	"github.com/abhisek/prism/internal/recommend"
	"github.com/abhisek/prism/internal/rephrase"
	"github.com/abhisek/prism/internal/websearch"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	opts := app.Options{Store: st}

	provider, err := llm.NewProviderFromEnv(ctx, st)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The interview will use stored question wording; recommendations are unavailable.")
	} else {
		opts.Rephraser = rephrase.NewService(provider, rephrase.DefaultConfig())
		searcher := websearch.NewClient(websearch.DefaultConfig())
		opts.Recommender = recommend.NewService(provider, searcher, recommend.DefaultConfig())
	}

	return app.Run(opts)
}

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Start or resume the tiered interview",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

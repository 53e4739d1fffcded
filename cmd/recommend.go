package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/prism/internal/docstore"
	"github.com/abhisek/prism/internal/llm"
	"github.com/abhisek/prism/internal/recommend"
	"github.com/abhisek/prism/internal/websearch"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <query>",
	Short: "Generate three recommendations grounded in your profile",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := context.Background()
		provider, err := llm.NewProviderFromEnv(ctx, st)
		if err != nil {
			return fmt.Errorf("recommendations need an LLM provider: %w", err)
		}

		profileJSON, err := st.Get(ctx, docstore.UserCollection, docstore.ProfileDocID)
		if errors.Is(err, docstore.ErrNotFound) {
			profileJSON = json.RawMessage("{}")
			fmt.Println("No profile yet; recommendations will be generic. Run the interview first.")
		} else if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}

		searcher := websearch.NewClient(websearch.DefaultConfig())
		svc := recommend.NewService(provider, searcher, recommend.DefaultConfig())

		recs, err := svc.Generate(ctx, profileJSON, query)
		if err != nil {
			return fmt.Errorf("generate recommendations: %w", err)
		}

		for i, r := range recs {
			fmt.Printf("%d. %s\n   %s\n", i+1, r.Title, r.Reason)
		}
		return nil
	},
}

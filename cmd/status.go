package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/prism/internal/docstore"
	"github.com/abhisek/prism/internal/interview"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show interview progress per tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := context.Background()

		fmt.Println("General questions")
		if err := printSetStatus(ctx, st, docstore.GeneralQuestionsDocID); err != nil {
			return err
		}

		for _, cat := range interview.AllCategories() {
			fmt.Println()
			fmt.Println(cat.DisplayName())
			if err := printSetStatus(ctx, st, cat.DocID()); err != nil {
				return err
			}
		}
		return nil
	},
}

func printSetStatus(ctx context.Context, st *docstore.Store, docID string) error {
	raw, err := st.Get(ctx, docstore.QuestionCollection, docID)
	if errors.Is(err, docstore.ErrNotFound) {
		fmt.Println("  (no question document)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", docID, err)
	}

	set := interview.QuestionSet{}
	if err := json.Unmarshal(raw, &set); err != nil {
		fmt.Printf("  (document unreadable: %v)\n", err)
		return nil
	}
	set.Normalize()

	keys := set.TierKeys()
	if len(keys) == 0 {
		fmt.Println("  (empty question document)")
		return nil
	}

	fmt.Printf("  %-8s  %-12s  %-8s  %s\n", "Tier", "Status", "Pending", "Total")
	fmt.Println("  " + strings.Repeat("─", 42))

	resumeKey := ""
	for _, key := range keys {
		tier := set[key]
		status := string(tier.Status)
		if status == "" {
			status = "not started"
		}
		if resumeKey == "" && tier.Status != interview.StatusCompleted {
			resumeKey = key
		}
		fmt.Printf("  %-8s  %-12s  %-8d  %d\n",
			key, status, set.PendingCount(key), len(tier.Questions))
	}

	if resumeKey == "" {
		fmt.Println("  All tiers completed.")
	} else {
		fmt.Printf("  Next sitting resumes at %s (general phase).\n", resumeKey)
	}
	return nil
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/prism/internal/docstore"
	"github.com/abhisek/prism/internal/interview"
	"github.com/abhisek/prism/internal/profile"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset interview progress",
	Long:  "Marks every question pending again and clears answered values from the profile. Documents keep their structure.",
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, _ := cmd.Flags().GetBool("questions")
		profileOnly, _ := cmd.Flags().GetBool("profile")
		if !questions && !profileOnly {
			questions = true
			profileOnly = true
		}

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := context.Background()

		if questions {
			ids := []string{docstore.GeneralQuestionsDocID}
			for _, cat := range interview.AllCategories() {
				ids = append(ids, cat.DocID())
			}
			for _, id := range ids {
				reset, err := resetQuestionDoc(ctx, st, id)
				if err != nil {
					return err
				}
				if reset {
					fmt.Printf("Reset %s\n", id)
				}
			}
		}

		if profileOnly {
			if err := resetProfileDoc(ctx, st); err != nil {
				return err
			}
		}
		return nil
	},
}

// resetQuestionDoc re-pends every question and unsets tier statuses.
// Returns false when the document does not exist.
func resetQuestionDoc(ctx context.Context, st *docstore.Store, docID string) (bool, error) {
	raw, err := st.Get(ctx, docstore.QuestionCollection, docID)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", docID, err)
	}

	set := interview.QuestionSet{}
	if err := json.Unmarshal(raw, &set); err != nil {
		return false, fmt.Errorf("parse %s: %w", docID, err)
	}
	set.Normalize()

	for _, key := range set.TierKeys() {
		tier := set[key]
		tier.Status = interview.StatusUnset
		for _, q := range tier.Questions {
			q.State = interview.AnswerPending
		}
	}

	body, err := json.Marshal(set)
	if err != nil {
		return false, fmt.Errorf("marshal %s: %w", docID, err)
	}
	if err := st.Set(ctx, docstore.QuestionCollection, docID, body); err != nil {
		return false, fmt.Errorf("save %s: %w", docID, err)
	}
	return true, nil
}

// resetProfileDoc strips stored values, keeping descriptions and structure.
func resetProfileDoc(ctx context.Context, st *docstore.Store) error {
	raw, err := st.Get(ctx, docstore.UserCollection, docstore.ProfileDocID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}

	tree := profile.NewTree()
	if err := json.Unmarshal(raw, tree); err != nil {
		return fmt.Errorf("parse profile: %w", err)
	}
	tree.ClearValues()

	body, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := st.Set(ctx, docstore.UserCollection, docstore.ProfileDocID, body); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	fmt.Println("Profile values cleared.")
	return nil
}

func init() {
	resetCmd.Flags().Bool("questions", false, "Only reset question documents")
	resetCmd.Flags().Bool("profile", false, "Only clear profile values")
}

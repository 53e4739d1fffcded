package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/prism/internal/docstore"
	"github.com/abhisek/prism/internal/interview"
	"github.com/abhisek/prism/internal/llm"
	"github.com/abhisek/prism/internal/profile"
	"github.com/abhisek/prism/internal/questiongen"
	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Import, generate and inspect question documents",
}

var questionsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON document into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		collection, _ := cmd.Flags().GetString("collection")
		docID, _ := cmd.Flags().GetString("id")
		if docID == "" {
			docID = filepath.Base(args[0])
		}

		body, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		if !json.Valid(body) {
			return fmt.Errorf("%s is not valid JSON", args[0])
		}

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.Set(context.Background(), collection, docID, body); err != nil {
			return fmt.Errorf("store document: %w", err)
		}
		fmt.Printf("Imported %s/%s (%d bytes)\n", collection, docID, len(body))
		return nil
	},
}

var questionsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate tiered questions from the profile schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaPath, _ := cmd.Flags().GetString("profile")
		section, _ := cmd.Flags().GetString("section")
		categoryName, _ := cmd.Flags().GetString("category")

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := context.Background()

		var schemaBody []byte
		if schemaPath != "" {
			schemaBody, err = os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("read schema: %w", err)
			}
		} else {
			raw, err := st.Get(ctx, docstore.UserCollection, docstore.ProfileDocID)
			if errors.Is(err, docstore.ErrNotFound) {
				return errors.New("no profile schema stored; pass --profile or import one first")
			}
			if err != nil {
				return fmt.Errorf("load profile schema: %w", err)
			}
			schemaBody = raw
		}

		tree := profile.NewTree()
		if err := json.Unmarshal(schemaBody, tree); err != nil {
			return fmt.Errorf("parse profile schema: %w", err)
		}

		provider, err := llm.NewProviderFromEnv(ctx, st)
		if err != nil {
			return fmt.Errorf("question generation needs an LLM provider: %w", err)
		}
		svc := questiongen.NewService(provider, questiongen.DefaultConfig())

		var set interview.QuestionSet
		var docID string
		if section == "general" {
			set, err = svc.GenerateGeneral(ctx, tree)
			docID = docstore.GeneralQuestionsDocID
		} else {
			cat, perr := interview.ParseCategory(categoryName)
			if perr != nil {
				return perr
			}
			docID = cat.DocID()
			schemaSection := strings.TrimSuffix(docID, "_tiered_questions.json")
			set, err = svc.GenerateCategory(ctx, tree, schemaSection)
		}
		if err != nil {
			return fmt.Errorf("generate questions: %w", err)
		}

		body, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal question set: %w", err)
		}
		if err := st.Set(ctx, docstore.QuestionCollection, docID, body); err != nil {
			return fmt.Errorf("store question set: %w", err)
		}

		total := 0
		for _, key := range set.TierKeys() {
			total += len(set[key].Questions)
		}
		fmt.Printf("Generated %d questions across %d tiers into %s/%s\n",
			total, len(set.TierKeys()), docstore.QuestionCollection, docID)
		return nil
	},
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		collection, _ := cmd.Flags().GetString("collection")

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		collections := []string{docstore.QuestionCollection, docstore.UserCollection}
		if collection != "" {
			collections = []string{collection}
		}

		ctx := context.Background()
		for _, coll := range collections {
			ids, err := st.List(ctx, coll)
			if err != nil {
				return fmt.Errorf("list %s: %w", coll, err)
			}
			fmt.Println(coll)
			if len(ids) == 0 {
				fmt.Println("  (empty)")
				continue
			}
			for _, id := range ids {
				fmt.Println("  " + id)
			}
		}
		return nil
	},
}

func init() {
	questionsImportCmd.Flags().String("collection", docstore.QuestionCollection, "Target collection")
	questionsImportCmd.Flags().String("id", "", "Document id (defaults to the file name)")

	questionsGenerateCmd.Flags().String("profile", "", "Path to a profile schema JSON file (defaults to the stored schema)")
	questionsGenerateCmd.Flags().String("section", "general", "Which section to generate: general or category")
	questionsGenerateCmd.Flags().String("category", "", "Category for --section=category (movies, food, travel)")

	questionsListCmd.Flags().String("collection", "", "Only list this collection")

	questionsCmd.AddCommand(questionsImportCmd)
	questionsCmd.AddCommand(questionsGenerateCmd)
	questionsCmd.AddCommand(questionsListCmd)
}

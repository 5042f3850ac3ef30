package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kitesail/pennybook/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the category dictionary",
		Long:  `List categories, add new ones, and attach synonyms a ledger should recognize.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(addSynonymCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			ledgerID := ledgerFor(userID)
			entries, err := store.ListActiveEntries(ctx, ledgerID)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println(infoStyle.Render("No categories yet. Use 'pennybook categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", "Code", "Group", "Name", "Synonyms")
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 7), strings.Repeat("-", 12),
				strings.Repeat("-", 16), strings.Repeat("-", 30))

			for _, entry := range entries {
				synonyms := strings.Join(entry.Synonyms, ", ")
				if synonyms == "" {
					synonyms = subtleStyle.Render("(none)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.Code, entry.MajorName, entry.SubName, synonyms)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "me", "user whose ledger to list")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		userID    string
		majorName string
	)

	cmd := &cobra.Command{
		Use:   "add <code> <name>",
		Short: "Add a category",
		Long: `Add a dictionary entry, e.g. 'pennybook categories add 301-04 snacks'.
Major codes starting with 8 record income; everything else records expenses.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			code, err := model.ParseCategoryCode(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entry := model.CategoryEntry{
				LedgerID:  ledgerFor(userID),
				Code:      code,
				MajorName: majorName,
				SubName:   args[1],
			}
			if entry.MajorName == "" {
				entry.MajorName = entry.SubName
			}

			if err := store.CreateCategory(ctx, entry); err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("Added %s %q.", code, args[1])))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "me", "user whose ledger to modify")
	cmd.Flags().StringVar(&majorName, "group", "", "display name of the major group")
	return cmd
}

func addSynonymCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "synonym <code> <term>",
		Short: "Attach a synonym to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			code, err := model.ParseCategoryCode(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			term := strings.ToLower(strings.TrimSpace(args[1]))
			if err := store.AppendSynonym(ctx, ledgerFor(userID), code, term); err != nil {
				return fmt.Errorf("failed to add synonym: %w", err)
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("%q now resolves to %s.", term, code)))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "me", "user whose ledger to modify")
	return cmd
}

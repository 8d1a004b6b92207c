package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/famitree/internal/application/handlers"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the semantic search index from the current tree",
		Long:  "Embeds every person and stores the vectors in qdrant. Requires an embedder API key.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withSearchHandler(ctx, func(h *handlers.SearchHandler) error {
				n, err := h.HandleIndex(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Indexed %d people\n", n)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <person-id>",
		Short: "Drop one person from the search index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withSearchHandler(ctx, func(h *handlers.SearchHandler) error {
				if err := h.HandleUnindex(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Removed %s from the index\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

func newSearchCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find people by meaning, e.g. \"doctor who lived in Hue\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")
			return withSearchHandler(ctx, func(h *handlers.SearchHandler) error {
				res, err := h.HandleSearch(ctx, query, limit)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(os.Stdout, res)
				}
				if len(res.Results) == 0 {
					fmt.Println("No matches. Run 'famitree index' after changing the tree.")
					return nil
				}
				for _, r := range res.Results {
					fmt.Printf("%.3f  %-40s %s\n", r.Score, personLabel(r.Person), r.Person.ID)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultSearchLimit, "Maximum number of results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

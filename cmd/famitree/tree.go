package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/famitree/internal/application/handlers"
)

func newTreeCmd() *cobra.Command {
	var (
		opts   handlers.TreeOptions
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Draw the family tree",
		Long: `Draws the whole forest, one tree per person without parents.

With --root the tree starts at that person. With --male only trees rooted at a
man are drawn. --query keeps the people whose name matches and their ancestors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				res, err := d.TreeHandler.HandleTree(opts)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(os.Stdout, res)
				}
				if res.Count == 0 {
					fmt.Println("Nothing to show.")
					return nil
				}
				printTree(os.Stdout, res.Nodes)
				fmt.Printf("\n%d people (version %d)\n", res.Count, res.Version)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Root, "root", "r", "", "Start the tree at this person")
	cmd.Flags().BoolVar(&opts.MaleOnly, "male", false, "Only draw trees rooted at a man")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Keep only matching names and their ancestors")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newBranchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "branch [ROOT_ID]",
		Short: "List a person, their descendants and their spouses",
		Long:  "Without ROOT_ID the current user's default_branch from users.yaml is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				root := d.branchRoot(ctx, firstArg(args))
				if root == "" {
					return errNoBranchSelected
				}
				res, err := d.TreeHandler.HandleBranch(root)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(os.Stdout, res)
				}
				fmt.Printf("Branch of %s (%d people)\n\n", personLabel(res.Root), len(res.Members))
				fmt.Printf("%-5s %-40s %s\n", "LEVEL", "NAME", "ID")
				for _, m := range res.Members {
					name := personLabel(m.Person)
					if m.Spouse {
						name += " *"
					}
					fmt.Printf("%-5d %-40s %s\n", m.Level, name, m.Person.ID)
				}
				fmt.Println("\n* married into the branch")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newAncestorsCmd() *cobra.Command {
	var (
		levels int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "ancestors PERSON_ID",
		Short: "List the ancestors of a person by generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				res, err := d.TreeHandler.HandleAncestors(args[0], levels)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(os.Stdout, res)
				}
				if len(res.Levels) == 0 {
					fmt.Printf("No ancestors recorded for %s.\n", personLabel(res.Person))
					return nil
				}
				for i, level := range res.Levels {
					fmt.Printf("Generation -%d:\n", len(res.Levels)-i)
					for _, p := range level {
						fmt.Printf("  %s\n", personLabel(p))
					}
				}
				fmt.Printf("%s\n", personLabel(res.Person))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&levels, "levels", "l", handlers.DefaultAncestorLevels, "Maximum number of generations")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/famitree/internal/domain/services"
)

func newSummaryCmd() *cobra.Command {
	var (
		branch string
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show statistics for the tree or a branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				root := ""
				if !all {
					root = d.branchRoot(ctx, branch)
				}
				s, err := d.TreeHandler.HandleSummary(root, time.Now())
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(os.Stdout, s)
				}
				printSummary(os.Stdout, s)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "Limit to the branch of this person (default: user's default_branch)")
	cmd.Flags().BoolVar(&all, "all", false, "Ignore the default branch")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func printSummary(w io.Writer, s services.Summary) {
	fmt.Fprintf(w, "People:        %d (%d living, %d deceased)\n", s.People, s.Living, s.Deceased)
	fmt.Fprintf(w, "Men:           %d (%d living)\n", s.Male, s.LivingMale)
	fmt.Fprintf(w, "Women:         %d (%d living)\n", s.Female, s.LivingFemale)
	fmt.Fprintf(w, "Men died 60+:  %d\n", s.MaleDeceased60Plus)
	fmt.Fprintf(w, "Generations:   %d\n", s.Generations)
	fmt.Fprintf(w, "Roots:         %d\n", s.Roots)
	fmt.Fprintf(w, "Parent links:  %d\n", s.ParentChildEdges)
	fmt.Fprintf(w, "Marriages:     %d\n", s.SpouseEdges)
	if len(s.AgeBands) > 0 {
		fmt.Fprintln(w, "\nAge bands:")
		for _, b := range s.AgeBands {
			fmt.Fprintf(w, "  %-6s %d\n", b.Band.Label, b.Count)
		}
	}
}

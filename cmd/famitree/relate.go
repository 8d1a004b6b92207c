package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/services"
)

func newRelateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relate",
		Short: "Manage relationships between people",
	}

	cmd.AddCommand(
		newRelateParentCmd(),
		newRelateSpouseCmd(),
		newRelateRemoveCmd(),
		newRelateListCmd(),
	)

	return cmd
}

func newRelateParentCmd() *cobra.Command {
	var subtype string

	cmd := &cobra.Command{
		Use:   "parent PARENT_ID CHILD_ID",
		Short: "Record PARENT_ID as a parent of CHILD_ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEditor(ctx, func(d *Deps) error {
				rel, err := d.RelationshipHandler.HandleAddParent(ctx, args[0], args[1], subtype)
				if err != nil {
					return err
				}
				printEdge(rel)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&subtype, "subtype", "s", string(entities.SubtypePlain), "Link subtype (plain, in-law, adopt)")

	return cmd
}

func newRelateSpouseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spouse PERSON_ID SPOUSE_ID",
		Short: "Record two people as spouses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEditor(ctx, func(d *Deps) error {
				rel, err := d.RelationshipHandler.HandleAddSpouse(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				printEdge(rel)
				return nil
			})
		},
	}
}

func printEdge(rel *entities.Relationship) {
	if rel == nil {
		fmt.Println("No relationship recorded.")
		return
	}
	fmt.Printf("Relationship %s: %s %s -> %s\n", rel.ID, rel.Type, rel.PersonID, rel.RelatedID)
}

func newRelateRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove RELATIONSHIP_ID",
		Aliases: []string{"rm"},
		Short:   "Remove a relationship",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEditor(ctx, func(d *Deps) error {
				if err := d.RelationshipHandler.HandleRemove(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Removed relationship %s\n", args[0])
				return nil
			})
		},
	}
}

func newRelateListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list PERSON_ID",
		Short: "List the parents, children and spouses of a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				res, err := d.RelationshipHandler.HandleList(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(os.Stdout, res)
				}
				fmt.Println(personLabel(res.Person))
				printRelations(res.Parents, res.Children, res.Spouses)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

// printRelations lists direct relatives with the edge id needed to remove them.
func printRelations(parents, children []services.RelatedPerson, spouses []services.SpouseLink) {
	printRelated := func(title string, rels []services.RelatedPerson) {
		if len(rels) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", title)
		for _, r := range rels {
			suffix := ""
			if r.Subtype != entities.SubtypePlain {
				suffix = " [" + string(r.Subtype) + "]"
			}
			fmt.Printf("  %-40s %s%s\n", personLabel(r.Person), r.EdgeID, suffix)
		}
	}

	printRelated("Parents", parents)
	printRelated("Children", children)

	if len(spouses) > 0 {
		fmt.Println("\nSpouses:")
		for _, s := range spouses {
			fmt.Printf("  %d. %-37s %s\n", s.Index, personLabel(s.Person), s.EdgeID)
		}
	}
}

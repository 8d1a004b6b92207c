package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ersonp/famitree/internal/domain/entities"
)

type personFlags struct {
	name       string
	title      string
	gender     string
	birth      string
	death      string
	birthPlace string
	buriedAt   string
	address    string
	notes      string
	avatar     string
	role       string
}

func (f *personFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.name, "name", "n", "", "Full name")
	fs.StringVar(&f.title, "title", "", "Title or honorific")
	fs.StringVarP(&f.gender, "gender", "g", "", "Gender (male, female, other)")
	fs.StringVarP(&f.birth, "birth", "b", "", "Birth date (dd/MM/yyyy, dd/MM, yyyy, ISO or lunar:...)")
	fs.StringVarP(&f.death, "death", "d", "", "Death date, same formats as --birth")
	fs.StringVar(&f.birthPlace, "birth-place", "", "Place of birth")
	fs.StringVar(&f.buriedAt, "buried-at", "", "Burial place")
	fs.StringVar(&f.address, "address", "", "Address")
	fs.StringVar(&f.notes, "notes", "", "Free-form notes")
	fs.StringVar(&f.avatar, "avatar", "", "Image reference, e.g. a URL")
	fs.StringVar(&f.role, "role", "", "Member role (main, daughter-in-law, son-in-law)")
}

// person builds the fields for a new person.
func (f *personFlags) person() (entities.Person, error) {
	birth, err := entities.ParseDisplayDate(f.birth)
	if err != nil {
		return entities.Person{}, fmt.Errorf("--birth: %w", err)
	}
	death, err := entities.ParseDisplayDate(f.death)
	if err != nil {
		return entities.Person{}, fmt.Errorf("--death: %w", err)
	}
	return entities.Person{
		Name:       f.name,
		Title:      f.title,
		Address:    f.address,
		BirthPlace: f.birthPlace,
		BuriedAt:   f.buriedAt,
		Notes:      f.notes,
		Avatar:     f.avatar,
		Gender:     entities.Gender(f.gender),
		BirthDate:  birth,
		DeathDate:  death,
		MemberRole: entities.MemberRole(f.role),
	}, nil
}

// update builds a partial update from the flags that were set explicitly.
// An explicitly empty flag clears the field.
func (f *personFlags) update(fs *pflag.FlagSet) (entities.PersonUpdate, error) {
	var upd entities.PersonUpdate
	changed := fs.Changed

	strs := []struct {
		flag string
		src  *string
		dst  **string
	}{
		{"name", &f.name, &upd.Name},
		{"title", &f.title, &upd.Title},
		{"address", &f.address, &upd.Address},
		{"birth-place", &f.birthPlace, &upd.BirthPlace},
		{"buried-at", &f.buriedAt, &upd.BuriedAt},
		{"notes", &f.notes, &upd.Notes},
		{"avatar", &f.avatar, &upd.Avatar},
	}
	for _, s := range strs {
		if changed(s.flag) {
			v := *s.src
			*s.dst = &v
		}
	}

	if changed("gender") {
		g := entities.Gender(f.gender)
		upd.Gender = &g
	}
	if changed("role") {
		r := entities.MemberRole(f.role)
		upd.MemberRole = &r
	}
	if changed("birth") {
		d, err := entities.ParseDisplayDate(f.birth)
		if err != nil {
			return upd, fmt.Errorf("--birth: %w", err)
		}
		upd.BirthDate = &d
	}
	if changed("death") {
		d, err := entities.ParseDisplayDate(f.death)
		if err != nil {
			return upd, fmt.Errorf("--death: %w", err)
		}
		upd.DeathDate = &d
	}
	return upd, nil
}

func newPersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "person",
		Aliases: []string{"people"},
		Short:   "Manage people",
		RunE:    runPersonList(false),
	}

	cmd.AddCommand(
		newPersonAddCmd(),
		newPersonUpdateCmd(),
		newPersonDeleteCmd(),
		newPersonShowCmd(),
		newPersonListCmd(),
	)

	return cmd
}

func newPersonAddCmd() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := flags.person()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withEditor(ctx, func(d *Deps) error {
				p, err := d.PersonHandler.HandleAdd(ctx, fields)
				if err != nil {
					return err
				}
				fmt.Printf("Added %s [%s]\n", personLabel(p), p.ID)
				return nil
			})
		},
	}

	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPersonUpdateCmd() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update fields of a person",
		Long:  "Only the flags given are changed. Pass an empty value to clear a field.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd, err := flags.update(cmd.Flags())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withEditor(ctx, func(d *Deps) error {
				p, err := d.PersonHandler.HandleUpdate(ctx, args[0], upd)
				if err != nil {
					return err
				}
				fmt.Printf("Updated %s [%s]\n", personLabel(p), p.ID)
				return nil
			})
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

func newPersonDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a person and all of their relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEditor(ctx, func(d *Deps) error {
				if err := d.PersonHandler.HandleDelete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newPersonShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a person with parents, children and spouses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				details, err := d.PersonHandler.HandleShow(args[0], time.Now())
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(os.Stdout, details)
				}
				printPersonDetails(details.Person, details.Level, details.Age)
				printRelations(details.Parents, details.Children, details.Spouses)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func printPersonDetails(p entities.Person, level int, age *int) {
	fmt.Printf("%s\n", personLabel(p))
	fmt.Printf("  id:          %s\n", p.ID)
	fmt.Printf("  level:       %d\n", level)
	if p.Gender != "" {
		fmt.Printf("  gender:      %s\n", p.Gender)
	}
	if p.MemberRole != "" {
		fmt.Printf("  role:        %s\n", p.MemberRole)
	}
	fmt.Printf("  born:        %s\n", displayDate(p.BirthDate))
	if p.IsDeceased() {
		fmt.Printf("  died:        %s\n", displayDate(p.DeathDate))
	}
	if age != nil {
		fmt.Printf("  age:         %d\n", *age)
	}
	optional := []struct{ label, value string }{
		{"birth place", p.BirthPlace},
		{"buried at", p.BuriedAt},
		{"address", p.Address},
		{"notes", p.Notes},
	}
	for _, o := range optional {
		if o.value != "" {
			fmt.Printf("  %-12s %s\n", o.label+":", o.value)
		}
	}
}

func newPersonListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List everyone in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonList(asJSON)(cmd, args)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func runPersonList(asJSON bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd.Context(), func(d *Deps) error {
			people := d.PersonHandler.HandleList()
			if asJSON {
				return printJSON(os.Stdout, people)
			}
			if len(people) == 0 {
				fmt.Println("No people yet. Add one with 'famitree person add --name NAME'.")
				return nil
			}
			printPeople(os.Stdout, people)
			return nil
		})
	}
}

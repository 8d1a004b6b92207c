package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/famitree/internal/application/handlers"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved versions and the audit log (sqlite backend)",
	}

	cmd.AddCommand(
		newHistoryVersionsCmd(),
		newHistoryShowCmd(),
		newHistoryAuditCmd(),
		newHistoryPruneCmd(),
	)

	return cmd
}

func newHistoryVersionsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List saved versions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withHistoryHandler(ctx, func(h *handlers.HistoryHandler) error {
				infos, err := h.HandleVersions(ctx, limit)
				if err != nil {
					return err
				}
				if len(infos) == 0 {
					fmt.Println("No versions saved yet.")
					return nil
				}
				tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tPEOPLE\tEDGES\tSIZE\tSAVED")
				for _, v := range infos {
					fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\n", v.Version, v.People, v.Edges, v.Size, v.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultVersionsLimit, "Maximum number of versions (0 for all)")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show VERSION",
		Short: "Show the people of a saved version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			ctx := cmd.Context()
			return withHistoryHandler(ctx, func(h *handlers.HistoryHandler) error {
				tree, err := h.HandleShowVersion(ctx, version)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(os.Stdout, tree)
				}
				fmt.Printf("Version %d: %d people, %d relationships\n\n", tree.Version, len(tree.People), len(tree.Relationships))
				printPeople(os.Stdout, tree.People)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the full snapshot as JSON")

	return cmd
}

func newHistoryAuditCmd() *cobra.Command {
	var (
		opts   handlers.AuditOptions
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show who changed what, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withHistoryHandler(ctx, func(h *handlers.HistoryHandler) error {
				entries, err := h.HandleAudit(ctx, opts)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(os.Stdout, entries)
				}
				if len(entries) == 0 {
					fmt.Println("No audit entries.")
					return nil
				}
				tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "TIME\tUSER\tACTION\tSUBJECT")
				for _, e := range entries {
					user := e.UserID
					if user == "" {
						user = "-"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), user, e.Action, e.SubjectID)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&opts.SubjectID, "subject", "", "Only entries about this person or relationship id")
	cmd.Flags().StringVar(&opts.Action, "action", "", "Only entries with this action, e.g. person.add")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", DefaultAuditLimit, "Maximum number of entries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newHistoryPruneCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old versions, keeping the newest ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withInternalDeps(ctx, func(d *internalDeps) error {
				if d.relationalDB == nil {
					return errHistoryNeedsSQL
				}
				if err := d.requireEditor(ctx); err != nil {
					return err
				}
				n, err := handlers.NewHistoryHandler(d.relationalDB).HandlePrune(ctx, keep)
				if err != nil {
					return err
				}
				fmt.Printf("Deleted %d old versions\n", n)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&keep, "keep", "k", DefaultPruneKeep, "Number of versions to keep")

	return cmd
}

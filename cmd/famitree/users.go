package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/famitree/internal/infrastructure/config"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage who may view and edit the tree",
		RunE:  runUsersList,
	}

	cmd.AddCommand(
		newUsersListCmd(),
		newUsersAddCmd(),
		newUsersRemoveCmd(),
	)

	return cmd
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE:  runUsersList,
	}
}

func runUsersList(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	users, err := config.LoadUsers(cwd)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}

	printUsers(os.Stdout, users)
	return nil
}

func printUsers(w io.Writer, users *config.UsersConfig) {
	if len(users.Users) == 0 {
		fmt.Fprintln(w, "No users configured.")
		fmt.Fprintln(w, "Use 'famitree users add ID --role admin' to add one.")
		return
	}

	fmt.Fprintf(w, "%-20s %-25s %-7s %s\n", "ID", "NAME", "ROLE", "DEFAULT BRANCH")
	fmt.Fprintf(w, "%-20s %-25s %-7s %s\n", "--", "----", "----", "--------------")

	for _, id := range users.IDs() {
		u := users.Users[id]
		fmt.Fprintf(w, "%-20s %-25s %-7s %s\n", id, u.Name, u.Role, u.DefaultBranch)
	}
}

func newUsersAddCmd() *cobra.Command {
	var entry config.UserEntry

	cmd := &cobra.Command{
		Use:   "add ID",
		Short: "Add or replace a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			if err := addUser(cwd, args[0], entry); err != nil {
				return err
			}
			fmt.Printf("Saved user %q (%s)\n", args[0], entry.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&entry.Name, "name", "n", "", "Display name (default: ID)")
	cmd.Flags().StringVarP(&entry.Role, "role", "r", config.RoleViewer, "Role (admin, viewer)")
	cmd.Flags().StringVarP(&entry.DefaultBranch, "branch", "b", "", "Person id used as the default branch")

	return cmd
}

func addUser(basePath, id string, entry config.UserEntry) error {
	if !config.Exists(basePath) {
		return fmt.Errorf("famitree is not initialized in %s (run 'famitree init' first)", basePath)
	}
	users, err := config.LoadUsers(basePath)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	if entry.Name == "" {
		entry.Name = id
	}
	if err := users.Add(id, entry); err != nil {
		return err
	}
	return users.Save(basePath)
}

func newUsersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Remove a user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			if err := removeUser(cwd, args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed user %q\n", args[0])
			return nil
		},
	}
}

func removeUser(basePath, id string) error {
	users, err := config.LoadUsers(basePath)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	if _, ok := users.Users[id]; !ok {
		return fmt.Errorf("user %q not found", id)
	}
	users.Remove(id)
	return users.Save(basePath)
}

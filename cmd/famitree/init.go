package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/famitree/internal/application/handlers"
	"github.com/ersonp/famitree/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize famitree in the current directory",
		Long:  "Creates .famitree/config.yaml. The storage is created on first use.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Family, "family", "", "Family name, used for the search collection")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "Storage backend (sqlite, file)")
	cmd.Flags().StringVar(&opts.AdminID, "admin", "", "Create this user as admin and act as them")

	return cmd
}

func runInit(opts handlers.InitOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	result, err := handlers.NewInitHandler().Handle(cwd, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Initialized famitree in %s\n", config.ConfigDir(cwd))
	fmt.Printf("  config:     %s\n", result.ConfigPath)
	fmt.Printf("  storage:    %s\n", result.StoragePath)
	fmt.Printf("  collection: %s\n", result.CollectionName)
	if opts.AdminID == "" {
		fmt.Println()
		fmt.Println("Add an admin with 'famitree users add ID --role admin' and set user.id in the config to edit the tree.")
	}
	return nil
}

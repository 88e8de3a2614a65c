package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/feast-registry/internal/bootstrap"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/service"
)

func newTeardownCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "teardown [engine-url]",
		Short: "Delete every resource of every project",
		Long:  "Delete every resource of every project. Project identities are kept. This cannot be undone.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var engineURL string
			if len(args) == 1 {
				engineURL = args[0]
			}

			cfg, err := loadConfig(cmd, root, engineURL)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			storage, err := bootstrap.OpenStorage(cmd.Context(), cfg.Database, cfg.Registry)
			if err != nil {
				return err
			}
			defer storage.Close()

			registry := service.NewRegistry(storage.Store, service.WithLogger(log.Named("registry")))
			if err := registry.Teardown(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "registry torn down")
			return nil
		},
	}
}

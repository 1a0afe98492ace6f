package main

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"msgsimple/internal/application"
	"msgsimple/internal/config"
	"msgsimple/internal/infrastructure/database"
	"msgsimple/internal/logging"
	"msgsimple/pkg/msgbundle"
	"msgsimple/pkg/properties"
)

func newRootCmd() *cobra.Command {
	var verbosity int

	root := &cobra.Command{
		Use:           "msglookup",
		Short:         "Resolve message keys from properties files, TOML catalogs or a database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
	}
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v, -vv, -vvv)")

	root.AddCommand(newLookupCmd(), newImportCmd())
	return root
}

func newLookupCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "lookup KEY...",
		Short: "Print the message for each key, or the key itself when unknown",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			providerType, ok := application.ProviderType(provider)
			if !ok {
				return fmt.Errorf("unknown provider %q (want files, catalog or database)", provider)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var repo *database.MessageRepository
			if providerType == reflect.TypeFor[*application.DatabaseProvider]() && cfg.DatabaseURL != "" {
				pool, err := database.NewPool(cmd.Context(), cfg.DatabaseURL)
				if err != nil {
					return fmt.Errorf("connect database: %w", err)
				}
				defer pool.Close()
				repo = database.NewMessageRepository(pool)
			}

			registry := msgbundle.NewRegistry(
				application.Discover(cmd.Context(), cfg, repo),
				msgbundle.WithLogger(logging.GetLogger("registry")),
			)
			if err := registry.Init(); err != nil {
				log.Warn().Err(err).Msg("some message providers are unavailable")
			}

			bundle, ok := registry.ResolveType(providerType)
			if !ok {
				return fmt.Errorf("provider %q is not available", provider)
			}
			for _, key := range args {
				fmt.Fprintln(cmd.OutOrStdout(), bundle.Lookup(key))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&provider, "provider", "p", "files", "Message provider: files, catalog or database")
	return cmd
}

func newImportCmd() *cobra.Command {
	var catalog string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load a properties file into a database catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("MSGSIMPLE_DATABASE_URL is required for import")
			}
			if catalog == "" {
				catalog = cfg.DatabaseCatalog
			}

			src, err := properties.FromFile(args[0], properties.WithEncoding(cfg.FileEncoding()))
			if err != nil {
				return err
			}

			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				return err
			}
			pool, err := database.NewPool(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			n, err := importSource(cmd.Context(), pool, catalog, src)
			if err != nil {
				return err
			}
			log.Info().Str("catalog", catalog).Int("messages", n).Msg("import complete")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d messages into %q\n", n, catalog)
			return nil
		},
	}
	cmd.Flags().StringVarP(&catalog, "catalog", "c", "", "Target catalog (default MSGSIMPLE_DATABASE_CATALOG)")
	return cmd
}

func importSource(ctx context.Context, pool *pgxpool.Pool, catalog string, src *properties.Source) (int, error) {
	messages := make(map[string]string, src.Len())
	for _, key := range src.Keys() {
		messages[key], _ = src.Lookup(key)
	}
	if err := database.NewMessageRepository(pool).PutAll(ctx, catalog, messages); err != nil {
		return 0, err
	}
	return len(messages), nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bravo68web/odinpkg/internal/application/service"
	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/internal/infrastructure/database"
	"github.com/bravo68web/odinpkg/internal/infrastructure/repository"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// admin bundles the services the management commands operate on
type admin struct {
	users  *service.UserService
	tokens *service.TokenService
	db     *database.Database
}

func (a *admin) Close() error {
	return a.db.Close()
}

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "manage",
		Short:         "odinpkg management CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", envOr("CONFIG_PATH", "configs/config.yaml"), "configuration file")

	root.AddCommand(usersCmd())
	root.AddCommand(tokensCmd())
	root.AddCommand(statsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func connect() (*admin, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	// Only warnings and errors; command output goes to stdout
	if err := logger.Init(&logger.Config{Level: "warn", Format: "console", OutputPath: "stderr"}); err != nil {
		return nil, err
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db.DB())
	tokenRepo := repository.NewTokenRepository(db.DB())
	return &admin{
		users: service.NewUserService(
			userRepo,
			repository.NewPackageRepository(db.DB()),
			repository.NewVersionRepository(db.DB()),
			tokenRepo,
			repository.NewFlagRepository(db.DB()),
		),
		tokens: service.NewTokenService(tokenRepo),
		db:     db,
	}, nil
}

// withAdmin wraps a command body that needs database access
func withAdmin(run func(ctx context.Context, a *admin, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd.Context(), a, args)
	}
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	toggles := []struct {
		use   string
		short string
		apply func(ctx context.Context, a *admin, login string) error
	}{
		{"ban", "Ban a user and reject their sessions and tokens", func(ctx context.Context, a *admin, login string) error {
			_, err := a.users.SetBanned(ctx, login, true)
			return err
		}},
		{"unban", "Lift a ban", func(ctx context.Context, a *admin, login string) error {
			_, err := a.users.SetBanned(ctx, login, false)
			return err
		}},
		{"promote", "Make a user a moderator", func(ctx context.Context, a *admin, login string) error {
			_, err := a.users.SetModerator(ctx, login, true)
			return err
		}},
		{"demote", "Remove moderator rights", func(ctx context.Context, a *admin, login string) error {
			_, err := a.users.SetModerator(ctx, login, false)
			return err
		}},
	}
	for _, toggle := range toggles {
		apply := toggle.apply
		verb := toggle.use
		cmd.AddCommand(&cobra.Command{
			Use:   verb + " <login>",
			Short: toggle.short,
			Args:  cobra.ExactArgs(1),
			RunE: withAdmin(func(ctx context.Context, a *admin, args []string) error {
				if err := apply(ctx, a, args[0]); err != nil {
					return err
				}
				fmt.Printf("%s: %s\n", verb, args[0])
				return nil
			}),
		})
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: withAdmin(func(ctx context.Context, a *admin, _ []string) error {
			users, total, err := a.users.ListUsers(ctx, listLimit, listOffset)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LOGIN\tPROVIDER\tMODERATOR\tBANNED\tCREATED")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n", u.Login, u.Provider, u.IsModerator, u.Banned, u.CreatedAt.Format("2006-01-02"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("%d of %d users\n", len(users), total)
			return nil
		}),
	}
	list.Flags().IntVar(&listLimit, "limit", 20, "page size")
	list.Flags().IntVar(&listOffset, "offset", 0, "rows to skip")
	cmd.AddCommand(list)

	return cmd
}

var listLimit, listOffset int

func tokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Manage CLI tokens",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "revoke <token-id>",
		Short: "Revoke a token regardless of its owner",
		Args:  cobra.ExactArgs(1),
		RunE: withAdmin(func(ctx context.Context, a *admin, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid token id: %w", err)
			}
			if err := a.tokens.RevokeTokenByID(ctx, id); err != nil {
				return err
			}
			fmt.Printf("revoked %s\n", id)
			return nil
		}),
	})
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show registry statistics",
		RunE: withAdmin(func(ctx context.Context, a *admin, _ []string) error {
			stats, err := a.users.Stats(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}),
	}
}

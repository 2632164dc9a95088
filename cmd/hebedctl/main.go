package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hebed-ai/hebed/internal/auth"
	"github.com/hebed-ai/hebed/internal/config"
	"github.com/hebed-ai/hebed/internal/database"
	"github.com/hebed-ai/hebed/internal/logging"
	"github.com/hebed-ai/hebed/internal/model"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "hebedctl",
		Short:   "Operational tooling for the HEBED backend",
		Version: Version,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			logging.Setup(cfg.App)

			db, err := database.NewDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return err
			}

			fmt.Println("schema is up to date")
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		email string
		role  string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token [user-id]",
		Short: "Issue an identity token for local testing",
		Long: `Issue a signed identity token with the configured AUTH_JWT_SECRET.

Examples:
  hebedctl token founder-1 --role startup --email founder@example.com
  hebedctl token investor-1 --role investor --ttl 1h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identityRole := model.Role(role)
			switch identityRole {
			case model.RoleStartup, model.RoleInvestor, model.RoleAdmin:
			default:
				return fmt.Errorf("unknown role %q", role)
			}

			cfg, err := config.Load(context.Background())
			if err != nil {
				return err
			}

			verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
			token, err := verifier.Issue(model.Identity{
				UserID: args[0],
				Email:  email,
				Role:   identityRole,
			}, ttl)
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email carried by the token")
	cmd.Flags().StringVarP(&role, "role", "r", string(model.RoleInvestor), "role: startup, investor or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}

package system

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/founders_backend/internal/service/auth"
	"github.com/Alijeyrad/founders_backend/pkg/events"
	"github.com/Alijeyrad/founders_backend/pkg/util/codes"
	"github.com/Alijeyrad/founders_backend/pkg/util/password"
)

const generatedPasswordLength = 16

func NewCreateAdminCommand() *cobra.Command {
	var req auth.CreateAdminRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or promote an existing one",
		Long: `Create an admin account. If an account with the email already exists it is
promoted to admin and its password is left unchanged.

When --password is omitted a random password is generated and printed once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Email == "" {
				return fmt.Errorf("--email is required")
			}

			generated := false
			if req.Password == "" {
				pw, err := codes.GenerateCode(generatedPasswordLength)
				if err != nil {
					return fmt.Errorf("failed to generate password: %w", err)
				}
				req.Password = pw
				generated = true
			}

			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			client, err := openRepo(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := client.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			// no workers run here, so account events are dropped
			bus := events.NewLocal(1)
			defer bus.Close()

			svc := auth.New(
				client.User,
				client.Submission,
				password.NewHasher(password.FromCentralConfig(cfg.Password)),
				bus,
				auth.FromCentralConfig(cfg),
				slog.Default(),
			)

			u, err := svc.CreateAdmin(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Printf("Admin ready: id=%d email=%s username=%s\n", u.ID, u.Email, u.Username)
			if generated {
				fmt.Printf("Generated password: %s\n", req.Password)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "admin email address (required)")
	cmd.Flags().StringVar(&req.Username, "username", "", "username (defaults to the email local part)")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (generated when empty)")
	cmd.Flags().StringVar(&req.FullName, "name", "Administrator", "display name")

	return cmd
}

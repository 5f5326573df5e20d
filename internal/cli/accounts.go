package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/repositories"
	"github.com/BradenHooton/storefront/internal/services"
	pkgauth "github.com/BradenHooton/storefront/pkg/auth"
)

// AttemptStatus is the guard state printed by "accounts attempts"
type AttemptStatus struct {
	Email             string              `json:"email"`
	State             models.AttemptState `json:"state"`
	RemainingAttempts int                 `json:"remaining_attempts"`
	RetryAfter        string              `json:"retry_after,omitempty"`
}

type accountsOptions struct {
	maxAttempts int
	window      time.Duration
	bcryptCost  int
}

// NewAccountsCommand creates the accounts command.
func NewAccountsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &accountsOptions{}

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Administer dashboard accounts and login lockouts",
	}

	cmd.PersistentFlags().IntVar(&opts.maxAttempts, "max-attempts", 5, "failed attempts allowed per window")
	cmd.PersistentFlags().DurationVar(&opts.window, "window", 15*time.Minute, "attempt window")
	cmd.PersistentFlags().IntVar(&opts.bcryptCost, "bcrypt-cost", 12, "bcrypt cost for seeded passwords")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered account emails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), rootOpts, func(store kvstore.Store) error {
				users, _, err := repositories.NewUserRepository(store).List(cmd.Context())
				if err != nil {
					return err
				}
				emails := make([]string, 0, len(users))
				for _, u := range users {
					emails = append(emails, u.Email)
				}
				return writeOutput(cmd.OutOrStdout(), rootOpts.Format, emails, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, strings.Join(emails, "\n"))
					return err
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Install the default demo accounts when no accounts exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), rootOpts, func(store kvstore.Store) error {
				logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
				svc := services.NewAuthService(repositories.NewUserRepository(store), nil, nil,
					pkgauth.NewPasswordHasher(opts.bcryptCost), nil, logger, nil)
				return svc.SeedDefaultUsers(cmd.Context())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "attempts <email>",
		Short: "Show the failed-login state of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), rootOpts, func(store kvstore.Store) error {
				guard := opts.guard(store, cmd)
				ctx := cmd.Context()

				status := AttemptStatus{
					Email:             args[0],
					State:             guard.State(ctx, args[0]),
					RemainingAttempts: guard.RemainingAttempts(ctx, args[0]),
				}
				if status.State == models.AttemptStateLimited {
					status.RetryAfter = guard.RetryAfter(ctx, args[0]).Round(time.Second).String()
				}

				return writeOutput(cmd.OutOrStdout(), rootOpts.Format, status, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "%s: %s, %d attempts remaining\n", status.Email, status.State, status.RemainingAttempts)
					return err
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unlock <email>",
		Short: "Clear the failed-login window of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), rootOpts, func(store kvstore.Store) error {
				if err := opts.guard(store, cmd).RecordLoginAttempt(cmd.Context(), args[0], true); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s\n", args[0])
				return err
			})
		},
	})

	return cmd
}

func (o *accountsOptions) guard(store kvstore.Store, cmd *cobra.Command) *services.AttemptGuard {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	return services.NewAttemptGuard(repositories.NewLoginAttemptRepository(store), services.AttemptGuardConfig{
		MaxAttempts: o.maxAttempts,
		Window:      o.window,
	}, logger)
}

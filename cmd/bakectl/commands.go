package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

func newRootCmd(admins *service.AdminService) *cobra.Command {
	root := &cobra.Command{
		Use:           "bakectl",
		Short:         "Manage Sasha Bakes users",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newUsersCmd(admins),
		newRoleCmd(admins),
		newPromoCmd(admins),
		newMuteCmd(admins),
		newUnmuteCmd(admins),
	)
	return root
}

func newUsersCmd(admins *service.AdminService) *cobra.Command {
	users := &cobra.Command{Use: "users", Short: "Inspect users"}
	users.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users with their effective access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := admins.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range list {
				line := fmt.Sprintf("%s\t%s\t%s", u.Email, u.Access.Role, u.ID)
				if u.Access.PromoActive {
					line += "\tpromo"
				}
				if u.MutedUntil != nil {
					line += "\tmuted until " + u.MutedUntil.Format(time.RFC3339)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	})
	return users
}

func newRoleCmd(admins *service.AdminService) *cobra.Command {
	role := &cobra.Command{Use: "role", Short: "Manage roles"}
	role.AddCommand(&cobra.Command{
		Use:   "grant <email> <role>",
		Short: "Set a user's role (admin, collaborator, paid, free)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := admins.FindUserByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("user %s: %w", args[0], err)
			}
			if _, err := admins.SetRole(cmd.Context(), nil, user.ID, args[1]); err != nil {
				return fmt.Errorf("set role %q: %w", args[1], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, args[1])
			return nil
		},
	})
	return role
}

func newPromoCmd(admins *service.AdminService) *cobra.Command {
	promo := &cobra.Command{Use: "promo", Short: "Manage promotional full access"}

	var days int
	var note string
	grant := &cobra.Command{
		Use:   "grant <email>",
		Short: "Grant full access, optionally for a number of days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := admins.FindUserByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("user %s: %w", args[0], err)
			}
			req := &types.PromoGrantRequest{Note: note}
			if days > 0 {
				expires := time.Now().AddDate(0, 0, days)
				req.ExpiresAt = &expires
			}
			if _, err := admins.GrantPromo(cmd.Context(), nil, user.ID, req); err != nil {
				return err
			}
			if req.ExpiresAt != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "granted promo to %s until %s\n", user.Email, req.ExpiresAt.Format(time.RFC3339))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "granted promo to %s\n", user.Email)
			}
			return nil
		},
	}
	grant.Flags().IntVar(&days, "days", 0, "Days until the grant expires (0 never expires)")
	grant.Flags().StringVar(&note, "note", "", "Why the grant was made")

	revoke := &cobra.Command{
		Use:   "revoke <email>",
		Short: "Remove every promo grant of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := admins.FindUserByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("user %s: %w", args[0], err)
			}
			if err := admins.RevokePromo(cmd.Context(), user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked promo for %s\n", user.Email)
			return nil
		},
	}

	promo.AddCommand(grant, revoke)
	return promo
}

func newMuteCmd(admins *service.AdminService) *cobra.Command {
	var hours int
	var reason string
	cmd := &cobra.Command{
		Use:   "mute <email>",
		Short: "Stop a user from chatting with Sasha for a while",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hours <= 0 {
				return fmt.Errorf("--hours must be positive")
			}
			user, err := admins.FindUserByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("user %s: %w", args[0], err)
			}
			mute, err := admins.Mute(cmd.Context(), nil, user.ID, &types.MuteRequest{
				MutedUntil: time.Now().Add(time.Duration(hours) * time.Hour),
				Reason:     reason,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "muted %s until %s\n", user.Email, mute.MutedUntil.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 24, "How long the mute lasts")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason shown to the user")
	return cmd
}

func newUnmuteCmd(admins *service.AdminService) *cobra.Command {
	return &cobra.Command{
		Use:   "unmute <email>",
		Short: "Lift a user's chat mute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := admins.FindUserByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("user %s: %w", args[0], err)
			}
			if err := admins.Unmute(cmd.Context(), user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unmuted %s\n", user.Email)
			return nil
		},
	}
}

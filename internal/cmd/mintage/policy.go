package mintage

import (
	"github.com/spf13/cobra"

	"github.com/louisbranch/mintage/internal/collection/domain"
)

func (a *app) policyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Manage update policies",
	}
	cmd.AddCommand(
		a.policySetDefaultCmd(),
		a.policySetTokensCmd(),
	)
	return cmd
}

func (a *app) policySetDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <kind>",
		Short: "Set the collection default policy (owner_only or total_locked)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			kind := domain.PolicyKind(args[0])
			if err := a.svc.SetDefaultPolicy(cmd.Context(), actor, kind); err != nil {
				return err
			}
			cmd.Printf("default policy set to %s\n", kind)
			return nil
		},
	}
}

func (a *app) policySetTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-tokens <kind> <id>...",
		Short: "Set the same policy override for specific token ids",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			tokenIDs, err := parseTokenIDs(args[1:])
			if err != nil {
				return err
			}
			kind := domain.PolicyKind(args[0])
			if err := a.svc.SetTokenPolicies(cmd.Context(), actor, tokenIDs, kind); err != nil {
				return err
			}
			cmd.Printf("policy %s set for %d token(s)\n", kind, len(tokenIDs))
			return nil
		},
	}
}

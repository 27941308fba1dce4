package mintage

import (
	"github.com/spf13/cobra"

	"github.com/louisbranch/mintage/internal/collection/domain"
)

func (a *app) minterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minter",
		Short: "Manage the minter role set",
	}
	cmd.AddCommand(
		a.minterRegisterCmd(),
		a.minterRevokeCmd(),
		a.minterListCmd(),
	)
	return cmd
}

func (a *app) minterRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <account>",
		Short: "Grant the minter role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			if err := a.svc.RegisterMinter(cmd.Context(), actor, domain.Account(args[0])); err != nil {
				return err
			}
			cmd.Printf("minter registered: %s\n", args[0])
			return nil
		},
	}
}

func (a *app) minterRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <account>",
		Short: "Revoke the minter role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			if err := a.svc.RevokeMinter(cmd.Context(), actor, domain.Account(args[0])); err != nil {
				return err
			}
			cmd.Printf("minter revoked: %s\n", args[0])
			return nil
		},
	}
}

func (a *app) minterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts holding the minter role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			minters, err := a.svc.Minters(cmd.Context())
			if err != nil {
				return err
			}
			if len(minters) == 0 {
				cmd.Println("no minters registered")
				return nil
			}
			for _, account := range minters {
				cmd.Println(string(account))
			}
			return nil
		},
	}
}

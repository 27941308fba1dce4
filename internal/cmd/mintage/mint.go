package mintage

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/louisbranch/mintage/internal/collection/domain"
)

func (a *app) mintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Assign new token ids",
	}
	cmd.AddCommand(
		a.mintOneCmd(),
		a.mintAmountCmd(),
		a.mintEachCmd(),
		a.mintSameAmountEachCmd(),
		a.mintSpecificCmd(),
	)
	return cmd
}

func (a *app) mintOneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "one <recipient>",
		Short: "Mint the next sequential token to one recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			assignments, err := a.svc.MintOne(cmd.Context(), actor, domain.Account(args[0]))
			if err != nil {
				return err
			}
			printAssignments(cmd, assignments)
			return nil
		},
	}
}

func (a *app) mintAmountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "amount <recipient> <n>",
		Short: "Mint n consecutive sequential tokens to one recipient",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			n, err := parseUint(args[1], "amount")
			if err != nil {
				return err
			}
			assignments, err := a.svc.MintAmount(cmd.Context(), actor, domain.Account(args[0]), n)
			if err != nil {
				return err
			}
			printAssignments(cmd, assignments)
			return nil
		},
	}
}

func (a *app) mintEachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "each <recipient>...",
		Short: "Mint one sequential token to each recipient, in list order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			assignments, err := a.svc.MintOneEach(cmd.Context(), actor, accounts(args))
			if err != nil {
				return err
			}
			printAssignments(cmd, assignments)
			return nil
		},
	}
}

func (a *app) mintSameAmountEachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "same-amount-each <n> <recipient>...",
		Short: "Mint n consecutive tokens to each recipient, recipient-major",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			n, err := parseUint(args[0], "amount")
			if err != nil {
				return err
			}
			assignments, err := a.svc.MintSameAmountEach(cmd.Context(), actor, accounts(args[1:]), n)
			if err != nil {
				return err
			}
			printAssignments(cmd, assignments)
			return nil
		},
	}
}

func (a *app) mintSpecificCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "specific <recipient> <id>...",
		Short: "Mint explicit token ids to one recipient",
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
			assignments, err := a.svc.MintSpecificBatch(cmd.Context(), actor, domain.Account(args[0]), tokenIDs)
			if err != nil {
				return err
			}
			printAssignments(cmd, assignments)
			return nil
		},
	}
}

func (a *app) freezeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "freeze",
		Short: "Permanently freeze every mint entry point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			settings, err := a.svc.FreezeMints(cmd.Context(), actor)
			if err != nil {
				return err
			}
			cmd.Printf("mints frozen at cursor %d\n", settings.NextTokenID)
			return nil
		},
	}
}

func (a *app) ceilingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ceiling <n>",
		Short: "Set the supply ceiling (0 = unlimited)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			ceiling, err := parseUint(args[0], "ceiling")
			if err != nil {
				return err
			}
			settings, err := a.svc.SetSupplyCeiling(cmd.Context(), actor, ceiling)
			if err != nil {
				return err
			}
			if settings.SupplyCeiling == 0 {
				cmd.Println("supply ceiling removed")
			} else {
				cmd.Printf("supply ceiling set to %d\n", settings.SupplyCeiling)
			}
			return nil
		},
	}
}

func printAssignments(cmd *cobra.Command, assignments []domain.Assignment) {
	for _, assignment := range assignments {
		cmd.Printf("token %d -> %s\n", assignment.TokenID, assignment.Recipient)
	}
}

func accounts(args []string) []domain.Account {
	out := make([]domain.Account, len(args))
	for i, arg := range args {
		out[i] = domain.Account(arg)
	}
	return out
}

func parseUint(raw, name string) (uint64, error) {
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return value, nil
}

func parseTokenIDs(args []string) ([]uint64, error) {
	tokenIDs := make([]uint64, len(args))
	for i, arg := range args {
		tokenID, err := parseUint(arg, "token id")
		if err != nil {
			return nil, err
		}
		tokenIDs[i] = tokenID
	}
	return tokenIDs, nil
}

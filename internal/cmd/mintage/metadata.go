package mintage

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) metaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Manage token metadata",
	}
	cmd.AddCommand(
		a.metaSetBaseCmd(),
		a.metaSetOverridesCmd(),
		a.metaResolveCmd(),
	)
	return cmd
}

func (a *app) metaSetBaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-base <base>",
		Short: "Replace the collection base metadata string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			base, err := a.svc.SetBase(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}
			cmd.Printf("base set to %s\n", base)
			return nil
		},
	}
}

func (a *app) metaSetOverridesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-overrides <id=uri>...",
		Short: "Set per-token metadata overrides",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor()
			if err != nil {
				return err
			}
			tokenIDs := make([]uint64, len(args))
			uris := make([]string, len(args))
			for i, arg := range args {
				id, uri, found := strings.Cut(arg, "=")
				if !found {
					return fmt.Errorf("expected id=uri, got %q", arg)
				}
				tokenID, err := parseUint(id, "token id")
				if err != nil {
					return err
				}
				tokenIDs[i] = tokenID
				uris[i] = uri
			}
			if err := a.svc.SetOverrides(cmd.Context(), actor, tokenIDs, uris); err != nil {
				return err
			}
			cmd.Printf("overrides set for %d token(s)\n", len(tokenIDs))
			return nil
		},
	}
}

func (a *app) metaResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve a token's metadata string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenID, err := parseUint(args[0], "token id")
			if err != nil {
				return err
			}
			uri, err := a.svc.Resolve(cmd.Context(), tokenID)
			if err != nil {
				return err
			}
			cmd.Println(uri)
			return nil
		},
	}
}

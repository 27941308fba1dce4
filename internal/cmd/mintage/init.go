package mintage

import (
	"github.com/spf13/cobra"

	"github.com/louisbranch/mintage/internal/collection/domain"
)

func (a *app) initCmd() *cobra.Command {
	var (
		owner   string
		base    string
		ceiling uint64
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := a.svc.Init(cmd.Context(), domain.CreateCollectionInput{
				Owner:         domain.Account(owner),
				Base:          base,
				SupplyCeiling: ceiling,
			})
			if err != nil {
				return err
			}
			cmd.Printf("collection initialized: owner=%s ceiling=%d\n", settings.Owner, settings.SupplyCeiling)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "collection owner account")
	cmd.Flags().StringVar(&base, "base", "", "base metadata string")
	cmd.Flags().Uint64Var(&ceiling, "ceiling", 0, "supply ceiling (0 = unlimited)")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("base")
	return cmd
}

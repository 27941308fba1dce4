package mintage

import (
	"github.com/spf13/cobra"
)

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the collection settings and assigned token count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := a.svc.Status(cmd.Context())
			if err != nil {
				return err
			}
			settings := status.Settings
			cmd.Printf("owner:          %s\n", settings.Owner)
			if settings.SupplyCeiling == 0 {
				cmd.Println("supply ceiling: unlimited")
			} else {
				cmd.Printf("supply ceiling: %d\n", settings.SupplyCeiling)
			}
			cmd.Printf("mints frozen:   %t\n", settings.MintsFrozen)
			cmd.Printf("next token id:  %d\n", settings.NextTokenID)
			cmd.Printf("assigned:       %d\n", status.AssignedCount)
			return nil
		},
	}
}

package mintage

import (
	"github.com/spf13/cobra"
)

func (a *app) eventsCmd() *cobra.Command {
	var (
		after uint64
		limit int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List journal events in append order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			events, err := a.svc.Events(cmd.Context(), after, limit)
			if err != nil {
				return err
			}
			for _, evt := range events {
				cmd.Printf("%d\t%s\t%s\t%s\t%s\n",
					evt.Seq,
					evt.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
					evt.Type,
					evt.Actor,
					string(evt.PayloadJSON),
				)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&after, "after", 0, "return events with sequence greater than this")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of events to return")
	return cmd
}

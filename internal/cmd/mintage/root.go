// Package mintage wires the collection service behind the mintage CLI.
package mintage

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/louisbranch/mintage/internal/collection/domain"
	"github.com/louisbranch/mintage/internal/collection/service"
	"github.com/louisbranch/mintage/internal/platform/config"
	"github.com/louisbranch/mintage/internal/storage/bbolt"
	"github.com/louisbranch/mintage/internal/storage/sqlite"
)

// Config holds mintage command configuration.
type Config struct {
	StorePath   string `env:"MINTAGE_DB_PATH" envDefault:"mintage.db"`
	JournalPath string `env:"MINTAGE_JOURNAL_PATH" envDefault:"mintage.events.db"`
	Actor       string `env:"MINTAGE_ACTOR"`
}

type app struct {
	cfg     Config
	svc     *service.Service
	closers []func() error
}

// New builds the mintage command tree. Environment variables provide the
// defaults; flags override them per invocation.
func New() (*cobra.Command, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:          "mintage",
		Short:        "Operate a gated collectible collection",
		Long:         "mintage manages a single token collection: minting, policies,\nmetadata and the minter role set, with every change journaled.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.cfg.StorePath, "db", cfg.StorePath, "path to the collection state database")
	root.PersistentFlags().StringVar(&a.cfg.JournalPath, "journal", cfg.JournalPath, "path to the event journal database")
	root.PersistentFlags().StringVar(&a.cfg.Actor, "actor", cfg.Actor, "account performing the call")

	root.PersistentPreRunE = func(*cobra.Command, []string) error { return a.open() }
	root.PersistentPostRunE = func(*cobra.Command, []string) error { return a.close() }

	root.AddCommand(
		a.initCmd(),
		a.mintCmd(),
		a.freezeCmd(),
		a.ceilingCmd(),
		a.minterCmd(),
		a.policyCmd(),
		a.metaCmd(),
		a.statusCmd(),
		a.eventsCmd(),
	)
	return root, nil
}

func (a *app) open() error {
	store, err := bbolt.Open(a.cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open collection store: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	journal, err := sqlite.Open(a.cfg.JournalPath)
	if err != nil {
		_ = a.close()
		return fmt.Errorf("open event journal: %w", err)
	}
	a.closers = append(a.closers, journal.Close)

	a.svc = service.New(store, journal)
	return nil
}

func (a *app) close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func (a *app) actor() (domain.Account, error) {
	account, err := domain.NormalizeAccount(a.cfg.Actor)
	if err != nil {
		return "", fmt.Errorf("an acting account is required (--actor or MINTAGE_ACTOR)")
	}
	return account, nil
}

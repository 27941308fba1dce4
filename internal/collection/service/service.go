// Package service exposes the collection engine behind a serialized façade.
// Every entry point runs check, mutate and notify to completion under one
// lock, and every successful mutation appends exactly one journal event.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/mintage/internal/collection/domain"
	"github.com/louisbranch/mintage/internal/collection/event"
	"github.com/louisbranch/mintage/internal/collection/metadata"
	"github.com/louisbranch/mintage/internal/collection/mint"
	"github.com/louisbranch/mintage/internal/collection/minter"
	"github.com/louisbranch/mintage/internal/collection/policy"
	apperrors "github.com/louisbranch/mintage/internal/errors"
	"github.com/louisbranch/mintage/internal/storage"
	"github.com/louisbranch/mintage/internal/telemetry"
)

const tracerName = "github.com/louisbranch/mintage/internal/collection/service"

// Status is a read-only snapshot of the collection.
type Status struct {
	Settings      domain.Settings
	AssignedCount uint64
}

// Service wires the engines over one collection store and journal.
type Service struct {
	mu sync.Mutex

	store    storage.CollectionStore
	policies *policy.Engine
	mints    *mint.Engine
	metadata *metadata.Resolver
	minters  *minter.Registry
	emitter  *telemetry.Emitter
	tracer   trace.Tracer
	clock    func() time.Time
}

// New creates a collection service. A nil journal disables event recording.
func New(store storage.CollectionStore, journal storage.EventJournal) *Service {
	policies := policy.NewEngine(store, store)
	return &Service{
		store:    store,
		policies: policies,
		mints:    mint.NewEngine(store, store, store, store),
		metadata: metadata.NewResolver(store, policies),
		minters:  minter.NewRegistry(store, store),
		emitter:  telemetry.NewEmitter(journal),
		tracer:   otel.Tracer(tracerName),
		clock:    time.Now,
	}
}

// Init creates the collection. It fails once settings exist.
func (s *Service) Init(ctx context.Context, input domain.CreateCollectionInput) (domain.Settings, error) {
	ctx, span := s.tracer.Start(ctx, "collection.init")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.store.Settings(ctx)
	switch {
	case err == nil:
		return domain.Settings{}, apperrors.New(apperrors.CodeCollectionInitialized, "collection is already initialized")
	case errors.Is(err, storage.ErrNotFound):
	default:
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	input, err = domain.NormalizeCreateCollectionInput(input)
	if err != nil {
		return domain.Settings{}, err
	}
	settings, err := domain.CreateCollection(input, s.clock)
	if err != nil {
		return domain.Settings{}, err
	}
	if err := s.store.PutSettings(ctx, settings); err != nil {
		return domain.Settings{}, fmt.Errorf("persist settings: %w", err)
	}
	if err := s.store.SetBase(ctx, input.Base); err != nil {
		return domain.Settings{}, fmt.Errorf("persist base: %w", err)
	}

	s.emit(ctx, event.TypeCollectionInitialized, settings.Owner, event.CollectionInitializedPayload{
		Owner:         string(settings.Owner),
		Base:          input.Base,
		SupplyCeiling: settings.SupplyCeiling,
	})
	return settings, nil
}

// MintOne assigns the next sequential id to the recipient.
func (s *Service) MintOne(ctx context.Context, actor, recipient domain.Account) ([]domain.Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "mint.one")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	assignments, err := s.mints.MintOne(ctx, actor, recipient)
	if err != nil {
		return nil, err
	}
	s.emitMint(ctx, actor, "mint_one", assignments, true)
	return assignments, nil
}

// MintAmount assigns n consecutive sequential ids to the recipient.
func (s *Service) MintAmount(ctx context.Context, actor, recipient domain.Account, n uint64) ([]domain.Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "mint.amount")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	assignments, err := s.mints.MintAmount(ctx, actor, recipient, n)
	if err != nil {
		return nil, err
	}
	s.emitMint(ctx, actor, "mint_amount", assignments, true)
	return assignments, nil
}

// MintOneEach assigns one sequential id per recipient, in list order.
func (s *Service) MintOneEach(ctx context.Context, actor domain.Account, recipients []domain.Account) ([]domain.Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "mint.one_each")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	assignments, err := s.mints.MintOneEach(ctx, actor, recipients)
	if err != nil {
		return nil, err
	}
	s.emitMint(ctx, actor, "mint_one_each", assignments, true)
	return assignments, nil
}

// MintSameAmountEach assigns n consecutive ids to each recipient,
// recipient-major.
func (s *Service) MintSameAmountEach(ctx context.Context, actor domain.Account, recipients []domain.Account, n uint64) ([]domain.Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "mint.same_amount_each")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	assignments, err := s.mints.MintSameAmountEach(ctx, actor, recipients, n)
	if err != nil {
		return nil, err
	}
	s.emitMint(ctx, actor, "mint_same_amount_each", assignments, true)
	return assignments, nil
}

// MintSpecific assigns a caller-chosen id to the recipient.
func (s *Service) MintSpecific(ctx context.Context, actor, recipient domain.Account, tokenID uint64) ([]domain.Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "mint.specific")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	assignments, err := s.mints.MintSpecific(ctx, actor, recipient, tokenID)
	if err != nil {
		return nil, err
	}
	s.emitMint(ctx, actor, "mint_specific", assignments, false)
	return assignments, nil
}

// MintSpecificBatch assigns caller-chosen ids to the recipient.
func (s *Service) MintSpecificBatch(ctx context.Context, actor, recipient domain.Account, tokenIDs []uint64) ([]domain.Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "mint.specific_batch")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	assignments, err := s.mints.MintSpecificBatch(ctx, actor, recipient, tokenIDs)
	if err != nil {
		return nil, err
	}
	s.emitMint(ctx, actor, "mint_specific_batch", assignments, false)
	return assignments, nil
}

// FreezeMints flips the one-way freeze latch.
func (s *Service) FreezeMints(ctx context.Context, actor domain.Account) (domain.Settings, error) {
	ctx, span := s.tracer.Start(ctx, "mint.freeze")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.mints.FreezeMints(ctx, actor)
	if err != nil {
		return domain.Settings{}, err
	}
	s.emit(ctx, event.TypeMintsFrozen, actor, event.MintsFrozenPayload{
		Cursor: settings.NextTokenID,
	})
	return settings, nil
}

// SetSupplyCeiling replaces the supply ceiling. Zero removes the bound.
func (s *Service) SetSupplyCeiling(ctx context.Context, actor domain.Account, ceiling uint64) (domain.Settings, error) {
	ctx, span := s.tracer.Start(ctx, "mint.set_supply_ceiling")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.store.Settings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	settings, err := s.mints.SetSupplyCeiling(ctx, actor, ceiling)
	if err != nil {
		return domain.Settings{}, err
	}
	s.emit(ctx, event.TypeSupplyCeilingChanged, actor, event.SupplyCeilingChangedPayload{
		Before: before.SupplyCeiling,
		After:  settings.SupplyCeiling,
	})
	return settings, nil
}

// SetDefaultPolicy registers the collection default policy.
func (s *Service) SetDefaultPolicy(ctx context.Context, actor domain.Account, kind domain.PolicyKind) error {
	ctx, span := s.tracer.Start(ctx, "policy.set_default")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.policies.SetDefaultPolicy(ctx, actor, kind); err != nil {
		return err
	}
	s.emit(ctx, event.TypeDefaultPolicyChanged, actor, event.DefaultPolicyChangedPayload{
		Kind: string(kind),
	})
	return nil
}

// SetTokenPolicies registers the same per-token policy override for every id.
func (s *Service) SetTokenPolicies(ctx context.Context, actor domain.Account, tokenIDs []uint64, kind domain.PolicyKind) error {
	ctx, span := s.tracer.Start(ctx, "policy.set_token_overrides")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.policies.SetTokenPolicies(ctx, actor, tokenIDs, kind); err != nil {
		return err
	}
	s.emit(ctx, event.TypeTokenPoliciesChanged, actor, event.TokenPoliciesChangedPayload{
		Kind:     string(kind),
		TokenIDs: tokenIDs,
	})
	return nil
}

// SetBase replaces the collection base metadata string.
func (s *Service) SetBase(ctx context.Context, actor domain.Account, base string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "metadata.set_base")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	base, err := s.metadata.SetBase(ctx, actor, base)
	if err != nil {
		return "", err
	}
	s.emit(ctx, event.TypeBaseChanged, actor, event.BaseChangedPayload{Base: base})
	return base, nil
}

// SetOverrides writes per-token metadata overrides pairwise.
func (s *Service) SetOverrides(ctx context.Context, actor domain.Account, tokenIDs []uint64, uris []string) error {
	ctx, span := s.tracer.Start(ctx, "metadata.set_overrides")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.metadata.SetOverrides(ctx, actor, tokenIDs, uris); err != nil {
		return err
	}
	s.emit(ctx, event.TypeTokenURIsChanged, actor, event.TokenURIsChangedPayload{
		TokenIDs: tokenIDs,
	})
	return nil
}

// RegisterMinter grants the minter role.
func (s *Service) RegisterMinter(ctx context.Context, actor, account domain.Account) error {
	ctx, span := s.tracer.Start(ctx, "minter.register")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.minters.Register(ctx, actor, account)
	if err != nil {
		return err
	}
	s.emit(ctx, event.TypeMinterRegistered, actor, event.MinterRegisteredPayload{
		Account: string(account),
	})
	return nil
}

// RevokeMinter removes the minter role.
func (s *Service) RevokeMinter(ctx context.Context, actor, account domain.Account) error {
	ctx, span := s.tracer.Start(ctx, "minter.revoke")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.minters.Revoke(ctx, actor, account)
	if err != nil {
		return err
	}
	s.emit(ctx, event.TypeMinterRevoked, actor, event.MinterRevokedPayload{
		Account: string(account),
	})
	return nil
}

// Resolve returns the token's metadata string.
func (s *Service) Resolve(ctx context.Context, tokenID uint64) (string, error) {
	ctx, span := s.tracer.Start(ctx, "metadata.resolve")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadata.Resolve(ctx, tokenID)
}

// OwnerOf returns the owning account of an assigned token.
func (s *Service) OwnerOf(ctx context.Context, tokenID uint64) (domain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.owner_of")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.OwnerOf(ctx, tokenID)
}

// BalanceOf returns the number of tokens held by the account.
func (s *Service) BalanceOf(ctx context.Context, account domain.Account) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.balance_of")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.BalanceOf(ctx, account)
}

// Status returns the settings snapshot plus the assigned token count.
func (s *Service) Status(ctx context.Context) (Status, error) {
	ctx, span := s.tracer.Start(ctx, "collection.status")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.store.Settings(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("load settings: %w", err)
	}
	count, err := s.store.AssignedCount(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("count assignments: %w", err)
	}
	return Status{Settings: settings, AssignedCount: count}, nil
}

// Minters lists accounts holding the minter role.
func (s *Service) Minters(ctx context.Context) ([]domain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "minter.list")
	defer span.End()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minters.List(ctx)
}

// Events returns up to limit journal events with Seq > afterSeq.
func (s *Service) Events(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	ctx, span := s.tracer.Start(ctx, "collection.events")
	defer span.End()
	return s.emitter.List(ctx, afterSeq, limit)
}

func (s *Service) emitMint(ctx context.Context, actor domain.Account, variant string, assignments []domain.Assignment, sequential bool) {
	recipients := make(map[string][]uint64, len(assignments))
	for _, assignment := range assignments {
		key := string(assignment.Recipient)
		recipients[key] = append(recipients[key], assignment.TokenID)
	}
	s.emit(ctx, event.TypeTokensMinted, actor, event.TokensMintedPayload{
		Variant:    variant,
		Recipients: recipients,
		Sequential: sequential,
	})
}

// emit appends one journal event. Append failure is logged and never unwinds
// the committed mutation.
func (s *Service) emit(ctx context.Context, eventType event.Type, actor domain.Account, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("marshal %s payload: %v", eventType, err)
		return
	}
	if _, err := s.emitter.Emit(ctx, event.Event{
		Type:        eventType,
		Actor:       actor,
		PayloadJSON: body,
	}); err != nil {
		log.Printf("append %s event: %v", eventType, err)
	}
}

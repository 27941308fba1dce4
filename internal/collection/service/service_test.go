package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/louisbranch/mintage/internal/collection/domain"
	"github.com/louisbranch/mintage/internal/collection/event"
	apperrors "github.com/louisbranch/mintage/internal/errors"
	"github.com/louisbranch/mintage/internal/storage/bbolt"
)

type recordingJournal struct {
	events []event.Event
}

func (j *recordingJournal) AppendEvent(_ context.Context, evt event.Event) (event.Event, error) {
	evt.Seq = uint64(len(j.events) + 1)
	j.events = append(j.events, evt)
	return evt, nil
}

func (j *recordingJournal) ListEvents(_ context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	var page []event.Event
	for _, evt := range j.events {
		if evt.Seq <= afterSeq {
			continue
		}
		page = append(page, evt)
		if limit > 0 && len(page) == limit {
			break
		}
	}
	return page, nil
}

func newTestService(t *testing.T) (*Service, *recordingJournal) {
	t.Helper()
	store, err := bbolt.Open(filepath.Join(t.TempDir(), "collection.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	journal := &recordingJournal{}
	return New(store, journal), journal
}

func initCollection(t *testing.T, svc *Service) {
	t.Helper()
	_, err := svc.Init(context.Background(), domain.CreateCollectionInput{
		Owner: "alice",
		Base:  "ipfs://bafy/collection",
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
}

func TestInitIsOneShot(t *testing.T) {
	svc, journal := newTestService(t)

	settings, err := svc.Init(context.Background(), domain.CreateCollectionInput{
		Owner:         " alice ",
		Base:          "ipfs://bafy/collection",
		SupplyCeiling: 10,
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if settings.Owner != "alice" {
		t.Fatalf("expected trimmed owner, got %q", settings.Owner)
	}
	if settings.NextTokenID != domain.FirstTokenID {
		t.Fatalf("expected cursor at %d, got %d", domain.FirstTokenID, settings.NextTokenID)
	}

	_, err = svc.Init(context.Background(), domain.CreateCollectionInput{
		Owner: "bob",
		Base:  "ipfs://other",
	})
	if !apperrors.IsCode(err, apperrors.CodeCollectionInitialized) {
		t.Fatalf("expected already initialized, got %v", err)
	}

	if len(journal.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(journal.events))
	}
	if journal.events[0].Type != event.TypeCollectionInitialized {
		t.Fatalf("expected initialized event, got %s", journal.events[0].Type)
	}
}

func TestEverySuccessfulMutationEmitsOneEvent(t *testing.T) {
	svc, journal := newTestService(t)
	initCollection(t, svc)
	ctx := context.Background()

	mutations := []struct {
		name string
		call func() error
		want event.Type
	}{
		{"register minter", func() error {
			return svc.RegisterMinter(ctx, "alice", "mia")
		}, event.TypeMinterRegistered},
		{"mint one", func() error {
			_, err := svc.MintOne(ctx, "mia", "bob")
			return err
		}, event.TypeTokensMinted},
		{"mint same amount each", func() error {
			_, err := svc.MintSameAmountEach(ctx, "mia", []domain.Account{"bob", "carol"}, 2)
			return err
		}, event.TypeTokensMinted},
		{"mint specific", func() error {
			_, err := svc.MintSpecific(ctx, "mia", "dave", 100)
			return err
		}, event.TypeTokensMinted},
		{"set supply ceiling", func() error {
			_, err := svc.SetSupplyCeiling(ctx, "alice", 500)
			return err
		}, event.TypeSupplyCeilingChanged},
		{"set base", func() error {
			_, err := svc.SetBase(ctx, "alice", "ipfs://v2")
			return err
		}, event.TypeBaseChanged},
		{"set overrides", func() error {
			return svc.SetOverrides(ctx, "alice", []uint64{1}, []string{"pinned"})
		}, event.TypeTokenURIsChanged},
		{"set token policies", func() error {
			return svc.SetTokenPolicies(ctx, "alice", []uint64{1}, domain.PolicyKindOwnerOnly)
		}, event.TypeTokenPoliciesChanged},
		{"set default policy", func() error {
			return svc.SetDefaultPolicy(ctx, "alice", domain.PolicyKindOwnerOnly)
		}, event.TypeDefaultPolicyChanged},
		{"revoke minter", func() error {
			return svc.RevokeMinter(ctx, "alice", "mia")
		}, event.TypeMinterRevoked},
		{"freeze mints", func() error {
			_, err := svc.FreezeMints(ctx, "alice")
			return err
		}, event.TypeMintsFrozen},
	}

	for i, mutation := range mutations {
		before := len(journal.events)
		if err := mutation.call(); err != nil {
			t.Fatalf("%s: %v", mutation.name, err)
		}
		if len(journal.events) != before+1 {
			t.Fatalf("%s: expected exactly one event, got %d new", mutation.name, len(journal.events)-before)
		}
		latest := journal.events[len(journal.events)-1]
		if latest.Type != mutation.want {
			t.Fatalf("%s: expected %s, got %s", mutation.name, mutation.want, latest.Type)
		}
		if latest.Seq != uint64(i+2) {
			t.Fatalf("%s: expected seq %d, got %d", mutation.name, i+2, latest.Seq)
		}
	}
}

func TestFailedMutationEmitsNothing(t *testing.T) {
	svc, journal := newTestService(t)
	initCollection(t, svc)
	ctx := context.Background()
	baseline := len(journal.events)

	failures := []func() error{
		func() error { _, err := svc.MintOne(ctx, "stranger", "bob"); return err },
		func() error { _, err := svc.SetSupplyCeiling(ctx, "stranger", 5); return err },
		func() error { _, err := svc.SetBase(ctx, "alice", "  "); return err },
		func() error { return svc.SetOverrides(ctx, "alice", []uint64{1, 2}, []string{"a"}) },
		func() error { return svc.RegisterMinter(ctx, "stranger", "mia") },
	}
	for i, call := range failures {
		if err := call(); err == nil {
			t.Fatalf("failure %d: expected error", i)
		}
	}
	if len(journal.events) != baseline {
		t.Fatalf("expected no events from failed calls, got %d new", len(journal.events)-baseline)
	}
}

func TestMintEventPayloadGroupsRecipients(t *testing.T) {
	svc, journal := newTestService(t)
	initCollection(t, svc)
	ctx := context.Background()

	if err := svc.RegisterMinter(ctx, "alice", "mia"); err != nil {
		t.Fatalf("register minter: %v", err)
	}
	if _, err := svc.MintSameAmountEach(ctx, "mia", []domain.Account{"bob", "carol"}, 2); err != nil {
		t.Fatalf("mint: %v", err)
	}

	latest := journal.events[len(journal.events)-1]
	var payload event.TokensMintedPayload
	if err := json.Unmarshal(latest.PayloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Variant != "mint_same_amount_each" {
		t.Fatalf("expected variant recorded, got %q", payload.Variant)
	}
	if !payload.Sequential {
		t.Fatal("expected sequential flag set")
	}
	wantBob := []uint64{1, 2}
	if len(payload.Recipients["bob"]) != 2 || payload.Recipients["bob"][0] != wantBob[0] || payload.Recipients["bob"][1] != wantBob[1] {
		t.Fatalf("expected bob to receive tokens 1 and 2, got %v", payload.Recipients["bob"])
	}
	if len(payload.Recipients["carol"]) != 2 || payload.Recipients["carol"][0] != 3 {
		t.Fatalf("expected carol to receive tokens 3 and 4, got %v", payload.Recipients["carol"])
	}
	if latest.Actor != "mia" {
		t.Fatalf("expected actor mia, got %q", latest.Actor)
	}
}

func TestCeilingScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Init(ctx, domain.CreateCollectionInput{
		Owner:         "alice",
		Base:          "ipfs://bafy",
		SupplyCeiling: 4,
	}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := svc.RegisterMinter(ctx, "alice", "mia"); err != nil {
		t.Fatalf("register minter: %v", err)
	}

	if _, err := svc.MintAmount(ctx, "mia", "bob", 4); err != nil {
		t.Fatalf("mint to ceiling: %v", err)
	}
	_, err := svc.MintOne(ctx, "mia", "bob")
	if !apperrors.IsCode(err, apperrors.CodeOverSupplyCeiling) {
		t.Fatalf("expected over supply ceiling, got %v", err)
	}

	if _, err := svc.SetSupplyCeiling(ctx, "alice", 0); err != nil {
		t.Fatalf("lift ceiling: %v", err)
	}
	assignments, err := svc.MintOne(ctx, "mia", "bob")
	if err != nil {
		t.Fatalf("mint after lifting ceiling: %v", err)
	}
	if assignments[0].TokenID != 5 {
		t.Fatalf("expected token 5, got %d", assignments[0].TokenID)
	}
}

func TestReadSurface(t *testing.T) {
	svc, _ := newTestService(t)
	initCollection(t, svc)
	ctx := context.Background()

	if err := svc.RegisterMinter(ctx, "alice", "mia"); err != nil {
		t.Fatalf("register minter: %v", err)
	}
	if _, err := svc.MintAmount(ctx, "mia", "bob", 3); err != nil {
		t.Fatalf("mint: %v", err)
	}

	owner, err := svc.OwnerOf(ctx, 2)
	if err != nil {
		t.Fatalf("owner of: %v", err)
	}
	if owner != "bob" {
		t.Fatalf("expected bob, got %q", owner)
	}

	balance, err := svc.BalanceOf(ctx, "bob")
	if err != nil {
		t.Fatalf("balance of: %v", err)
	}
	if balance != 3 {
		t.Fatalf("expected balance 3, got %d", balance)
	}

	uri, err := svc.Resolve(ctx, 2)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if uri != "ipfs://bafy/collection/2" {
		t.Fatalf("expected base concatenation, got %q", uri)
	}

	status, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.AssignedCount != 3 {
		t.Fatalf("expected 3 assigned, got %d", status.AssignedCount)
	}
	if status.Settings.NextTokenID != 4 {
		t.Fatalf("expected cursor 4, got %d", status.Settings.NextTokenID)
	}

	minters, err := svc.Minters(ctx)
	if err != nil {
		t.Fatalf("minters: %v", err)
	}
	if len(minters) != 1 || minters[0] != "mia" {
		t.Fatalf("expected [mia], got %v", minters)
	}

	events, err := svc.Events(ctx, 0, 10)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
}

func TestFreezeBlocksMintingThroughService(t *testing.T) {
	svc, _ := newTestService(t)
	initCollection(t, svc)
	ctx := context.Background()

	if err := svc.RegisterMinter(ctx, "alice", "mia"); err != nil {
		t.Fatalf("register minter: %v", err)
	}
	if _, err := svc.FreezeMints(ctx, "alice"); err != nil {
		t.Fatalf("freeze: %v", err)
	}

	_, err := svc.MintOne(ctx, "mia", "bob")
	if !apperrors.IsCode(err, apperrors.CodeMintsFrozen) {
		t.Fatalf("expected mints frozen, got %v", err)
	}
	_, err = svc.MintSpecific(ctx, "mia", "bob", 7)
	if !apperrors.IsCode(err, apperrors.CodeMintsFrozen) {
		t.Fatalf("expected mints frozen for explicit mint, got %v", err)
	}
}

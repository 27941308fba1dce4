package mintage

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/mintage/internal/errors"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root, err := New()
	if err != nil {
		t.Fatalf("build command: %v", err)
	}
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--db", filepath.Join(dir, "state.db"),
		"--journal", filepath.Join(dir, "events.db"),
	}, args...))
	err = root.Execute()
	return out.String(), err
}

func TestLifecycleThroughCLI(t *testing.T) {
	t.Setenv("MINTAGE_ACTOR", "")
	dir := t.TempDir()

	out, err := run(t, dir, "init", "--owner", "alice", "--base", "ipfs://bafy")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "owner=alice") {
		t.Fatalf("expected owner in output, got %q", out)
	}

	if _, err := run(t, dir, "--actor", "alice", "minter", "register", "mia"); err != nil {
		t.Fatalf("register minter: %v", err)
	}

	out, err = run(t, dir, "--actor", "mia", "mint", "one", "bob")
	if err != nil {
		t.Fatalf("mint one: %v", err)
	}
	if !strings.Contains(out, "token 1 -> bob") {
		t.Fatalf("expected assignment in output, got %q", out)
	}

	out, err = run(t, dir, "meta", "resolve", "1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if strings.TrimSpace(out) != "ipfs://bafy/1" {
		t.Fatalf("expected resolved uri, got %q", out)
	}

	out, err = run(t, dir, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "assigned:       1") {
		t.Fatalf("expected assigned count, got %q", out)
	}

	out, err = run(t, dir, "events")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 journal events, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], "collection.initialized") {
		t.Fatalf("expected initialized event first, got %q", lines[0])
	}
}

func TestMutationsRequireActor(t *testing.T) {
	t.Setenv("MINTAGE_ACTOR", "")
	dir := t.TempDir()

	if _, err := run(t, dir, "init", "--owner", "alice", "--base", "ipfs://bafy"); err != nil {
		t.Fatalf("init: %v", err)
	}

	_, err := run(t, dir, "mint", "one", "bob")
	if err == nil || !strings.Contains(err.Error(), "acting account") {
		t.Fatalf("expected missing actor error, got %v", err)
	}
}

func TestActorFromEnvironment(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, dir, "init", "--owner", "alice", "--base", "ipfs://bafy"); err != nil {
		t.Fatalf("init: %v", err)
	}

	t.Setenv("MINTAGE_ACTOR", "alice")
	if _, err := run(t, dir, "minter", "register", "mia"); err != nil {
		t.Fatalf("register with env actor: %v", err)
	}
}

func TestDomainErrorsSurfaceThroughCLI(t *testing.T) {
	t.Setenv("MINTAGE_ACTOR", "")
	dir := t.TempDir()

	if _, err := run(t, dir, "init", "--owner", "alice", "--base", "ipfs://bafy"); err != nil {
		t.Fatalf("init: %v", err)
	}

	_, err := run(t, dir, "--actor", "stranger", "mint", "one", "bob")
	if !apperrors.IsCode(err, apperrors.CodeNotMinter) {
		t.Fatalf("expected not minter, got %v", err)
	}

	_, err = run(t, dir, "init", "--owner", "bob", "--base", "ipfs://other")
	if !apperrors.IsCode(err, apperrors.CodeCollectionInitialized) {
		t.Fatalf("expected already initialized, got %v", err)
	}
}

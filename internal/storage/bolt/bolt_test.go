package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tinoosan/fluxo/internal/cep"
	"github.com/tinoosan/fluxo/internal/ledger"
)

func TestPutGetSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "cep.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if _, err := s.Get(ctx, "01310100"); !errors.Is(err, cep.ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
	want := ledger.Address{PostalCode: "01310100", Street: "Avenida Paulista", City: "São Paulo", State: "SP"}
	if err := s.Put(ctx, "01310100", want); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "01310100")
	if err != nil || got != want {
		t.Fatalf("get: %+v %v", got, err)
	}
	if n, _ := s.Count(); n != 1 {
		t.Fatalf("count: %d", n)
	}
}

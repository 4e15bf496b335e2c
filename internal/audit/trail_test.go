package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fluxo/internal/ledger"
)

type fakeStore struct {
	recs []ledger.AuditRecord
	err  error
}

func (f *fakeStore) AppendAudit(_ context.Context, rec ledger.AuditRecord) (ledger.AuditRecord, error) {
	if f.err != nil {
		return ledger.AuditRecord{}, f.err
	}
	rec.ID = int64(len(f.recs) + 1)
	f.recs = append(f.recs, rec)
	return rec, nil
}

func (f *fakeStore) ListAudit(_ context.Context, _ ledger.AuditQuery) ([]ledger.AuditRecord, error) {
	return f.recs, nil
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRecordUsesContextActorAndRequestID(t *testing.T) {
	st := &fakeStore{}
	tr := New(st, testLogger())
	ctx := WithRequestID(WithActor(context.Background(), "ana"), "req-1")
	before := ledger.Client{ID: 1, Name: "Ana", Status: ledger.StatusAtivo}
	after := before
	after.Status = ledger.StatusInativo

	require.NoError(t, tr.Record(ctx, ledger.EntityClient, ledger.OpUpdate, 1, before, after))
	require.Len(t, st.recs, 1)
	rec := st.recs[0]
	assert.Equal(t, "ana", rec.User)
	assert.Equal(t, "req-1", rec.RequestID)
	assert.Contains(t, string(rec.Before), `"status":"ativo"`)
	assert.Contains(t, string(rec.After), `"status":"inativo"`)
}

func TestRecordDefaults(t *testing.T) {
	st := &fakeStore{}
	tr := New(st, testLogger())
	require.NoError(t, tr.Record(context.Background(), ledger.EntitySupplier, ledger.OpInsert, 3, nil, ledger.Supplier{ID: 3}))
	rec := st.recs[0]
	assert.Equal(t, DefaultActor, rec.User)
	assert.NotEmpty(t, rec.RequestID)
	assert.Empty(t, rec.Before)
	assert.NotEmpty(t, rec.After)
}

func TestEntriesAreNotAudited(t *testing.T) {
	st := &fakeStore{}
	tr := New(st, testLogger())
	require.NoError(t, tr.Record(context.Background(), ledger.EntityEntry, ledger.OpDelete, 9, ledger.Entry{ID: 9}, nil))
	assert.Empty(t, st.recs)
}

func TestRecordReturnsStoreError(t *testing.T) {
	boom := errors.New("disk full")
	tr := New(&fakeStore{err: boom}, testLogger())
	err := tr.Record(context.Background(), ledger.EntityEmployee, ledger.OpInsert, 1, nil, ledger.Employee{ID: 1})
	assert.ErrorIs(t, err, boom)
}

func TestWithEmptyValuesKeepContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithActor(ctx, ""))
	assert.Equal(t, ctx, WithRequestID(ctx, ""))
	assert.Equal(t, "", RequestIDFromContext(ctx))
}

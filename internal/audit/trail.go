// Package audit appends before/after snapshots of party mutations to the
// audit table. Records are never updated or removed.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/snapshot"
)

// Store persists audit records.
type Store interface {
	AppendAudit(ctx context.Context, rec ledger.AuditRecord) (ledger.AuditRecord, error)
	ListAudit(ctx context.Context, q ledger.AuditQuery) ([]ledger.AuditRecord, error)
}

// Recorder is what the registries depend on.
type Recorder interface {
	Record(ctx context.Context, table ledger.Entity, op ledger.Operation, id int64, before, after any) error
}

// Trail writes and reads audit records.
type Trail struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func New(store Store, logger *slog.Logger) *Trail {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trail{store: store, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Record snapshots before and after (either may be nil) and appends one record.
// Entities whose policy is not audited are ignored. Failures are logged at
// ERROR and returned; callers treat them as non-fatal because the audited
// mutation has already committed.
func (t *Trail) Record(ctx context.Context, table ledger.Entity, op ledger.Operation, id int64, before, after any) error {
	if !table.Audited() {
		return nil
	}
	rec := ledger.AuditRecord{
		Table:     table,
		Operation: op,
		RecordID:  id,
		User:      ActorFromContext(ctx),
		RequestID: RequestIDFromContext(ctx),
		At:        t.now(),
	}
	if rec.RequestID == "" {
		rec.RequestID = uuid.NewString()
	}
	var err error
	if rec.Before, err = encode(before); err != nil {
		t.log.Error("audit snapshot failed", "table", table, "id", id, "err", err)
		return err
	}
	if rec.After, err = encode(after); err != nil {
		t.log.Error("audit snapshot failed", "table", table, "id", id, "err", err)
		return err
	}
	if _, err := t.store.AppendAudit(ctx, rec); err != nil {
		t.log.Error("audit write failed", "table", table, "op", op, "id", id, "req_id", rec.RequestID, "err", err)
		return err
	}
	if before != nil && after != nil {
		b, _ := snapshot.Parse(rec.Before)
		a, _ := snapshot.Parse(rec.After)
		t.log.Debug("audit recorded", "table", table, "op", op, "id", id, "changed", snapshot.Diff(b, a))
	}
	return nil
}

// List returns audit records newest first.
func (t *Trail) List(ctx context.Context, q ledger.AuditQuery) ([]ledger.AuditRecord, error) {
	return t.store.ListAudit(ctx, q)
}

func encode(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	s, err := snapshot.Of(v)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s.MarshalStableJSON()
}

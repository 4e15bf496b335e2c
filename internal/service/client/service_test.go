package client_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fluxo/internal/audit"
	"github.com/tinoosan/fluxo/internal/errs"
	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/service/client"
	"github.com/tinoosan/fluxo/internal/storage/sqlstore"
	"github.com/tinoosan/fluxo/internal/testutil"
)

type stubLookup struct{ addr ledger.Address }

func (s stubLookup) Lookup(context.Context, string) (ledger.Address, error) { return s.addr, nil }

func newService(t *testing.T) (client.Service, *sqlstore.Store) {
	t.Helper()
	st := testutil.Store(t)
	trail := audit.New(st, testutil.Logger())
	lookup := stubLookup{ledger.Address{Street: "Avenida Paulista", City: "São Paulo", State: "SP"}}
	return client.New(st, st, trail, lookup, testutil.Logger()), st
}

func auditOps(t *testing.T, st *sqlstore.Store, id int64) []ledger.Operation {
	t.Helper()
	recs, err := st.ListAudit(context.Background(), ledger.AuditQuery{Table: ledger.EntityClient, RecordID: id})
	require.NoError(t, err)
	ops := make([]ledger.Operation, 0, len(recs))
	for _, r := range recs {
		ops = append(ops, r.Operation)
	}
	return ops
}

func TestCreateNormalizesAndAudits(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	res := svc.Create(ctx, testutil.Client())
	require.True(t, res.OK, res.Message)
	assert.Equal(t, "Cliente criado com sucesso (ID: 1)", res.Message)

	got, err := svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "11144477735", got.Document)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, "11987654321", got.Phone)
	assert.Equal(t, "01310100", got.PostalCode)
	assert.Equal(t, "SP", got.State)
	assert.Equal(t, ledger.PersonFisica, got.Kind)
	assert.Equal(t, ledger.StatusAtivo, got.Status)

	byDoc, err := svc.GetByDocument(ctx, "111.444.777-35")
	require.NoError(t, err)
	assert.Equal(t, got.ID, byDoc.ID)

	assert.Equal(t, []ledger.Operation{ledger.OpInsert}, auditOps(t, st, res.ID))
}

func TestCreateCollectsEveryViolation(t *testing.T) {
	svc, _ := newService(t)
	c := testutil.Client()
	c.Name, c.Email, c.Document, c.Phone, c.Address.State = "Al", "sem-arroba", "111.444.777-36", "1234", "S"

	res := svc.Create(context.Background(), c)
	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err(), errs.ErrInvalid)
	msgs := strings.Split(res.Message, "\n")
	assert.Contains(t, msgs, "Nome deve ter no mínimo 3 caracteres")
	assert.Contains(t, msgs, "Email inválido")
	assert.Contains(t, msgs, "CPF inválido")
	assert.Contains(t, msgs, "Telefone deve ter 10 ou 11 dígitos")
	assert.Contains(t, msgs, "UF deve ter 2 caracteres")
}

func TestDuplicateDocumentAndEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.True(t, svc.Create(ctx, testutil.Client()).OK)

	res := svc.Create(ctx, testutil.Client())
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err(), errs.ErrConflict)
	assert.Equal(t, "CPF já cadastrado no sistema", res.Message)

	other := testutil.Client()
	other.Document = "529.982.247-25"
	res = svc.Create(ctx, other)
	assert.ErrorIs(t, res.Err(), errs.ErrConflict)
	assert.Equal(t, "Email já cadastrado no sistema", res.Message)
}

func TestUpdateExcludesOwnRecord(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	first := svc.Create(ctx, testutil.Client())
	second := testutil.Client()
	second.Document, second.Email = "529.982.247-25", "bia@example.com"
	created := svc.Create(ctx, second)
	require.True(t, created.OK)

	same := testutil.Client()
	same.Notes = "cliente antigo"
	res := svc.Update(ctx, first.ID, same)
	require.True(t, res.OK, res.Message)
	assert.Equal(t, "Cliente atualizado com sucesso", res.Message)

	stolen := second
	stolen.Email = "ana@example.com"
	res = svc.Update(ctx, created.ID, stolen)
	assert.ErrorIs(t, res.Err(), errs.ErrConflict)
	assert.Equal(t, "Email já cadastrado por outro cliente", res.Message)

	res = svc.Update(ctx, 99, same)
	assert.ErrorIs(t, res.Err(), errs.ErrNotFound)

	assert.Equal(t, []ledger.Operation{ledger.OpUpdate, ledger.OpInsert}, auditOps(t, st, first.ID))
}

func TestSoftDeleteIsIdempotent(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	created := svc.Create(ctx, testutil.Client())

	res := svc.SoftDelete(ctx, created.ID)
	require.True(t, res.OK)
	assert.Equal(t, "Cliente desativado com sucesso", res.Message)

	res = svc.SoftDelete(ctx, created.ID)
	require.True(t, res.OK)
	assert.Equal(t, "Cliente já está inativo", res.Message)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusInativo, got.Status)

	total, _ := svc.Count(ctx)
	inactive, _ := svc.CountByStatus(ctx, ledger.StatusInativo)
	assert.EqualValues(t, 1, total)
	assert.EqualValues(t, 1, inactive)

	assert.Equal(t, []ledger.Operation{ledger.OpDelete, ledger.OpInsert}, auditOps(t, st, created.ID))

	res = svc.SoftDelete(ctx, 42)
	assert.ErrorIs(t, res.Err(), errs.ErrNotFound)
	assert.Equal(t, "Cliente não encontrado", res.Message)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.List(context.Background(), ledger.ListQuery{Status: ledger.StatusLicenca})
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestLookupAddress(t *testing.T) {
	svc, _ := newService(t)
	addr, err := svc.LookupAddress(context.Background(), "01310-100")
	require.NoError(t, err)
	assert.Equal(t, "01310100", addr.PostalCode)
	assert.Equal(t, "SP", addr.State)

	_, err = svc.LookupAddress(context.Background(), "123")
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

package employee_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fluxo/internal/audit"
	"github.com/tinoosan/fluxo/internal/errs"
	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/service/employee"
	"github.com/tinoosan/fluxo/internal/testutil"
)

func newService(t *testing.T) employee.Service {
	t.Helper()
	st := testutil.Store(t)
	return employee.New(st, st, audit.New(st, testutil.Logger()), nil, testutil.Logger())
}

func TestCreateEmployee(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	res := svc.Create(ctx, testutil.Employee())
	require.True(t, res.OK, res.Message)
	assert.Equal(t, "Funcionário criado com sucesso (ID: 1)", res.Message)

	got, err := svc.GetByDocument(ctx, "529.982.247-25")
	require.NoError(t, err)
	assert.Equal(t, "Analista", got.Role)
	assert.Equal(t, int64(350000), ledger.Cents(got.Salary))
}

func TestEmployeeRules(t *testing.T) {
	svc := newService(t)
	e := testutil.Employee()
	e.CPF, e.Role, e.Salary = "", " ", ledger.Zero()
	e.HiredOn = time.Now().UTC().AddDate(0, 0, 3)

	res := svc.Create(context.Background(), e)
	require.False(t, res.OK)
	msgs := strings.Split(res.Message, "\n")
	assert.Contains(t, msgs, "CPF inválido")
	assert.Contains(t, msgs, "Cargo inválido")
	assert.Contains(t, msgs, "Salário deve ser maior que zero")
	assert.Contains(t, msgs, "Data de admissão não pode ser no futuro")
}

func TestEmployeeUniqueness(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	first := svc.Create(ctx, testutil.Employee())
	require.True(t, first.OK)

	res := svc.Create(ctx, testutil.Employee())
	assert.ErrorIs(t, res.Err(), errs.ErrConflict)
	assert.Equal(t, "CPF já cadastrado no sistema", res.Message)

	other := testutil.Employee()
	other.CPF, other.Email = "111.444.777-35", "outro@example.com"
	second := svc.Create(ctx, other)
	require.True(t, second.OK, second.Message)

	other.Email = "carlos@example.com"
	res = svc.Update(ctx, second.ID, other)
	assert.ErrorIs(t, res.Err(), errs.ErrConflict)
	assert.Equal(t, "Email já cadastrado por outro funcionário", res.Message)
}

func TestSoftDeleteEmployee(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	created := svc.Create(ctx, testutil.Employee())

	assert.Equal(t, "Funcionário desativado com sucesso", svc.SoftDelete(ctx, created.ID).Message)
	assert.Equal(t, "Funcionário já está inativo", svc.SoftDelete(ctx, created.ID).Message)
	res := svc.SoftDelete(ctx, 77)
	assert.ErrorIs(t, res.Err(), errs.ErrNotFound)
	assert.Equal(t, "Funcionário não encontrado", res.Message)
}

func TestMonthlyPayroll(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	e := testutil.Employee()
	e.HiredOn = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	require.True(t, svc.Create(ctx, e).OK)

	before, err := svc.MonthlyPayroll(ctx, 2025, time.May)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ledger.Cents(before))

	june, err := svc.MonthlyPayroll(ctx, 2025, time.June)
	require.NoError(t, err)
	assert.Equal(t, int64(350000), ledger.Cents(june))

	_, err = svc.MonthlyPayroll(ctx, 2025, 13)
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tinoosan/fluxo/internal/audit"
	"github.com/tinoosan/fluxo/internal/cep"
	"github.com/tinoosan/fluxo/internal/config"
	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/service/catalog"
	"github.com/tinoosan/fluxo/internal/service/client"
	"github.com/tinoosan/fluxo/internal/service/employee"
	"github.com/tinoosan/fluxo/internal/service/entry"
	"github.com/tinoosan/fluxo/internal/service/report"
	"github.com/tinoosan/fluxo/internal/service/supplier"
	"github.com/tinoosan/fluxo/internal/storage/sqlstore"
	"github.com/tinoosan/fluxo/internal/testutil"
)

const testSecret = "0123456789abcdef0123"

type fakeCEP map[string]ledger.Address

func (f fakeCEP) Lookup(_ context.Context, code string) (ledger.Address, error) {
	a, ok := f[code]
	if !ok {
		return ledger.Address{}, cep.ErrNotFound
	}
	return a, nil
}

type resultResp struct {
	OK      bool   `json:"ok"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type errResp struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func setup(t *testing.T, jwtCfg config.JWTConfig) (http.Handler, *sqlstore.Store) {
	t.Helper()
	store := testutil.Store(t)
	log := testutil.Logger()
	trail := audit.New(store, log)
	lookup := fakeCEP{"01310100": {Street: "Avenida Paulista", Neighborhood: "Bela Vista", City: "São Paulo", State: "SP"}}
	svc := Services{
		Catalog:   catalog.New(store, store, nil, log),
		Clients:   client.New(store, store, trail, lookup, log),
		Suppliers: supplier.New(store, store, trail, lookup, log),
		Employees: employee.New(store, store, trail, lookup, log),
		Entries:   entry.New(store, store, log),
		Reports:   report.New(store, store, log),
		Audit:     trail,
		CEP:       lookup,
		Ready:     store,
	}
	return New(svc, jwtCfg, log).Handler(), store
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func clientBody() map[string]any {
	return map[string]any{
		"nome": "Ana Souza", "documento": "111.444.777-35", "email": "ana@example.com", "telefone": "(11) 98765-4321",
		"cep": "01310-100", "logradouro": "Avenida Paulista", "numero": "1000", "bairro": "Bela Vista",
		"cidade": "São Paulo", "uf": "SP",
	}
}

func TestHealthAndReady(t *testing.T) {
	h, _ := setup(t, config.JWTConfig{})
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/readyz", nil).Code)
}

func TestMetricsExposed(t *testing.T) {
	h, _ := setup(t, config.JWTConfig{})
	do(t, h, http.MethodGet, "/v1/categorias", nil)
	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fluxo_http_requests_total")
}

func TestCategoryLifecycle(t *testing.T) {
	h, _ := setup(t, config.JWTConfig{})

	rec := do(t, h, http.MethodPost, "/v1/categorias", map[string]any{"nome": "Receita", "tipo": "receita"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeInto[resultResp](t, rec)
	require.True(t, created.OK)

	rec = do(t, h, http.MethodPost, "/v1/categorias", map[string]any{"nome": "Receita", "tipo": "Receita"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeInto[errResp](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/v1/categorias", map[string]any{"nome": "", "tipo": "Outro"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decodeInto[errResp](t, rec)
	assert.Contains(t, e.Error, "Nome da categoria é obrigatório")
	assert.Contains(t, e.Error, "Tipo de categoria inválido")

	path := "/v1/categorias/" + strconv.FormatInt(created.ID, 10)
	rec = do(t, h, http.MethodPost, "/v1/subcategorias", map[string]any{"categoria_id": created.ID, "nome": "Vendas"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, path+"/subcategorias", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	subs := decodeInto[[]ledger.Subcategory](t, rec)
	require.Len(t, subs, 1)

	rec = do(t, h, http.MethodPost, path+"/desativar", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodGet, "/v1/categorias?ativas=true", nil)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/categorias/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Categoria não encontrada", decodeInto[errResp](t, rec).Error)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/categorias/abc", nil).Code)
}

func TestRejectsNonJSONAndUnknownFields(t *testing.T) {
	h, _ := setup(t, config.JWTConfig{})
	req := httptest.NewRequest(http.MethodPost, "/v1/categorias", strings.NewReader(`{"nome":"X"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/categorias", map[string]any{"nome": "X", "cor": "azul"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientRegistryAndAudit(t *testing.T) {
	h, _ := setup(t, config.JWTConfig{})

	rec := do(t, h, http.MethodPost, "/v1/clientes", clientBody(), actorHeader, "joana")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decodeInto[resultResp](t, rec).ID

	rec = do(t, h, http.MethodPost, "/v1/clientes", clientBody())
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CPF já cadastrado no sistema", decodeInto[errResp](t, rec).Error)

	rec = do(t, h, http.MethodGet, "/v1/clientes/documento/11144477735", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeInto[ledger.Client](t, rec)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, ledger.StatusAtivo, got.Status)

	rec = do(t, h, http.MethodDelete, "/v1/clientes/"+strconv.FormatInt(id, 10), nil, actorHeader, "joana")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/clientes/contagem?status=inativo", nil)
	assert.Equal(t, int64(1), decodeInto[countResponse](t, rec).Total)

	rec = do(t, h, http.MethodGet, "/v1/auditoria?tabela=clientes&registro_id="+strconv.FormatInt(id, 10), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []struct {
		Operation string `json:"operacao"`
		User      string `json:"usuario"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, "joana", r.User)
		assert.NotEmpty(t, r.RequestID)
	}

	rec = do(t, h, http.MethodGet, "/v1/auditoria?tabela=usuarios", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEmployeePayroll(t *testing.T) {
	h, _ := setup(t, config.JWTConfig{})
	body := map[string]any{
		"nome": "Carlos Lima", "cpf": "529.982.247-25", "cargo": "Analista", "salario": "3.500,00",
		"data_admissao": time.Now().UTC().AddDate(-1, 0, 0).Format(ledger.DateLayout), "email": "carlos@example.com",
		"telefone": "21987654321",
	}
	for k, v := range clientBody() {
		if _, ok := body[k]; !ok && k != "documento" {
			body[k] = v
		}
	}
	rec := do(t, h, http.MethodPost, "/v1/funcionarios", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	now := time.Now().UTC()
	rec = do(t, h, http.MethodGet, "/v1/funcionarios/folha?ano="+strconv.Itoa(now.Year())+"&mes="+strconv.Itoa(int(now.Month())), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "3500.00", decodeInto[amountResponse](t, rec).Value)

	rec = do(t, h, http.MethodGet, "/v1/funcionarios/folha?ano=2026&mes=13", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEntriesAndReports(t *testing.T) {
	h, store := setup(t, config.JWTConfig{})
	tx := testutil.SeedTaxonomy(t, store)
	clientID, supplierID := testutil.PartyIDs(t, store)

	income := map[string]any{
		"data": "2026-03-10", "tipo": "Receita", "categoria_id": tx.Income.ID, "subcategoria_id": tx.IncomeSub.ID,
		"valor": 1500, "descricao": "Venda", "cliente_id": clientID, "nota_fiscal": "NF-10",
	}
	rec := do(t, h, http.MethodPost, "/v1/lancamentos", income)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	incomeID := decodeInto[resultResp](t, rec).ID

	expense := map[string]any{
		"data": "2026-03-11", "tipo": "Despesa", "categoria_id": tx.Expense.ID, "subcategoria_id": tx.ExpenseSub.ID,
		"valor": "250.50", "descricao": "Papel", "fornecedor_id": supplierID,
	}
	rec = do(t, h, http.MethodPost, "/v1/lancamentos", expense)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	bad := map[string]any{
		"data": "2026-03-11", "tipo": "Receita", "categoria_id": tx.Income.ID, "subcategoria_id": tx.IncomeSub.ID,
		"valor": 10, "descricao": "Sem cliente",
	}
	rec = do(t, h, http.MethodPost, "/v1/lancamentos", bad)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	msg := decodeInto[errResp](t, rec).Error
	assert.Contains(t, msg, "Para receitas, cliente é obrigatório")
	assert.Contains(t, msg, "Para receitas, nota fiscal é obrigatória")

	rec = do(t, h, http.MethodGet, "/v1/lancamentos?tipo=receita", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []struct {
		ID    int64  `json:"id"`
		Valor string `json:"valor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "1500.00", listed[0].Valor)

	rec = do(t, h, http.MethodGet, "/v1/lancamentos?inicio=10-03-2026", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/relatorios/resumo?inicio=2026-03-01&fim=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sum struct {
		Income  string `json:"total_receitas"`
		Expense string `json:"total_despesas"`
		Balance string `json:"saldo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, "1500.00", sum.Income)
	assert.Equal(t, "250.50", sum.Expense)
	assert.Equal(t, "1249.50", sum.Balance)

	rec = do(t, h, http.MethodGet, "/v1/relatorios/movimento/mensal?inicio=2026-03-01&fim=2026-04-30", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var months []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &months))
	require.Len(t, months, 2)
	assert.Equal(t, "1249.50", months[0]["saldo"])
	assert.Equal(t, "0.00", months[1]["saldo"])

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/relatorios/movimento/semanal", nil).Code)

	rec = do(t, h, http.MethodGet, "/v1/relatorios/geral?inicio=2026-03-01&fim=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "1500.00")

	rec = do(t, h, http.MethodPost, "/v1/relatorios/saldo-diario?inicio=2026-03-10&fim=2026-03-11", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "2 dias")

	rec = do(t, h, http.MethodDelete, "/v1/lancamentos/"+strconv.FormatInt(incomeID, 10), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodDelete, "/v1/lancamentos/"+strconv.FormatInt(incomeID, 10), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Lançamento não encontrado", decodeInto[errResp](t, rec).Error)
}

func TestExportEntriesWorkbook(t *testing.T) {
	h, store := setup(t, config.JWTConfig{})
	tx := testutil.SeedTaxonomy(t, store)
	_, supplierID := testutil.PartyIDs(t, store)
	rec := do(t, h, http.MethodPost, "/v1/lancamentos", map[string]any{
		"data": "2026-03-11", "tipo": "Despesa", "categoria_id": tx.Expense.ID, "subcategoria_id": tx.ExpenseSub.ID,
		"valor": "99.90", "descricao": "Toner", "fornecedor_id": supplierID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/export/lancamentos.xlsx?inicio=2026-03-01&fim=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "lancamentos_2026-03-01_2026-03-31.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Dados_Brutos")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Toner", rows[1][4])

	rec = do(t, h, http.MethodGet, "/v1/export/fornecedores.xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCEPLookup(t *testing.T) {
	h, _ := setup(t, config.JWTConfig{})
	rec := do(t, h, http.MethodGet, "/v1/cep/01310-100", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	a := decodeInto[ledger.Address](t, rec)
	assert.Equal(t, "01310100", a.PostalCode)
	assert.Equal(t, "Avenida Paulista", a.Street)

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, http.MethodGet, "/v1/cep/123", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/cep/99999999", nil).Code)
}

func token(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: sub, Issuer: "fluxo-test", ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func TestJWTAuth(t *testing.T) {
	h, _ := setup(t, config.JWTConfig{Secret: testSecret, Issuer: "fluxo-test"})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/v1/clientes", nil).Code)

	expired := token(t, "maria", time.Now().Add(-time.Minute))
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/v1/clientes", nil, "Authorization", "Bearer "+expired).Code)

	good := "Bearer " + token(t, "maria", time.Now().Add(time.Hour))
	rec := do(t, h, http.MethodPost, "/v1/clientes", clientBody(), "Authorization", good, actorHeader, "intruso")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/auditoria?tabela=clientes", nil, "Authorization", good)
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []struct {
		User string `json:"usuario"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "maria", recs[0].User)
}

package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/service/report"
)

func open(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func sampleRows() []ledger.EntryRow {
	return []ledger.EntryRow{
		{ID: 1, Date: "2026-01-05", Type: ledger.EntryReceita, Category: "Receita", Subcategory: "Vendas",
			Description: "Venda balcão", Amount: ledger.FromCents(150000), Invoice: "NF-1", Company: "Ana Souza"},
		{ID: 2, Date: "2026-01-06", Type: ledger.EntryDespesa, Category: "Despesa Variável", Subcategory: "Material",
			Description: "Papel", Amount: ledger.FromCents(25050), Company: "Papelaria Central Ltda"},
		{ID: 3, Date: "2026-02-01", Type: ledger.EntryDespesa, Category: "Despesa Fixa", Subcategory: "Aluguel",
			Description: "Aluguel", Amount: ledger.FromCents(100000)},
	}
}

func TestEntriesWorkbook(t *testing.T) {
	monthly := []report.Movement{
		{Period: "2026-01", Income: ledger.FromCents(150000), Expense: ledger.FromCents(25050), Net: ledger.FromCents(124950)},
		{Period: "2026-02", Income: ledger.Zero(), Expense: ledger.FromCents(100000), Net: ledger.FromCents(-100000)},
	}
	annual := []report.Movement{
		{Period: "2026", Income: ledger.FromCents(150000), Expense: ledger.FromCents(125050), Net: ledger.FromCents(24950)},
	}
	var buf bytes.Buffer
	require.NoError(t, Entries(&buf, sampleRows(), monthly, annual))

	f := open(t, &buf)
	require.Equal(t, []string{"Dados_Brutos", "Resumo_Mensal", "Resumo_Anual", "Indicadores"}, f.GetSheetList())

	rows, err := f.GetRows("Dados_Brutos", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, []string{"data", "tipo", "categoria", "subcategoria", "descricao", "valor", "banco", "nota_fiscal", "empresa"}, rows[0])
	require.Equal(t, "Receita", rows[1][1])
	require.Equal(t, "1500", rows[1][5])
	require.Equal(t, "250.5", rows[2][5])
	require.Equal(t, "Papelaria Central Ltda", rows[2][8])

	monthRows, err := f.GetRows("Resumo_Mensal", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, monthRows, 3)
	require.Equal(t, "2026-02", monthRows[2][0])
	require.Equal(t, "-1000", monthRows[2][3])

	saldo, err := f.GetCellValue("Indicadores", "B5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Equal(t, "249.5", saldo)
	top, err := f.GetCellValue("Indicadores", "B9")
	require.NoError(t, err)
	require.Equal(t, "Despesa Fixa", top)
}

func TestEntriesWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Entries(&buf, nil, nil, nil))
	f := open(t, &buf)
	rows, err := f.GetRows("Dados_Brutos")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	top, err := f.GetCellValue("Indicadores", "B9")
	require.NoError(t, err)
	require.Equal(t, "-", top)
}

func TestClientsWorkbook(t *testing.T) {
	cs := []ledger.Client{
		{ID: 1, Kind: ledger.PersonFisica, Name: "Ana Souza", Document: "11144477735", Status: ledger.StatusAtivo, CreatedAt: time.Now()},
		{ID: 2, Kind: ledger.PersonJuridica, Name: "Acme Ltda", Document: "11222333000181", Status: ledger.StatusInativo},
		{ID: 3, Kind: ledger.PersonFisica, Name: "Bia Lima", Document: "52998224725", Status: ledger.StatusAtivo},
	}
	var buf bytes.Buffer
	require.NoError(t, Clients(&buf, cs))
	f := open(t, &buf)
	require.Equal(t, []string{"Clientes", "Resumo"}, f.GetSheetList())

	doc, err := f.GetCellValue("Clientes", "D3")
	require.NoError(t, err)
	require.Equal(t, "11.222.333/0001-81", doc)

	res, err := f.GetRows("Resumo")
	require.NoError(t, err)
	require.Equal(t, []string{"Total", "3"}, res[2])
	require.Equal(t, []string{"ativo", "2"}, res[3])
	require.Equal(t, []string{"inativo", "1"}, res[4])
	require.Equal(t, []string{"suspenso", "0"}, res[5])
}

func TestEmployeesWorkbook(t *testing.T) {
	es := []ledger.Employee{{
		ID: 1, Name: "Carlos Dias", CPF: "11144477735", Role: "Analista", Salary: ledger.FromCents(450000),
		HiredOn: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Status: ledger.StatusLicenca,
	}}
	var buf bytes.Buffer
	require.NoError(t, Employees(&buf, es))
	f := open(t, &buf)
	cpf, err := f.GetCellValue("Funcionarios", "C2")
	require.NoError(t, err)
	require.Equal(t, "111.444.777-35", cpf)
	sal, err := f.GetCellValue("Funcionarios", "E2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Equal(t, "4500", sal)
	label, err := f.GetCellValue("Resumo", "A6")
	require.NoError(t, err)
	require.Equal(t, "licenca", label)
	lic, err := f.GetCellValue("Resumo", "B6")
	require.NoError(t, err)
	require.Equal(t, "1", lic)
}

func TestSuppliersWorkbook(t *testing.T) {
	ss := []ledger.Supplier{{ID: 1, Kind: ledger.PersonJuridica, Name: "Papelaria Central Ltda", TradeName: "Papelaria",
		TaxID: "11444777000161", Status: ledger.StatusAtivo}}
	var buf bytes.Buffer
	require.NoError(t, Suppliers(&buf, ss))
	f := open(t, &buf)
	require.Equal(t, []string{"Fornecedores", "Resumo"}, f.GetSheetList())
}

func TestFileName(t *testing.T) {
	require.Equal(t, "lancamentos_2026-01-01_2026-01-31.xlsx", FileName("Lançamentos", "2026-01-01", "2026-01-31"))
}

func TestSpan(t *testing.T) {
	rows := sampleRows()
	start, end, ok := span(rows, ledger.Filter{})
	require.True(t, ok)
	require.Equal(t, "2026-01-05", start)
	require.Equal(t, "2026-02-01", end)

	start, end, ok = span(rows, ledger.Filter{Start: "2025-12-01"})
	require.True(t, ok)
	require.Equal(t, "2025-12-01", start)
	require.Equal(t, "2026-02-01", end)

	_, _, ok = span(nil, ledger.Filter{})
	require.False(t, ok)
}

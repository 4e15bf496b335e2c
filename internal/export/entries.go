package export

import (
	"io"
	"sort"

	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/service/report"
)

var entryColumns = []column{
	{"data", 12, kindDate},
	{"tipo", 10, kindText},
	{"categoria", 24, kindText},
	{"subcategoria", 24, kindText},
	{"descricao", 40, kindText},
	{"valor", 15, kindMoney},
	{"banco", 16, kindText},
	{"nota_fiscal", 14, kindText},
	{"empresa", 30, kindText},
}

var movementColumns = []column{
	{"periodo", 12, kindText},
	{"entradas", 16, kindMoney},
	{"saidas", 16, kindMoney},
	{"saldo", 16, kindMoney},
}

// Entries writes the ledger workbook: raw rows, monthly and annual summaries
// and a sheet of headline indicators.
func Entries(w io.Writer, rows []ledger.EntryRow, monthly, annual []report.Movement) error {
	b, err := newBook()
	if err != nil {
		return err
	}
	raw, err := b.sheet("Dados_Brutos")
	if err != nil {
		return err
	}
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{day(r.Date), string(r.Type), r.Category, r.Subcategory, r.Description,
			value(r.Amount), r.Bank, r.Invoice, r.Company})
	}
	if err := b.table(raw, entryColumns, data); err != nil {
		return err
	}
	for _, m := range []struct {
		name string
		rows []report.Movement
	}{{"Resumo_Mensal", monthly}, {"Resumo_Anual", annual}} {
		sh, err := b.sheet(m.name)
		if err != nil {
			return err
		}
		if err := b.table(sh, movementColumns, movementRows(m.rows)); err != nil {
			return err
		}
	}
	ind, err := b.sheet("Indicadores")
	if err != nil {
		return err
	}
	if err := b.pairs(ind, "Indicadores", indicators(rows), true); err != nil {
		return err
	}
	return b.write(w)
}

func movementRows(ms []report.Movement) [][]any {
	out := make([][]any, 0, len(ms))
	for _, m := range ms {
		out = append(out, []any{m.Period, value(m.Income), value(m.Expense), value(m.Net)})
	}
	return out
}

// indicators computes totals, balance, averages and the largest expense category.
func indicators(rows []ledger.EntryRow) [][2]any {
	var in, out int64
	var nIn, nOut int64
	byCat := map[string]int64{}
	for _, r := range rows {
		c := ledger.Cents(r.Amount)
		if r.Type == ledger.EntryReceita {
			in += c
			nIn++
			continue
		}
		out += c
		nOut++
		byCat[r.Category] += c
	}
	avg := func(sum, n int64) float64 {
		if n == 0 {
			return 0
		}
		return amount(sum / n)
	}
	top, topAmount := "-", int64(0)
	cats := make([]string, 0, len(byCat))
	for k := range byCat {
		cats = append(cats, k)
	}
	sort.Strings(cats)
	for _, k := range cats {
		if byCat[k] > topAmount {
			top, topAmount = k, byCat[k]
		}
	}
	return [][2]any{
		{"Total de receitas", amount(in)},
		{"Total de despesas", amount(out)},
		{"Saldo", amount(in - out)},
		{"Ticket médio receitas", avg(in, nIn)},
		{"Ticket médio despesas", avg(out, nOut)},
		{"Lançamentos", len(rows)},
		{"Maior categoria de despesa", top},
		{"Valor maior categoria", amount(topAmount)},
	}
}

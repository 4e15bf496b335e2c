package export

import (
	"io"
	"time"

	"github.com/tinoosan/fluxo/internal/brdoc"
	"github.com/tinoosan/fluxo/internal/ledger"
)

func formatDoc(d string) string {
	switch len(d) {
	case 11:
		return brdoc.FormatCPF(d)
	case 14:
		return brdoc.FormatCNPJ(d)
	}
	return d
}

func date(t time.Time) any {
	if t.IsZero() {
		return ""
	}
	return t
}

// registry writes a data sheet plus a Resumo sheet with counts per status.
func registry(w io.Writer, name string, cols []column, rows [][]any, statuses []ledger.Status, status func(i int) ledger.Status) error {
	b, err := newBook()
	if err != nil {
		return err
	}
	sh, err := b.sheet(name)
	if err != nil {
		return err
	}
	if err := b.table(sh, cols, rows); err != nil {
		return err
	}
	counts := map[ledger.Status]int{}
	for i := range rows {
		counts[status(i)]++
	}
	summary := [][2]any{{"Total", len(rows)}}
	for _, st := range statuses {
		summary = append(summary, [2]any{string(st), counts[st]})
	}
	res, err := b.sheet("Resumo")
	if err != nil {
		return err
	}
	if err := b.pairs(res, "Resumo de "+name, summary, false); err != nil {
		return err
	}
	return b.write(w)
}

var addressColumns = []column{
	{"cep", 11, kindText},
	{"logradouro", 30, kindText},
	{"numero", 8, kindText},
	{"bairro", 18, kindText},
	{"cidade", 18, kindText},
	{"uf", 5, kindText},
}

func address(a ledger.Address) []any {
	return []any{a.PostalCode, a.Street, a.Number, a.Neighborhood, a.City, a.State}
}

func concat(parts ...[]column) []column {
	var out []column
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Clients writes the client registry workbook.
func Clients(w io.Writer, cs []ledger.Client) error {
	cols := concat([]column{
		{"id", 6, kindText}, {"tipo_pessoa", 10, kindText}, {"nome", 30, kindText},
		{"documento", 20, kindText}, {"email", 28, kindText}, {"telefone", 16, kindText},
	}, addressColumns, []column{{"status", 10, kindText}, {"data_cadastro", 14, kindDate}})
	rows := make([][]any, 0, len(cs))
	for _, c := range cs {
		row := []any{c.ID, string(c.Kind), c.Name, formatDoc(c.Document), c.Email, c.Phone}
		row = append(row, address(c.Address)...)
		rows = append(rows, append(row, string(c.Status), date(c.CreatedAt)))
	}
	return registry(w, "Clientes", cols, rows, ledger.ClientStatuses, func(i int) ledger.Status { return cs[i].Status })
}

// Suppliers writes the supplier registry workbook.
func Suppliers(w io.Writer, ss []ledger.Supplier) error {
	cols := concat([]column{
		{"id", 6, kindText}, {"tipo", 6, kindText}, {"nome", 30, kindText}, {"nome_fantasia", 24, kindText},
		{"cpf_cnpj", 20, kindText}, {"email", 28, kindText}, {"telefone", 16, kindText},
	}, addressColumns, []column{{"status", 10, kindText}, {"data_cadastro", 14, kindDate}})
	rows := make([][]any, 0, len(ss))
	for _, s := range ss {
		row := []any{s.ID, string(s.Kind), s.Name, s.TradeName, formatDoc(s.TaxID), s.Email, s.Phone}
		row = append(row, address(s.Address)...)
		rows = append(rows, append(row, string(s.Status), date(s.CreatedAt)))
	}
	return registry(w, "Fornecedores", cols, rows, ledger.SupplierStatuses, func(i int) ledger.Status { return ss[i].Status })
}

// Employees writes the employee registry workbook, salaries as currency.
func Employees(w io.Writer, es []ledger.Employee) error {
	cols := concat([]column{
		{"id", 6, kindText}, {"nome", 30, kindText}, {"cpf", 16, kindText}, {"cargo", 20, kindText},
		{"salario", 15, kindMoney}, {"data_admissao", 14, kindDate}, {"email", 28, kindText}, {"telefone", 16, kindText},
	}, addressColumns, []column{{"status", 10, kindText}})
	rows := make([][]any, 0, len(es))
	for _, e := range es {
		row := []any{e.ID, e.Name, brdoc.FormatCPF(e.CPF), e.Role, value(e.Salary), date(e.HiredOn), e.Email, e.Phone}
		row = append(row, address(e.Address)...)
		rows = append(rows, append(row, string(e.Status)))
	}
	return registry(w, "Funcionarios", cols, rows, ledger.EmployeeStatuses, func(i int) ledger.Status { return es[i].Status })
}

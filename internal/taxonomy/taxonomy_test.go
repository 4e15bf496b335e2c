package taxonomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinoosan/fluxo/internal/ledger"
)

func TestDefaultOrderAndShape(t *testing.T) {
	groups := Default()
	want := []string{"Receita", "Despesa Variável", "Despesa Fixa", "Despesa Pessoal"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, g := range groups {
		if g.Name != want[i] || string(g.Type) != want[i] {
			t.Fatalf("group %d: got %q/%q", i, g.Name, g.Type)
		}
	}
	var subs []string
	for _, s := range groups[3].Subcategories {
		subs = append(subs, s.Name)
	}
	if strings.Join(subs, ",") != "Educação,Saúde,Alimentação,Lazer,Cartão de Crédito,Outras" {
		t.Fatalf("unexpected subcategories: %v", subs)
	}
	if err := Validate(groups); err != nil {
		t.Fatalf("default must validate: %v", err)
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	a := Default()
	a[0].Subcategories[0].Name = "mutated"
	if Default()[0].Subcategories[0].Name != "Serviços" {
		t.Fatalf("Default must not share storage")
	}
}

func TestCode(t *testing.T) {
	if c := Default()[1].Code(); c != "despesa_variavel" {
		t.Fatalf("unexpected code %q", c)
	}
}

func TestGroupsFor(t *testing.T) {
	ty := ledger.CategoryDespesaFixa
	got := GroupsFor(Default(), &ty)
	if len(got) != 1 || got[0].Name != "Despesa Fixa" {
		t.Fatalf("unexpected groups: %+v", got)
	}
	if len(GroupsFor(Default(), nil)) != 4 {
		t.Fatalf("nil type must return every group")
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
categorias:
  - nome: Vendas
    tipo: receita
    subcategorias:
      - nome: Balcão
      - nome: Online
  - tipo: DespesaFixa
    subcategorias:
      - nome: Aluguel
`
	path := filepath.Join(t.TempDir(), "taxonomia.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	groups, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(groups) != 2 || groups[0].Type != ledger.CategoryReceita || groups[1].Name != "Despesa Fixa" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	groups, err := Load("")
	if err != nil || len(groups) != 4 {
		t.Fatalf("expected default taxonomy, got %d groups, err=%v", len(groups), err)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown type":   "categorias:\n  - nome: X\n    tipo: outra\n    subcategorias: [{nome: a}]\n",
		"no subcategory": "categorias:\n  - nome: X\n    tipo: Receita\n",
		"duplicate":      "categorias:\n  - {nome: X, tipo: Receita, subcategorias: [{nome: a}]}\n  - {nome: x, tipo: Receita, subcategorias: [{nome: b}]}\n",
		"duplicate sub":  "categorias:\n  - {nome: X, tipo: Receita, subcategorias: [{nome: a}, {nome: A}]}\n",
		"empty":          "categorias: []\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	b, err := Marshal(Default())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	groups, err := Parse(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(groups) != 4 || groups[2].Subcategories[1].Name != "Água" {
		t.Fatalf("unexpected groups after round trip: %+v", groups)
	}
}

// Package taxonomy holds the default category tree seeded into an empty
// database and loads replacements from YAML.
package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/slug"
)

type SubDef struct {
	Name        string `yaml:"nome" json:"nome"`
	Description string `yaml:"descricao" json:"descricao"`
}

type GroupDef struct {
	Name          string              `yaml:"nome" json:"nome"`
	Type          ledger.CategoryType `yaml:"tipo" json:"tipo"`
	Description   string              `yaml:"descricao" json:"descricao"`
	Subcategories []SubDef            `yaml:"subcategorias" json:"subcategorias"`
}

// Code is the slug of the group name, e.g. "despesa_variavel".
func (g GroupDef) Code() string { return slug.Slugify(g.Name) }

var curated = []GroupDef{
	{
		Name: "Receita", Type: ledger.CategoryReceita, Description: "Entradas de dinheiro",
		Subcategories: []SubDef{
			{Name: "Serviços", Description: "Receitas de serviços prestados"},
			{Name: "Produtos", Description: "Vendas de produtos"},
			{Name: "Investimentos", Description: "Retorno de investimentos"},
			{Name: "Empréstimos", Description: "Empréstimos recebidos"},
			{Name: "Outras", Description: "Outras receitas"},
		},
	},
	{
		Name: "Despesa Variável", Type: ledger.CategoryDespesaVariavel, Description: "Despesas que variam conforme a operação",
		Subcategories: []SubDef{
			{Name: "Insumos", Description: "Matéria-prima e insumos de produção"},
			{Name: "Mão de Obra", Description: "Custos com colaboradores"},
			{Name: "Fornecimentos", Description: "Materiais de consumo"},
			{Name: "Transportes", Description: "Despesas com transporte e logística"},
			{Name: "Outras", Description: "Outras despesas variáveis"},
		},
	},
	{
		Name: "Despesa Fixa", Type: ledger.CategoryDespesaFixa, Description: "Despesas que se repetem regularmente",
		Subcategories: []SubDef{
			{Name: "Energia", Description: "Conta de energia elétrica"},
			{Name: "Água", Description: "Conta de água"},
			{Name: "Internet", Description: "Internet e telefone"},
			{Name: "Contador", Description: "Serviços contábeis"},
			{Name: "Seguro", Description: "Seguros diversos"},
			{Name: "Outras", Description: "Outras despesas fixas"},
		},
	},
	{
		Name: "Despesa Pessoal", Type: ledger.CategoryDespesaPessoal, Description: "Despesas pessoais do proprietário",
		Subcategories: []SubDef{
			{Name: "Educação", Description: "Gastos com educação"},
			{Name: "Saúde", Description: "Gastos com saúde"},
			{Name: "Alimentação", Description: "Gastos com alimentação"},
			{Name: "Lazer", Description: "Gastos com lazer"},
			{Name: "Cartão de Crédito", Description: "Pagamento de cartão"},
			{Name: "Outras", Description: "Outras despesas pessoais"},
		},
	},
}

// Default returns a copy of the built-in tree in seeding order.
func Default() []GroupDef {
	out := make([]GroupDef, len(curated))
	for i, g := range curated {
		g.Subcategories = append([]SubDef(nil), g.Subcategories...)
		out[i] = g
	}
	return out
}

// GroupsFor returns the groups of one type, or every group when t is nil.
func GroupsFor(groups []GroupDef, t *ledger.CategoryType) []GroupDef {
	if t == nil {
		return groups
	}
	out := make([]GroupDef, 0)
	for _, g := range groups {
		if g.Type == *t {
			out = append(out, g)
		}
	}
	return out
}

type file struct {
	Categorias []GroupDef `yaml:"categorias"`
}

// Load reads a YAML taxonomy from path. An empty path yields Default().
func Load(path string) ([]GroupDef, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a YAML taxonomy. Type labels are accepted in any
// spelling ParseCategoryType understands.
func Parse(b []byte) ([]GroupDef, error) {
	var raw struct {
		Categorias []struct {
			Nome          string   `yaml:"nome"`
			Tipo          string   `yaml:"tipo"`
			Descricao     string   `yaml:"descricao"`
			Subcategorias []SubDef `yaml:"subcategorias"`
		} `yaml:"categorias"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	out := make([]GroupDef, 0, len(raw.Categorias))
	for _, c := range raw.Categorias {
		t, ok := ledger.ParseCategoryType(c.Tipo)
		if !ok {
			return nil, fmt.Errorf("taxonomy: categoria %q: tipo %q desconhecido", c.Nome, c.Tipo)
		}
		name := strings.TrimSpace(c.Nome)
		if name == "" {
			name = string(t)
		}
		out = append(out, GroupDef{Name: name, Type: t, Description: c.Descricao, Subcategories: c.Subcategorias})
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal renders groups in the YAML shape Parse reads.
func Marshal(groups []GroupDef) ([]byte, error) {
	return yaml.Marshal(file{Categorias: groups})
}

// Validate checks that names are unique (per tree and per group) and every
// group has at least one subcategory.
func Validate(groups []GroupDef) error {
	if len(groups) == 0 {
		return fmt.Errorf("taxonomy: nenhuma categoria")
	}
	seen := map[string]struct{}{}
	for _, g := range groups {
		if !g.Type.Valid() {
			return fmt.Errorf("taxonomy: categoria %q: tipo inválido", g.Name)
		}
		key := strings.ToLower(strings.TrimSpace(g.Name))
		if key == "" {
			return fmt.Errorf("taxonomy: categoria sem nome")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("taxonomy: categoria %q duplicada", g.Name)
		}
		seen[key] = struct{}{}
		if len(g.Subcategories) == 0 {
			return fmt.Errorf("taxonomy: categoria %q sem subcategorias", g.Name)
		}
		subs := map[string]struct{}{}
		for _, s := range g.Subcategories {
			sk := strings.ToLower(strings.TrimSpace(s.Name))
			if sk == "" {
				return fmt.Errorf("taxonomy: categoria %q: subcategoria sem nome", g.Name)
			}
			if _, dup := subs[sk]; dup {
				return fmt.Errorf("taxonomy: categoria %q: subcategoria %q duplicada", g.Name, s.Name)
			}
			subs[sk] = struct{}{}
		}
	}
	return nil
}

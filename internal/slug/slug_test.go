package slug

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Despesa Variável":    "despesa_variavel",
		"Cartão de Crédito":   "cartao_de_credito",
		"  Mão de Obra!! ":    "mao_de_obra",
		"Água":                "agua",
		"":                    "",
		"Lançamentos 2026/01": "lancamentos_2026_01",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsSlug(t *testing.T) {
	if !IsSlug(Slugify("Despesa Pessoal")) {
		t.Fatalf("slugified label must be a slug")
	}
	if IsSlug("Á") || IsSlug("a") {
		t.Fatalf("invalid slugs accepted")
	}
}

func TestFileName(t *testing.T) {
	got := FileName("Lançamentos", "xlsx", "2026-01-01", "", "2026-01-31")
	if got != "lancamentos_2026-01-01_2026-01-31.xlsx" {
		t.Fatalf("unexpected file name %q", got)
	}
}

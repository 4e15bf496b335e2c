package app

import (
	"context"

	"github.com/tinoosan/fluxo/internal/ledger"
)

var demoAddress = ledger.Address{
	PostalCode:   "01310100",
	Street:       "Avenida Paulista",
	Number:       "1000",
	Neighborhood: "Bela Vista",
	City:         "São Paulo",
	State:        "SP",
}

// SeedDemo registers a sample client and supplier when both registries are
// empty. It returns how many records were created.
func (a *App) SeedDemo(ctx context.Context) (int, error) {
	nc, err := a.Clients.Count(ctx)
	if err != nil {
		return 0, err
	}
	ns, err := a.Suppliers.Count(ctx)
	if err != nil {
		return 0, err
	}
	if nc > 0 || ns > 0 {
		return 0, nil
	}

	created := 0
	res := a.Clients.Create(ctx, ledger.Client{
		Name:     "Cliente Exemplo",
		Document: "11144477735",
		Email:    "cliente@exemplo.com.br",
		Phone:    "11987654321",
		Address:  demoAddress,
	})
	if err := res.Err(); err != nil {
		return created, err
	}
	created++

	res = a.Suppliers.Create(ctx, ledger.Supplier{
		Kind:      ledger.PersonJuridica,
		Name:      "Fornecedor Exemplo Ltda",
		TradeName: "Fornecedor Exemplo",
		TaxID:     "11222333000181",
		Email:     "contato@fornecedor.com.br",
		Phone:     "1133334444",
		Address:   demoAddress,
	})
	if err := res.Err(); err != nil {
		return created, err
	}
	created++
	a.Log.Info("demo records created", "count", created)
	return created, nil
}

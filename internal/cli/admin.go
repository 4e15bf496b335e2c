package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinoosan/fluxo/internal/app"
)

func newMigrateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening applies the idempotent schema.
			return o.withApp(cmd.Context(), func(a *app.App) error {
				fmt.Fprintf(cmd.OutOrStdout(), "schema ok (%s)\n", a.Config.Backend())
				return nil
			})
		},
	}
}

func newSeedCmd(o *options) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the category taxonomy into an empty catalog",
		Long: `Seed the category taxonomy (TAXONOMY_FILE, or the built-in default)
into the catalog. Nothing is inserted when any category already exists.
With --demo (or DEV_SEED) a sample client and supplier are registered too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd.Context(), func(a *app.App) error {
				n := a.Catalog.Bootstrap(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "%d categorias criadas\n", n)
				if !demo && !a.Config.DevSeed {
					return nil
				}
				d, err := a.SeedDemo(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d cadastros de exemplo criados\n", d)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "also register a sample client and supplier")
	return cmd
}

func newCEPCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cep <codigo>",
		Short: "Look up a postal code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd.Context(), func(a *app.App) error {
				addr, err := a.Clients.LookupAddress(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "CEP:        %s\n", addr.PostalCode)
				fmt.Fprintf(w, "Logradouro: %s\n", addr.Street)
				fmt.Fprintf(w, "Bairro:     %s\n", addr.Neighborhood)
				fmt.Fprintf(w, "Cidade:     %s/%s\n", addr.City, addr.State)
				return nil
			})
		},
	}
}

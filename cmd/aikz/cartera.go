package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
)

var carteraCmd = &cobra.Command{
	Use:   "cartera",
	Short: "Resumen de cuentas por cobrar o por pagar",
	Example: `  aikz cartera --tipo cobrar
  aikz cartera --tipo pagar --al 2024-03-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tipo, _ := cmd.Flags().GetString("tipo")
		al, _ := cmd.Flags().GetString("al")

		var (
			resumen *dto.ResumenCarteraResponse
			err     error
		)
		switch tipo {
		case "cobrar":
			resumen, err = app.svcs.Cobranza.Resumen(cmd.Context(), al)
		case "pagar":
			resumen, err = app.svcs.CuentasPagar.Resumen(cmd.Context(), al)
		default:
			return fmt.Errorf("--tipo debe ser cobrar o pagar")
		}
		if err != nil {
			return err
		}

		fmt.Printf("Cuentas por %s al %s\n\n", tipo, resumen.Al)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "Estado\tDocumentos\tMonto\t")
		for _, e := range []cartera.Estado{cartera.Vigente, cartera.Vencida, cartera.Pagada} {
			b := resumen.PorEstado[e]
			fmt.Fprintf(w, "%s\t%d\t%s\t\n", e, b.Cantidad, infra.FormatoMXN(b.Monto))
		}
		fmt.Fprintf(w, "Pendiente\t%d\t%s\t\n", resumen.TotalDocumentos-resumen.Pagados, infra.FormatoMXN(resumen.TotalPendiente))
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(carteraCmd)
	carteraCmd.Flags().String("tipo", "cobrar", "cobrar | pagar")
	carteraCmd.Flags().String("al", "", "Fecha de corte (YYYY-MM-DD, por defecto hoy)")
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/victor-varac/AIKZ-sub001/internal/infra"
)

var existenciasCmd = &cobra.Command{
	Use:     "existencias",
	Short:   "Existencias de producto terminado por material",
	Example: `  aikz existencias --material polietileno`,
	RunE: func(cmd *cobra.Command, args []string) error {
		material, _ := cmd.Flags().GetString("material")
		items, err := app.svcs.Inventario.Existencias(cmd.Context(), material)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Sin productos activos.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Producto\tPresentación\tTipo\tExistencia")
		for _, e := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Nombre, e.Presentacion, e.Tipo, infra.FormatoCantidad(e.Existencia, e.Unidad))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(existenciasCmd)
	existenciasCmd.Flags().String("material", "celofan", "celofan | polietileno")
}

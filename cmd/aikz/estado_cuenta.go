package main

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/victor-varac/AIKZ-sub001/internal/infra"
)

var estadoCuentaCmd = &cobra.Command{
	Use:     "estado-cuenta",
	Short:   "Genera el estado de cuenta en PDF de un cliente",
	Example: `  aikz estado-cuenta --cliente 6f1c... --salida roma.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("cliente")
		salida, _ := cmd.Flags().GetString("salida")
		clienteID, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("--cliente: identificador inválido")
		}
		al, err := fechaFlag(cmd, "al")
		if err != nil {
			return err
		}

		ec, err := app.svcs.Cobranza.EstadoCuenta(cmd.Context(), clienteID, al)
		if err != nil {
			return err
		}
		pdf, err := infra.GenerarEstadoCuentaPDF(*ec)
		if err != nil {
			return err
		}
		if salida == "" {
			salida = fmt.Sprintf("estado_cuenta_%s_%s.pdf", clienteID, al.Format("20060102"))
		}
		ruta, err := infra.GuardarPDF(filepath.Dir(salida), filepath.Base(salida), pdf)
		if err != nil {
			return err
		}
		fmt.Printf("%s: saldo %s, vencido %s → %s\n", ec.Cliente,
			infra.FormatoMXN(ec.TotalSaldo), infra.FormatoMXN(ec.TotalVencido), ruta)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(estadoCuentaCmd)
	estadoCuentaCmd.Flags().String("cliente", "", "UUID del cliente")
	estadoCuentaCmd.Flags().String("salida", "", "Archivo PDF de salida")
	estadoCuentaCmd.Flags().String("al", "", "Fecha de corte (YYYY-MM-DD, por defecto hoy)")
	_ = estadoCuentaCmd.MarkFlagRequired("cliente")
}

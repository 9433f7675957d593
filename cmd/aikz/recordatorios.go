package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/victor-varac/AIKZ-sub001/internal/worker"
)

var recordatoriosCmd = &cobra.Command{
	Use:   "recordatorios",
	Short: "Encola los recordatorios de adeudos vencidos y muestra la DLQ",
	Example: `  aikz recordatorios --al 2024-03-31
  aikz recordatorios --reintentar-dlq`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.rdb == nil {
			return fmt.Errorf("recordatorios requiere Redis (REDIS_URL)")
		}
		if reintentar, _ := cmd.Flags().GetBool("reintentar-dlq"); reintentar {
			for _, q := range worker.Colas() {
				n, err := worker.ReencolarDLQ(cmd.Context(), app.rdb, q)
				if err != nil {
					return fmt.Errorf("reencolar %s: %w", q, err)
				}
				fmt.Printf("%s: %d trabajos devueltos a la cola\n", q, n)
			}
			return nil
		}

		al, err := fechaFlag(cmd, "al")
		if err != nil {
			return err
		}
		n, err := app.svcs.Cobranza.EncolarRecordatorios(cmd.Context(), al)
		if err != nil {
			return err
		}
		fmt.Printf("%d estados de cuenta encolados al %s\n", n, al.Format("2006-01-02"))

		for _, q := range worker.Colas() {
			entradas, err := worker.DLQEntries(cmd.Context(), app.rdb, q, 5)
			if err != nil || len(entradas) == 0 {
				continue
			}
			fmt.Printf("\nDLQ %s (últimos %d):\n", q, len(entradas))
			for _, e := range entradas {
				fmt.Printf("  %s  intentos=%d  %s\n", e.FailedAt, e.Attempts, e.Reason)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recordatoriosCmd)
	recordatoriosCmd.Flags().String("al", "", "Fecha de corte (YYYY-MM-DD, por defecto hoy)")
	recordatoriosCmd.Flags().Bool("reintentar-dlq", false, "Devuelve a su cola los trabajos de la DLQ en lugar de encolar nuevos")
}

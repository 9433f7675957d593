package worker

// estado_cuenta_worker.go
// Processes QueueEstadoCuenta: renders the customer statement PDF, stores it
// under PDF_STORAGE_PATH and enqueues the reminder email that carries it.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/victor-varac/AIKZ-sub001/internal/infra"
)

// EstadoCuentaJob asks for the statement of one client as of Al (YYYY-MM-DD).
type EstadoCuentaJob struct {
	ClienteID string `json:"cliente_id"`
	Al        string `json:"al"`
}

// FuenteEstadoCuenta loads the statement data for a client.
type FuenteEstadoCuenta interface {
	EstadoCuenta(ctx context.Context, clienteID uuid.UUID, al time.Time) (*infra.EstadoCuenta, error)
}

// EncoladorRecordatorio is the part of the Dispatcher this worker needs.
type EncoladorRecordatorio interface {
	EncolarRecordatorio(ctx context.Context, job RecordatorioJob) error
}

type EstadoCuentaWorker struct {
	fuente         FuenteEstadoCuenta
	encolador      EncoladorRecordatorio
	pdfStoragePath string
}

func NewEstadoCuentaWorker(fuente FuenteEstadoCuenta, encolador EncoladorRecordatorio, pdfStoragePath string) *EstadoCuentaWorker {
	return &EstadoCuentaWorker{fuente: fuente, encolador: encolador, pdfStoragePath: pdfStoragePath}
}

// Process renders and stores the PDF, then enqueues the reminder. Clients
// without an email address or without an open balance are skipped.
func (w *EstadoCuentaWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job EstadoCuentaJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("estado_cuenta_worker: invalid payload")
		return nil
	}
	clienteID, err := uuid.Parse(job.ClienteID)
	if err != nil {
		log.Error().Str("cliente_id", job.ClienteID).Msg("estado_cuenta_worker: invalid cliente_id")
		return nil
	}
	al, err := time.Parse("2006-01-02", job.Al)
	if err != nil {
		log.Error().Str("al", job.Al).Msg("estado_cuenta_worker: invalid date")
		return nil
	}

	ec, err := w.fuente.EstadoCuenta(ctx, clienteID, al)
	if err != nil {
		return fmt.Errorf("cargar estado de cuenta: %w", err)
	}
	if ec.Correo == "" {
		log.Warn().Str("cliente_id", job.ClienteID).Msg("estado_cuenta_worker: client has no email, skipping")
		return nil
	}
	if !ec.TotalSaldo.IsPositive() {
		log.Info().Str("cliente_id", job.ClienteID).Msg("estado_cuenta_worker: no open balance, skipping")
		return nil
	}

	pdf, err := infra.GenerarEstadoCuentaPDF(*ec)
	if err != nil {
		return err
	}
	nombre := fmt.Sprintf("estado_cuenta_%s_%s.pdf", clienteID, al.Format("20060102"))
	path, err := infra.GuardarPDF(w.pdfStoragePath, nombre, pdf)
	if err != nil {
		return err
	}
	log.Info().Str("pdf", path).Str("cliente_id", job.ClienteID).Msg("estado_cuenta_worker: PDF generated")

	return w.encolador.EncolarRecordatorio(ctx, RecordatorioJob{
		Para:    ec.Correo,
		Asunto:  fmt.Sprintf("%s: estado de cuenta al %s", ec.Empresa, al.Format("02/01/2006")),
		Cuerpo:  cuerpoRecordatorio(ec),
		PDFPath: path,
	})
}

func cuerpoRecordatorio(ec *infra.EstadoCuenta) string {
	saludo := "Estimado cliente"
	if ec.Contacto != "" {
		saludo = "Estimado(a) " + ec.Contacto
	}
	return fmt.Sprintf(
		"%s:\n\nLe compartimos el estado de cuenta de %s al %s.\n\n"+
			"Saldo total: %s\nSaldo vencido: %s\n\n"+
			"Si ya realizó su pago, por favor ignore este mensaje.\n\n%s",
		saludo, ec.Cliente, ec.Al.Format("02/01/2006"),
		infra.FormatoMXN(ec.TotalSaldo), infra.FormatoMXN(ec.TotalVencido),
		ec.Empresa,
	)
}

package worker

// recordatorio_worker.go
// Processes QueueRecordatorio: sends the overdue reminder through SMTP. The
// mailer call runs through the circuit breaker so a dead relay fails fast.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/victor-varac/AIKZ-sub001/internal/infra"
)

// RecordatorioJob is the job envelope sent to QueueRecordatorio.
type RecordatorioJob struct {
	Para    string `json:"para"`
	Asunto  string `json:"asunto"`
	Cuerpo  string `json:"cuerpo"`
	PDFPath string `json:"pdf_path,omitempty"`
}

// Enviador sends one email; *infra.Mailer implements it.
type Enviador interface {
	Enviar(to, subject, body string, adjuntos ...infra.Adjunto) error
}

type RecordatorioWorker struct {
	enviador Enviador
	cb       *infra.CircuitBreaker
}

func NewRecordatorioWorker(enviador Enviador, cb *infra.CircuitBreaker) *RecordatorioWorker {
	return &RecordatorioWorker{enviador: enviador, cb: cb}
}

func (w *RecordatorioWorker) Process(_ context.Context, raw json.RawMessage) error {
	var job RecordatorioJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("recordatorio_worker: invalid payload")
		return nil
	}
	if job.Para == "" {
		log.Warn().Msg("recordatorio_worker: empty recipient, skipping")
		return nil
	}

	var adjuntos []infra.Adjunto
	if job.PDFPath != "" {
		contenido, err := os.ReadFile(job.PDFPath)
		if err != nil {
			return fmt.Errorf("leer adjunto: %w", err)
		}
		adjuntos = append(adjuntos, infra.Adjunto{Nombre: filepath.Base(job.PDFPath), Contenido: contenido})
	}

	err := w.cb.Execute(func() error {
		return w.enviador.Enviar(job.Para, job.Asunto, job.Cuerpo, adjuntos...)
	})
	if err != nil {
		return err
	}
	log.Info().Str("to", job.Para).Msg("recordatorio_worker: reminder sent")
	return nil
}

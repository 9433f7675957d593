package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/victor-varac/AIKZ-sub001/internal/apierror"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/service"
)

type CobranzaHandler struct{ svc service.CobranzaService }

func NewCobranzaHandler(svc service.CobranzaService) *CobranzaHandler {
	return &CobranzaHandler{svc: svc}
}

// ListarCuentas godoc
// @Summary      Cuentas por cobrar
// @Description  Notas de venta con antigüedad calculada a la fecha ?al= (hoy por defecto).
// @Tags         cuentas-por-cobrar
// @Produce      json
// @Param        estado      query string false "VIGENTE | VENCIDA | PAGADA"
// @Param        contraparte query string false "Empresa del cliente (parcial)"
// @Param        al          query string false "Fecha de corte YYYY-MM-DD"
// @Success      200 {object} dto.Pagina[dto.CuentaResponse]
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/cuentas-por-cobrar [get]
func (h *CobranzaHandler) ListarCuentas(c *gin.Context) {
	var filter dto.CarteraFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarCuentas(c.Request.Context(), filter)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CobranzaHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context(), c.Query("al"))
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CobranzaHandler) PorCliente(c *gin.Context) {
	resp, err := h.svc.PorCliente(c.Request.Context(), c.Query("al"))
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CobranzaHandler) Detalle(c *gin.Context) {
	resp, err := h.svc.Detalle(c.Request.Context(), c.Param("numero_factura"), c.Query("al"))
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarPago godoc
// @Summary      Registrar pago de cliente
// @Description  Identifica la nota por documento_id o numero_factura. Rechaza importes mayores al saldo pendiente.
// @Tags         cuentas-por-cobrar
// @Accept       json
// @Produce      json
// @Param        body body dto.RegistrarPagoRequest true "Pago"
// @Success      201 {object} dto.RegistrarPagoResponse
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/cuentas-por-cobrar/pagos [post]
func (h *CobranzaHandler) RegistrarPago(c *gin.Context) {
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarPago(c.Request.Context(), req)
	if err != nil {
		fallaEscritura(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CobranzaHandler) HistorialPagosCliente(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.HistorialPagosCliente(c.Request.Context(), id)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EstadoCuentaPDF streams the client's statement as application/pdf.
func (h *CobranzaHandler) EstadoCuentaPDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pdf, err := h.svc.EstadoCuentaPDF(c.Request.Context(), id, c.Query("al"))
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="estado_cuenta_%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// EncolarRecordatorios enqueues the overdue reminders now instead of waiting
// for the daily run.
func (h *CobranzaHandler) EncolarRecordatorios(c *gin.Context) {
	al := time.Now()
	if raw := c.Query("al"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewCampo("Error de validacion", "al", "formato esperado YYYY-MM-DD"))
			return
		}
		al = t
	}
	n, err := h.svc.EncolarRecordatorios(c.Request.Context(), al)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("No se pudieron encolar los recordatorios"))
		return
	}
	c.JSON(http.StatusAccepted, dto.RecordatoriosResponse{Encolados: n})
}

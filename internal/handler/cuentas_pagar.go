package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/victor-varac/AIKZ-sub001/internal/apierror"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/service"
)

type CuentasPagarHandler struct{ svc service.CuentasPagarService }

func NewCuentasPagarHandler(svc service.CuentasPagarService) *CuentasPagarHandler {
	return &CuentasPagarHandler{svc: svc}
}

// ── Compras ───────────────────────────────────────────────────────────────────

func (h *CuentasPagarHandler) CrearCompra(c *gin.Context) {
	var req dto.CrearCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		fallaEscritura(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CuentasPagarHandler) ListarCompras(c *gin.Context) {
	var filter dto.CarteraFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CuentasPagarHandler) ObtenerCompra(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id, c.Query("al"))
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CuentasPagarHandler) ActualizarCompra(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		fallaEscritura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CuentasPagarHandler) EliminarCompra(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		fallaEscritura(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Cuentas ───────────────────────────────────────────────────────────────────

func (h *CuentasPagarHandler) ListarCuentas(c *gin.Context) {
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

func (h *CuentasPagarHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context(), c.Query("al"))
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarPago godoc
// @Summary      Registrar pago a proveedor
// @Description  Registra el pago y el gasto "Pago a Proveedores" en la misma transacción.
// @Tags         cuentas-por-pagar
// @Accept       json
// @Produce      json
// @Param        body body dto.RegistrarPagoRequest true "Pago"
// @Success      201 {object} dto.RegistrarPagoResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/cuentas-por-pagar/pagos [post]
func (h *CuentasPagarHandler) RegistrarPago(c *gin.Context) {
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

func (h *CuentasPagarHandler) HistorialPagos(c *gin.Context) {
	var rango dto.RangoFechas
	if !bindQuery(c, &rango) {
		return
	}
	resp, err := h.svc.HistorialPagos(c.Request.Context(), rango)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProyeccionPagos lists the payables due within ?dias= (30 by default).
func (h *CuentasPagarHandler) ProyeccionPagos(c *gin.Context) {
	dias := 0
	if raw := c.Query("dias"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewCampo("Error de validacion", "dias", "debe ser un entero"))
			return
		}
		dias = n
	}
	resp, err := h.svc.ProyeccionPagos(c.Request.Context(), dias, c.Query("al"))
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CuentasPagarHandler) GastosPorProveedor(c *gin.Context) {
	var rango dto.RangoFechas
	if !bindQuery(c, &rango) {
		return
	}
	resp, err := h.svc.GastosPorProveedor(c.Request.Context(), rango)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/service"
)

// ── Clientes ──────────────────────────────────────────────────────────────────

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
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

func (h *ClientesHandler) Listar(c *gin.Context) {
	var filter dto.ClienteFilter
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

// Detalle godoc
// @Summary      Cliente con estadísticas de cartera
// @Tags         clientes
// @Produce      json
// @Param        id  path  string true  "UUID del cliente"
// @Param        al  query string false "Fecha de corte YYYY-MM-DD"
// @Success      200 {object} dto.ClienteDetalleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/clientes/{id} [get]
func (h *ClientesHandler) Detalle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Detalle(c.Request.Context(), id, c.Query("al"))
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarClienteRequest
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

func (h *ClientesHandler) Desactivar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		fallaEscritura(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Vendedores ────────────────────────────────────────────────────────────────

type VendedoresHandler struct{ svc service.VendedorService }

func NewVendedoresHandler(svc service.VendedorService) *VendedoresHandler {
	return &VendedoresHandler{svc: svc}
}

func (h *VendedoresHandler) Crear(c *gin.Context) {
	var req dto.CrearVendedorRequest
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

func (h *VendedoresHandler) Listar(c *gin.Context) {
	var filter dto.VendedorFilter
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

func (h *VendedoresHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendedoresHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CrearVendedorRequest
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

func (h *VendedoresHandler) Desactivar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		fallaEscritura(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Ranking totals sales and commission per salesperson for ?desde=&hasta=.
func (h *VendedoresHandler) Ranking(c *gin.Context) {
	var rango dto.RangoFechas
	if !bindQuery(c, &rango) {
		return
	}
	resp, err := h.svc.Ranking(c.Request.Context(), rango)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Proveedores ───────────────────────────────────────────────────────────────

type ProveedoresHandler struct{ svc service.ProveedorService }

func NewProveedoresHandler(svc service.ProveedorService) *ProveedoresHandler {
	return &ProveedoresHandler{svc: svc}
}

func (h *ProveedoresHandler) Crear(c *gin.Context) {
	var req dto.CrearProveedorRequest
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

func (h *ProveedoresHandler) Listar(c *gin.Context) {
	var filter dto.ProveedorFilter
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

func (h *ProveedoresHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProveedoresHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CrearProveedorRequest
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

func (h *ProveedoresHandler) Eliminar(c *gin.Context) {
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

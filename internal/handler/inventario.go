package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/apierror"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/service"
)

// ── Almacén de producto terminado ─────────────────────────────────────────────

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// RegistrarMovimiento godoc
// @Summary      Registrar entrada o salida de almacén
// @Tags         almacen
// @Accept       json
// @Produce      json
// @Param        body body dto.RegistrarMovimientoRequest true "Movimiento"
// @Success      201 {object} dto.MovimientoResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/almacen/movimientos [post]
func (h *InventarioHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.RegistrarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), req)
	if err != nil {
		fallaEscritura(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) EliminarMovimiento(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarMovimiento(c.Request.Context(), id); err != nil {
		fallaEscritura(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Existencias returns the stock of every active product of ?material=.
func (h *InventarioHandler) Existencias(c *gin.Context) {
	resp, err := h.svc.Existencias(c.Request.Context(), c.Query("material"))
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ExistenciaProducto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ExistenciaProducto(c.Request.Context(), id)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Materia prima ─────────────────────────────────────────────────────────────

type MateriasPrimasHandler struct{ svc service.MateriaPrimaService }

func NewMateriasPrimasHandler(svc service.MateriaPrimaService) *MateriasPrimasHandler {
	return &MateriasPrimasHandler{svc: svc}
}

func (h *MateriasPrimasHandler) Crear(c *gin.Context) {
	var req dto.CrearMateriaPrimaRequest
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

func (h *MateriasPrimasHandler) Listar(c *gin.Context) {
	var filter dto.MateriaPrimaFilter
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

func (h *MateriasPrimasHandler) ObtenerPorID(c *gin.Context) {
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

func (h *MateriasPrimasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarMateriaPrimaRequest
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

func (h *MateriasPrimasHandler) Eliminar(c *gin.Context) {
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

func (h *MateriasPrimasHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.RegistrarMovimientoMPRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), req)
	if err != nil {
		fallaEscritura(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MateriasPrimasHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoMPFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Inventario lists every raw material with its stock and BAJO/OK state.
func (h *MateriasPrimasHandler) Inventario(c *gin.Context) {
	resp, err := h.svc.Inventario(c.Request.Context(), c.Query("tipo"))
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Disponibilidad answers whether ?cantidad= can be taken from stock.
func (h *MateriasPrimasHandler) Disponibilidad(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cantidad, err := decimal.NewFromString(c.Query("cantidad"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewCampo("Error de validacion", "cantidad", "debe ser numérica"))
		return
	}
	resp, err := h.svc.ValidarDisponibilidad(c.Request.Context(), id, cantidad)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

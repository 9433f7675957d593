package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/service"
)

type NotasVentaHandler struct{ svc service.NotaVentaService }

func NewNotasVentaHandler(svc service.NotaVentaService) *NotasVentaHandler {
	return &NotasVentaHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar nota de venta
// @Description  Calcula subtotal, IVA y total a partir de los pedidos; el vencimiento usa los días de crédito del cliente si no se indican.
// @Tags         notas-venta
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearNotaVentaRequest true "Nota de venta"
// @Success      201 {object} dto.NotaVentaResponse
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/notas-venta [post]
func (h *NotasVentaHandler) Crear(c *gin.Context) {
	var req dto.CrearNotaVentaRequest
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

func (h *NotasVentaHandler) Listar(c *gin.Context) {
	var filter dto.NotaVentaFilter
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

func (h *NotasVentaHandler) ObtenerPorID(c *gin.Context) {
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

func (h *NotasVentaHandler) Eliminar(c *gin.Context) {
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

func (h *NotasVentaHandler) RegistrarEntregas(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarEntregasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarEntregas(c.Request.Context(), id, req)
	if err != nil {
		fallaEscritura(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EntregarTodo delivers every pending quantity of the note.
func (h *NotasVentaHandler) EntregarTodo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.EntregarTodoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EntregarTodo(c.Request.Context(), id, req)
	if err != nil {
		fallaEscritura(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

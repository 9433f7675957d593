package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/service"
)

type GastosHandler struct{ svc service.GastoService }

func NewGastosHandler(svc service.GastoService) *GastosHandler {
	return &GastosHandler{svc: svc}
}

func (h *GastosHandler) Crear(c *gin.Context) {
	var req dto.CrearGastoRequest
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

func (h *GastosHandler) Listar(c *gin.Context) {
	var filter dto.GastoFilter
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

func (h *GastosHandler) ObtenerPorID(c *gin.Context) {
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

func (h *GastosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CrearGastoRequest
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

func (h *GastosHandler) Eliminar(c *gin.Context) {
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

func (h *GastosHandler) Resumen(c *gin.Context) {
	var rango dto.RangoFechas
	if !bindQuery(c, &rango) {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), rango)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GastosHandler) PorCategoria(c *gin.Context) {
	var rango dto.RangoFechas
	if !bindQuery(c, &rango) {
		return
	}
	resp, err := h.svc.PorCategoria(c.Request.Context(), rango)
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

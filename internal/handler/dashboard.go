package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victor-varac/AIKZ-sub001/internal/service"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Obtener godoc
// @Summary      Tablero principal
// @Description  Cada widget trae sus propios datos y error; un widget fallido no vacía a los demás.
// @Tags         dashboard
// @Produce      json
// @Param        al  query string false "Fecha de corte YYYY-MM-DD"
// @Success      200 {object} dto.DashboardResponse
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), c.Query("al"))
	if err != nil {
		fallaLectura(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

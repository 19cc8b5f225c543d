package handler

import (
	"net/http"

	"comprasverdu/internal/service"

	"github.com/gin-gonic/gin"
)

type InfoFinalHandler struct{ svc service.InfoFinalService }

func NewInfoFinalHandler(svc service.InfoFinalService) *InfoFinalHandler {
	return &InfoFinalHandler{svc: svc}
}

// Articulos devuelve el reporte final del día: lo recibido agrupado por
// (código, uxb) con costo ponderado y referencia externa.
func (h *InfoFinalHandler) Articulos(c *gin.Context) {
	fecha := c.Query("fecha")
	resp, err := h.svc.InfoFinalArticulos(c.Request.Context(), fecha)
	if err != nil {
		writeServiceError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"comprasverdu/internal/apierror"
	"comprasverdu/internal/dto"
	"comprasverdu/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecepcionesHandler struct{ svc service.RecepcionService }

func NewRecepcionesHandler(svc service.RecepcionService) *RecepcionesHandler {
	return &RecepcionesHandler{svc: svc}
}

// Recibir reemplaza los renglones recibidos de la compra. Reenviar el mismo
// POST pisa lo anterior y resetea el estado de precios.
func (h *RecepcionesHandler) Recibir(c *gin.Context) {
	compraID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RecibirRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Recibir(c.Request.Context(), compraID, req)
	if err != nil {
		writeServiceError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecepcionesHandler) ObtenerPorCompra(c *gin.Context) {
	compraID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorCompra(c.Request.Context(), compraID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GuardarPrecios fija precios de venta por renglón y deja la recepción
// completa (elegible para el reporte final).
func (h *RecepcionesHandler) GuardarPrecios(c *gin.Context) {
	recepcionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.GuardarPreciosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GuardarPrecios(c.Request.Context(), recepcionID, req)
	if err != nil {
		writeServiceError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

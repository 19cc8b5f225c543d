package handler

import (
	"net/http"

	"comprasverdu/internal/dto"
	"comprasverdu/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.ListadoService }

func NewProductosHandler(svc service.ListadoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Listar devuelve el listado enriquecido: artículos del maestro externo (o
// del espejo local al buscar por texto) con stock, precios y ventas.
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Proveedores(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Proveedores(c.Request.Context()))
}

func (h *ProductosHandler) ArticulosDeProveedor(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ArticulosDeProveedor(c.Request.Context(), c.Param("codigo")))
}

func (h *ProductosHandler) ArticulosDeDepartamento(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ArticulosDeDepartamento(c.Request.Context(), c.Param("id")))
}

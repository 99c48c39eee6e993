package handler

import (
	"net/http"

	"asistencia/internal/apierror"
	"asistencia/internal/dto"
	"asistencia/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	puntos   service.PuntoService
	settings service.ConfigService
}

func NewConfigHandler(puntos service.PuntoService, settings service.ConfigService) *ConfigHandler {
	return &ConfigHandler{puntos: puntos, settings: settings}
}

// ListarPuntos godoc
// @Summary Puntos de marcación activos
// @Tags config
// @Produce json
// @Success 200 {array} dto.PuntoResponse
// @Router /api/config/points [get]
func (h *ConfigHandler) ListarPuntos(c *gin.Context) {
	resp, err := h.puntos.ListarActivos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// GuardarPuntos godoc
// @Summary Reemplaza todos los puntos de marcación
// @Tags config
// @Accept json
// @Produce json
// @Param body body []dto.PuntoRequest true "Puntos"
// @Success 200 {object} dto.PuntosGuardadosResponse
// @Failure 400 {object} apierror.Envelope
// @Router /api/config/points [put]
func (h *ConfigHandler) GuardarPuntos(c *gin.Context) {
	var req []dto.PuntoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.puntos.Reemplazar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// ObtenerSettings GET /api/config/settings
func (h *ConfigHandler) ObtenerSettings(c *gin.Context) {
	resp, err := h.settings.ObtenerTodo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// GuardarSettings PUT /api/config/settings
func (h *ConfigHandler) GuardarSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil || req == nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("Se esperaba un objeto clave/valor de texto"))
		return
	}
	if err := h.settings.Guardar(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(nil))
}

package handler

import (
	"net/http"

	"asistencia/internal/apierror"
	"asistencia/internal/dto"
	"asistencia/internal/service"

	"github.com/gin-gonic/gin"
)

type AsistenciaHandler struct{ svc service.AsistenciaService }

func NewAsistenciaHandler(svc service.AsistenciaService) *AsistenciaHandler {
	return &AsistenciaHandler{svc: svc}
}

// Registrar godoc
// @Summary Registrar entrada o salida
// @Tags asistencia
// @Accept json
// @Produce json
// @Param body body dto.RegistrarAsistenciaRequest true "Marcación"
// @Success 201 {object} dto.AsistenciaResponse
// @Failure 409 {object} apierror.Envelope
// @Router /api/attendance [post]
func (h *AsistenciaHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarAsistenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

// Listar godoc
// @Summary Lista de marcaciones, opcionalmente por fecha
// @Tags asistencia
// @Produce json
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {array} dto.AsistenciaResponse
// @Failure 400 {object} apierror.Envelope
// @Router /api/attendance [get]
func (h *AsistenciaHandler) Listar(c *gin.Context) {
	fecha := c.Query("date")
	if fecha != "" && !validFecha(fecha) {
		c.JSON(http.StatusBadRequest, apierror.FailValidation(map[string]string{"date": "fecha"}))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

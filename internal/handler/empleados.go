package handler

import (
	"net/http"

	"asistencia/internal/apierror"
	"asistencia/internal/dto"
	"asistencia/internal/service"

	"github.com/gin-gonic/gin"
)

type EmpleadosHandler struct{ svc service.EmpleadoService }

func NewEmpleadosHandler(svc service.EmpleadoService) *EmpleadosHandler {
	return &EmpleadosHandler{svc: svc}
}

// Listar godoc
// @Summary Lista de empleados
// @Tags empleados
// @Produce json
// @Success 200 {array} dto.EmpleadoResponse
// @Router /api/employees [get]
func (h *EmpleadosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// Crear godoc
// @Summary Registrar empleado
// @Tags empleados
// @Accept json
// @Produce json
// @Param body body dto.CrearEmpleadoRequest true "Empleado"
// @Success 201 {object} apierror.Envelope
// @Failure 409 {object} apierror.Envelope
// @Router /api/employees [post]
func (h *EmpleadosHandler) Crear(c *gin.Context) {
	var req dto.CrearEmpleadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Crear(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(nil))
}

// Actualizar PUT /api/employees/:dni
func (h *EmpleadosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarEmpleadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Actualizar(c.Request.Context(), c.Param("dni"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(nil))
}

// Eliminar DELETE /api/employees/:dni
func (h *EmpleadosHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), c.Param("dni")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(nil))
}

package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleet-registry/internal/http/middleware"
	"fleet-registry/internal/model"
)

func (h *Handler) createVehicle(c *gin.Context) {
	var vehicle model.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
		return
	}

	created, err := h.vehicleService.Create(c.Request.Context(), &vehicle)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(gin.H{"vehicle": created}))
}

func (h *Handler) getVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, failResponse("missing principal"))
		return
	}

	vehicle, err := h.vehicleService.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"vehicle": vehicle}))
}

func (h *Handler) listVehicles(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, failResponse("missing principal"))
		return
	}

	result, err := h.vehicleService.List(c.Request.Context(), principal, queryParams(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"results":     len(result.Vehicles),
		"total":       result.Total,
		"page":        result.Page,
		"total_pages": result.TotalPages,
		"data":        gin.H{"vehicles": result.Vehicles},
	})
}

func (h *Handler) vehiclesBySector(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, failResponse("missing principal"))
		return
	}

	vehicles, err := h.vehicleService.ListBySector(c.Request.Context(), principal, c.Param("sector"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(vehicles),
		"data":    gin.H{"vehicles": vehicles},
	})
}

func (h *Handler) vehiclesByAdministration(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, failResponse("missing principal"))
		return
	}

	vehicles, err := h.vehicleService.ListByAdministration(c.Request.Context(), principal, c.Param("administration"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(vehicles),
		"data":    gin.H{"vehicles": vehicles},
	})
}

func (h *Handler) updateVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, failResponse("missing principal"))
		return
	}

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), principal, c.Param("id"), patch)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"vehicle": vehicle}))
}

func (h *Handler) updateInsuranceStatus(c *gin.Context) {
	var req struct {
		ID              string `json:"id" binding:"required"`
		InsuranceStatus string `json:"insurance_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
		return
	}

	if err := h.vehicleService.UpdateInsuranceStatus(c.Request.Context(), req.ID, req.InsuranceStatus); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"message": "insurance status updated"}))
}

func (h *Handler) deleteVehicle(c *gin.Context) {
	if err := h.vehicleService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) vehicleUniqueFieldValues(c *gin.Context) {
	fields := splitFields(c.Query("fields"))
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, failResponse("please specify fields to get unique values"))
		return
	}

	values, err := h.vehicleService.UniqueFieldValues(c.Request.Context(), fields)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(values))
}

func splitFields(raw string) []string {
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			fields = append(fields, part)
		}
	}
	return fields
}

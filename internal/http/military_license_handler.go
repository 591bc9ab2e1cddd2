package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-registry/internal/model"
	"fleet-registry/internal/service"
)

func (h *Handler) createMilitaryLicense(c *gin.Context) {
	var license model.MilitaryLicense
	if err := c.ShouldBindJSON(&license); err != nil {
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
		return
	}

	created, err := h.militaryService.Create(c.Request.Context(), &license)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(gin.H{"militaryLicense": created}))
}

func (h *Handler) listMilitaryLicenses(c *gin.Context) {
	result, err := h.militaryService.List(c.Request.Context(), queryParams(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"results":     len(result.Licenses),
		"total":       result.Total,
		"page":        result.Page,
		"total_pages": result.TotalPages,
		"data":        gin.H{"militaryLicenses": result.Licenses},
	})
}

func (h *Handler) getMilitaryLicense(c *gin.Context) {
	license, err := h.militaryService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"militaryLicense": license}))
}

func (h *Handler) getMilitaryLicenseByChassis(c *gin.Context) {
	license, err := h.militaryService.GetByChassisNumber(c.Request.Context(), c.Param("chassis_number"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"militaryLicense": license}))
}

func (h *Handler) getMilitaryLicenseByVehicleID(c *gin.Context) {
	license, err := h.militaryService.GetByVehicleID(c.Request.Context(), c.Param("vehicleId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"militaryLicense": license}))
}

func (h *Handler) updateMilitaryLicense(c *gin.Context) {
	var input service.UpdateMilitaryLicenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
		return
	}

	license, err := h.militaryService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"militaryLicense": license}))
}

func (h *Handler) deleteMilitaryLicense(c *gin.Context) {
	if err := h.militaryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) militaryUniqueFieldValues(c *gin.Context) {
	fields := splitFields(c.Query("fields"))
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, failResponse("please specify fields to get unique values"))
		return
	}

	values, err := h.militaryService.UniqueFieldValues(c.Request.Context(), fields)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(values))
}

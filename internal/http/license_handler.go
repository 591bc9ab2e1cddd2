package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet-registry/internal/model"
	"fleet-registry/internal/service"
)

func (h *Handler) createLicense(c *gin.Context) {
	var license model.License
	if err := c.ShouldBindJSON(&license); err != nil {
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
		return
	}

	created, err := h.licenseService.Create(c.Request.Context(), &license)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(gin.H{"license": created}))
}

func (h *Handler) listLicenses(c *gin.Context) {
	h.renderLicenseList(c, false)
}

func (h *Handler) listLicensesWithVehicles(c *gin.Context) {
	h.renderLicenseList(c, true)
}

func (h *Handler) renderLicenseList(c *gin.Context, withVehicles bool) {
	result, err := h.licenseService.List(c.Request.Context(), queryParams(c), withVehicles)
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
		"data":        gin.H{"licenses": result.Licenses},
	})
}

func (h *Handler) getLicense(c *gin.Context) {
	license, err := h.licenseService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"license": license}))
}

func (h *Handler) getLicenseByVehicleID(c *gin.Context) {
	license, err := h.licenseService.GetByVehicleID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"license": license}))
}

func (h *Handler) updateLicense(c *gin.Context) {
	var input service.UpdateLicenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
		return
	}

	license, err := h.licenseService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"license": license}))
}

func (h *Handler) deleteLicense(c *gin.Context) {
	if err := h.licenseService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) licenseUniqueFieldValues(c *gin.Context) {
	fields := splitFields(c.Query("fields"))
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, failResponse("please specify fields to get unique values"))
		return
	}

	values, err := h.licenseService.UniqueFieldValues(c.Request.Context(), fields)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(values))
}

func (h *Handler) expiredLicenses(c *gin.Context) {
	licenses, err := h.licenseService.Expired(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(licenses),
		"data":    gin.H{"licenses": licenses},
	})
}

// expiringLicenses serves both the default 30-day warning window and the
// explicit ?date= cutoff variant.
func (h *Handler) expiringLicenses(c *gin.Context) {
	var threshold *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := model.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, failResponse("invalid date, use DD-MM-YYYY or YYYY-MM-DD"))
			return
		}
		threshold = &parsed
	}

	licenses, err := h.licenseService.ExpiringBefore(c.Request.Context(), threshold)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(licenses),
		"data":    gin.H{"licenses": licenses},
	})
}

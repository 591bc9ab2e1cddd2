package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fleet-registry/internal/auth"
	"fleet-registry/internal/http/middleware"
	"fleet-registry/internal/model"
	"fleet-registry/internal/service"
)

type Handler struct {
	vehicleService  *service.VehicleService
	licenseService  *service.LicenseService
	militaryService *service.MilitaryLicenseService
	userService     *service.UserService
	tokens          *auth.Manager
	log             zerolog.Logger
	env             string
	cookieTTL       time.Duration
}

func NewHandler(
	vehicleService *service.VehicleService,
	licenseService *service.LicenseService,
	militaryService *service.MilitaryLicenseService,
	userService *service.UserService,
	tokens *auth.Manager,
	log zerolog.Logger,
	env string,
	cookieTTL time.Duration,
) *Handler {
	return &Handler{
		vehicleService:  vehicleService,
		licenseService:  licenseService,
		militaryService: militaryService,
		userService:     userService,
		tokens:          tokens,
		log:             log,
		env:             env,
		cookieTTL:       cookieTTL,
	}
}

func (h *Handler) Register(r *gin.Engine) {
	authMiddleware := middleware.Auth(h.tokens, h.userService)

	users := r.Group("/users")
	{
		users.POST("/login", h.login)

		users.Use(authMiddleware)
		users.POST("/logout", h.logout)
		users.GET("/me", h.me)

		admin := users.Group("")
		admin.Use(middleware.RequireRoles(model.RoleAdmin))
		{
			admin.GET("", h.listUsers)
			admin.POST("", h.createUser)
			admin.POST("/changePassword", h.changeUserPassword)
			admin.GET("/:id", h.getUser)
			admin.PATCH("/:id", h.updateUser)
			admin.DELETE("/:id", h.deleteUser)
		}
	}

	vehicles := r.Group("/vehicles")
	vehicles.Use(authMiddleware)
	{
		vehicles.GET("/getAllVehicles", h.listVehicles)
		vehicles.GET("/getUniqueFieldValues", h.vehicleUniqueFieldValues)
		vehicles.GET("/getVehicle/:id", h.getVehicle)

		byArea := vehicles.Group("")
		byArea.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleUser, model.RoleGPS, model.RoleViewer))
		{
			byArea.GET("/getVehiclesBySector/:sector", h.vehiclesBySector)
			byArea.GET("/getVehiclesByAdministration/:administration", h.vehiclesByAdministration)
		}

		editors := vehicles.Group("")
		editors.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleUser, model.RoleGPS))
		{
			editors.GET("/getFilteredVehicles", h.listVehicles)
			editors.PATCH("/updateVehicle/:id", h.updateVehicle)
		}

		writers := vehicles.Group("")
		writers.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleUser))
		{
			writers.POST("/createVehicle", h.createVehicle)
			writers.DELETE("/deleteVehicle/:id", h.deleteVehicle)
			writers.PUT("/updateInsuranceStatus", h.updateInsuranceStatus)
		}
	}

	licenses := r.Group("/licenses")
	licenses.Use(authMiddleware)
	{
		licenses.POST("/createLicense", h.createLicense)
		licenses.GET("/getAllLicenses", h.listLicenses)
		licenses.GET("/getAllLicensesWithVehicles", h.listLicensesWithVehicles)
		licenses.GET("/getLicenseById/:id", h.getLicense)
		licenses.GET("/getLicenseByVehicleId/:id", h.getLicenseByVehicleID)
		licenses.PATCH("/updateLicense/:id", h.updateLicense)
		licenses.DELETE("/deleteLicense/:id", h.deleteLicense)
		licenses.GET("/getUniqueFieldValues", h.licenseUniqueFieldValues)
		licenses.GET("/getExpiredLicenses", h.expiredLicenses)
		licenses.GET("/getExpiringLicenses", h.expiringLicenses)
		licenses.GET("/getExpiringLicensesBefore", h.expiringLicenses)
	}

	military := r.Group("/military-licenses")
	military.Use(authMiddleware)
	military.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleUser, model.RoleViewer))
	{
		military.GET("/getAllMilitaryLicenses", h.listMilitaryLicenses)
		military.POST("/createMilitaryLicense", h.createMilitaryLicense)
		military.GET("/getUniqueFieldValues", h.militaryUniqueFieldValues)
		military.GET("/byChassisNumber/:chassis_number", h.getMilitaryLicenseByChassis)
		military.GET("/byVehicleId/:vehicleId", h.getMilitaryLicenseByVehicleID)
		military.GET("/:id", h.getMilitaryLicense)
		military.PATCH("/:id", h.updateMilitaryLicense)
		military.DELETE("/:id", h.deleteMilitaryLicense)
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, failResponse(err.Error()))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, failResponse(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, failResponse(err.Error()))
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected error")
		if h.env == "production" {
			c.JSON(http.StatusInternalServerError, errorResponse("something went wrong"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse(err.Error()))
	}
}

// queryParams flattens the query string to the first value per key, which is
// the shape the filter compiler consumes.
func queryParams(c *gin.Context) map[string]string {
	raw := c.Request.URL.Query()
	params := make(map[string]string, len(raw))
	for key, values := range raw {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

package controller

import (
	"strings"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/middleware"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/service"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type ControlCenterController struct {
	service    service.ControlCenterService
	statistics service.StatisticsService
}

func CreateControlCenterController(e *echo.Group, service service.ControlCenterService, statistics service.StatisticsService) {
	cc := ControlCenterController{
		service:    service,
		statistics: statistics,
	}

	show := middleware.RequirePermission(domain.PermissionControlCentersShow)
	manage := middleware.RequirePermission(domain.PermissionControlCentersManage)

	e.GET("", cc.GetControlCenters, show)
	e.POST("", cc.CreateControlCenter, manage)
	e.GET("/status/:status", cc.GetDetailsByStatus, show)
	e.GET("/:id", cc.GetControlCenter, manage)
	e.PATCH("/:id", cc.PatchControlCenter, manage)
	e.DELETE("/:id", cc.DeleteControlCenter, manage)
	e.PATCH("/:id/member/:userId", cc.Join, manage)
	e.DELETE("/:id/member/:userId", cc.Leave, manage)
	e.PATCH("/:id/status/:status", cc.PatchStatus, manage)
	e.PATCH("/:id/vehicle/:vehicleId", cc.PatchVehicle, manage)
	e.DELETE("/:id/vehicle", cc.DeleteVehicle, manage)
}

func (c *ControlCenterController) GetControlCenters(e echo.Context) error {
	resp, err := c.service.GetControlCenters(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *ControlCenterController) GetControlCenter(e echo.Context) error {
	resp, err := c.service.GetControlCenter(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *ControlCenterController) CreateControlCenter(e echo.Context) error {
	payload := dto.ControlCenterRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "CreateControlCenter").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.CreateControlCenter(e.Request().Context(), middleware.GetProfile(e), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *ControlCenterController) PatchControlCenter(e echo.Context) error {
	payload := dto.ControlCenterRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "PatchControlCenter").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.PatchControlCenter(e.Request().Context(), middleware.GetProfile(e), e.Param("id"), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *ControlCenterController) DeleteControlCenter(e echo.Context) error {
	err := c.service.DeleteControlCenter(e.Request().Context(), middleware.GetProfile(e), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", nil)
}

func (c *ControlCenterController) Join(e echo.Context) error {
	resp, err := c.service.Join(e.Request().Context(), middleware.GetProfile(e), e.Param("id"), e.Param("userId"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *ControlCenterController) Leave(e echo.Context) error {
	resp, err := c.service.Leave(e.Request().Context(), middleware.GetProfile(e), e.Param("id"), e.Param("userId"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *ControlCenterController) PatchStatus(e echo.Context) error {
	status := domain.CenterStatus(strings.ToUpper(e.Param("status")))

	resp, err := c.service.PatchStatus(e.Request().Context(), middleware.GetProfile(e), e.Param("id"), status)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *ControlCenterController) PatchVehicle(e echo.Context) error {
	resp, err := c.service.PatchVehicle(e.Request().Context(), middleware.GetProfile(e), e.Param("id"), e.Param("vehicleId"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *ControlCenterController) DeleteVehicle(e echo.Context) error {
	resp, err := c.service.DeleteVehicle(e.Request().Context(), middleware.GetProfile(e), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

// GetDetailsByStatus returns the same roster the broadcaster pushes.
func (c *ControlCenterController) GetDetailsByStatus(e echo.Context) error {
	status := domain.DutyStatus(strings.ToUpper(e.Param("status")))
	if !status.Valid() {
		return response.WriteErrorResponse(e, errs.ErrInvalidStatus, nil)
	}

	resp, err := c.statistics.GetRoster(e.Request().Context(), status)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

package controller

import (
	"strconv"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/middleware"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/service"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/response"
	"github.com/labstack/echo/v4"
)

type StatisticsController struct {
	service service.StatisticsService
}

func CreateStatisticsController(e *echo.Group, service service.StatisticsService) {
	sc := StatisticsController{
		service: service,
	}
	e.GET("/counts", sc.GetCounts)
	e.GET("/trackings/:startDate/:endDate", sc.GetTrackings, middleware.RequirePermission(domain.PermissionStatisticsTrackings))
}

func (c *StatisticsController) GetCounts(e echo.Context) error {
	resp, err := c.service.GetCounts(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

// GetTrackings takes the window bounds as epoch milliseconds.
func (c *StatisticsController) GetTrackings(e echo.Context) error {
	startDate, err := strconv.ParseInt(e.Param("startDate"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}
	endDate, err := strconv.ParseInt(e.Param("endDate"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.GetTrackings(e.Request().Context(), dto.TrackingWindow{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

package controller

import (
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/service"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/response"
	"github.com/labstack/echo/v4"
)

type ConnectionLister interface {
	Connections() []dto.ConnectionInfo
}

type AdminController struct {
	connections ConnectionLister
	dailyReset  service.DailyResetService
}

// CreateAdminController expects a group that is already restricted to
// administrators.
func CreateAdminController(e *echo.Group, connections ConnectionLister, dailyReset service.DailyResetService) {
	ac := AdminController{
		connections: connections,
		dailyReset:  dailyReset,
	}
	e.GET("/connections", ac.GetConnections)
	e.POST("/daily-reset", ac.RunDailyReset)
}

func (c *AdminController) GetConnections(e echo.Context) error {
	return response.WriteSuccessResponse(e, "", c.connections.Connections())
}

func (c *AdminController) RunDailyReset(e echo.Context) error {
	summary, err := c.dailyReset.Run(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, summary)
	}

	return response.WriteSuccessResponse(e, "", summary)
}

package controller

import (
	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/middleware"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/service"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type UserController struct {
	statusService service.StatusService
	userService   service.UserService
}

func CreateUserController(e *echo.Group, statusService service.StatusService, userService service.UserService) {
	uc := UserController{
		statusService: statusService,
		userService:   userService,
	}
	e.GET("/me", uc.GetMe)
	e.POST("/setup", uc.Setup)
	e.PATCH("/status", uc.PatchOwnStatus)
	e.PATCH("/status/:userId", uc.PatchStatus, middleware.RequirePermission(domain.PermissionUserStatusManage))
}

func (c *UserController) GetMe(e echo.Context) error {
	resp, err := c.userService.GetMe(e.Request().Context(), middleware.GetProfile(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *UserController) Setup(e echo.Context) error {
	payload := dto.SetupRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "Setup").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.userService.Setup(e.Request().Context(), middleware.GetProfile(e), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *UserController) PatchOwnStatus(e echo.Context) error {
	profile := middleware.GetProfile(e)
	return c.patchStatus(e, profile, profile.Sub)
}

func (c *UserController) PatchStatus(e echo.Context) error {
	return c.patchStatus(e, middleware.GetProfile(e), e.Param("userId"))
}

func (c *UserController) patchStatus(e echo.Context, actor domain.Profile, userID string) error {
	payload := dto.StatusRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "PatchStatus").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.statusService.SetStatus(e.Request().Context(), actor, userID, payload.Status)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

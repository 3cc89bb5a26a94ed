package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/service"
	"github.com/rryowa/taskmanager/internal/util"
)

var _ ServerInterface = (*Controller)(nil)

type Controller struct {
	zapLogger   *zap.SugaredLogger
	authService *service.AuthService
	listService *service.ListService
	taskService *service.TaskService
}

func NewController(
	logger *zap.SugaredLogger,
	authService *service.AuthService,
	listService *service.ListService,
	taskService *service.TaskService,
) *Controller {
	return &Controller{
		zapLogger:   logger,
		authService: authService,
		listService: listService,
		taskService: taskService,
	}
}

// (POST /users).
func (c *Controller) SignUp(ctx echo.Context) error {
	var req models.CredentialsRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.Register(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return respondWithTokens(ctx, res)
}

// (POST /users/login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.CredentialsRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return respondWithTokens(ctx, res)
}

// (GET /users/me/access-token).
func (c *Controller) GetAccessToken(ctx echo.Context) error {
	user, ok := ctx.Get(models.MwUserKey).(*models.User)
	if !ok {
		return util.NewResponseError(http.StatusUnauthorized, "%s", service.ErrUserNotFound)
	}

	accessToken, err := c.authService.RefreshAccessToken(ctx.Request().Context(), user)
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(models.HeaderAccessToken, accessToken)
	return ctx.JSON(http.StatusOK, models.AccessTokenResponse{AccessToken: accessToken})
}

// (DELETE /users/me/session).
func (c *Controller) Logout(ctx echo.Context) error {
	userID, _ := ctx.Get(models.MwUserIDKey).(string)
	refreshToken, _ := ctx.Get(models.MwRefreshTokenKey).(string)
	accessToken := ctx.Request().Header.Get(models.HeaderAccessToken)

	if err := c.authService.Logout(ctx.Request().Context(), userID, refreshToken, accessToken); err != nil {
		return err
	}

	c.zapLogger.Infow("session closed", "userID", userID)
	return ctx.JSON(http.StatusOK, models.MessageResponse{Message: "logged out"})
}

// (GET /lists).
func (c *Controller) GetLists(ctx echo.Context) error {
	lists, err := c.listService.Lists(ctx.Request().Context(), userID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lists)
}

// (POST /lists).
func (c *Controller) CreateList(ctx echo.Context) error {
	var req models.CreateListRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	list, err := c.listService.CreateList(ctx.Request().Context(), userID(ctx), req.Title)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}

// (PATCH /lists/{id}).
func (c *Controller) UpdateList(ctx echo.Context, id string) error {
	var patch models.ListPatch
	if err := bindBody(ctx, &patch); err != nil {
		return err
	}

	if err := c.listService.UpdateList(ctx.Request().Context(), userID(ctx), id, patch); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.MessageResponse{Message: "updated successfully"})
}

// (DELETE /lists/{id}).
func (c *Controller) DeleteList(ctx echo.Context, id string) error {
	removed, err := c.listService.DeleteList(ctx.Request().Context(), userID(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, removed)
}

// (GET /lists/{listId}/tasks).
func (c *Controller) GetTasks(ctx echo.Context, listID string) error {
	tasks, err := c.taskService.Tasks(ctx.Request().Context(), userID(ctx), listID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tasks)
}

// (POST /lists/{listId}/tasks).
func (c *Controller) CreateTask(ctx echo.Context, listID string) error {
	var req models.CreateTaskRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	task, err := c.taskService.CreateTask(ctx.Request().Context(), userID(ctx), listID, req.Title)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, task)
}

// (PATCH /lists/{listId}/tasks/{taskId}).
func (c *Controller) UpdateTask(ctx echo.Context, listID string, taskID string) error {
	var patch models.TaskPatch
	if err := bindBody(ctx, &patch); err != nil {
		return err
	}

	if err := c.taskService.UpdateTask(ctx.Request().Context(), userID(ctx), listID, taskID, patch); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.MessageResponse{Message: "Updated"})
}

// (DELETE /lists/{listId}/tasks/{taskId}).
func (c *Controller) DeleteTask(ctx echo.Context, listID string, taskID string) error {
	removed, err := c.taskService.DeleteTask(ctx.Request().Context(), userID(ctx), listID, taskID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, removed)
}

func respondWithTokens(ctx echo.Context, res *service.AuthResult) error {
	h := ctx.Response().Header()
	h.Set(models.HeaderRefreshToken, res.RefreshToken)
	h.Set(models.HeaderAccessToken, res.AccessToken)
	return ctx.JSON(http.StatusOK, res.User)
}

// bindBody decodes only the JSON body; path params never leak into the payload.
func bindBody(ctx echo.Context, dst interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(ctx, dst); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid request body")
	}
	return nil
}

func userID(ctx echo.Context) string {
	id, _ := ctx.Get(models.MwUserIDKey).(string)
	return id
}

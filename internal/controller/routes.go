package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /users)
	SignUp(ctx echo.Context) error
	// (POST /users/login)
	Login(ctx echo.Context) error
	// (GET /users/me/access-token)
	GetAccessToken(ctx echo.Context) error
	// (DELETE /users/me/session)
	Logout(ctx echo.Context) error
	// (GET /lists)
	GetLists(ctx echo.Context) error
	// (POST /lists)
	CreateList(ctx echo.Context) error
	// (PATCH /lists/{id})
	UpdateList(ctx echo.Context, id string) error
	// (DELETE /lists/{id})
	DeleteList(ctx echo.Context, id string) error
	// (GET /lists/{listId}/tasks)
	GetTasks(ctx echo.Context, listID string) error
	// (POST /lists/{listId}/tasks)
	CreateTask(ctx echo.Context, listID string) error
	// (PATCH /lists/{listId}/tasks/{taskId})
	UpdateTask(ctx echo.Context, listID string, taskID string) error
	// (DELETE /lists/{listId}/tasks/{taskId})
	DeleteTask(ctx echo.Context, listID string, taskID string) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) SignUp(ctx echo.Context) error {
	return w.Handler.SignUp(ctx)
}

func (w *ServerInterfaceWrapper) Login(ctx echo.Context) error {
	return w.Handler.Login(ctx)
}

func (w *ServerInterfaceWrapper) GetAccessToken(ctx echo.Context) error {
	return w.Handler.GetAccessToken(ctx)
}

func (w *ServerInterfaceWrapper) Logout(ctx echo.Context) error {
	return w.Handler.Logout(ctx)
}

func (w *ServerInterfaceWrapper) GetLists(ctx echo.Context) error {
	return w.Handler.GetLists(ctx)
}

func (w *ServerInterfaceWrapper) CreateList(ctx echo.Context) error {
	return w.Handler.CreateList(ctx)
}

func (w *ServerInterfaceWrapper) UpdateList(ctx echo.Context) error {
	id, err := bindPathParam(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.UpdateList(ctx, id)
}

func (w *ServerInterfaceWrapper) DeleteList(ctx echo.Context) error {
	id, err := bindPathParam(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.DeleteList(ctx, id)
}

func (w *ServerInterfaceWrapper) GetTasks(ctx echo.Context) error {
	listID, err := bindPathParam(ctx, "listId")
	if err != nil {
		return err
	}
	return w.Handler.GetTasks(ctx, listID)
}

func (w *ServerInterfaceWrapper) CreateTask(ctx echo.Context) error {
	listID, err := bindPathParam(ctx, "listId")
	if err != nil {
		return err
	}
	return w.Handler.CreateTask(ctx, listID)
}

func (w *ServerInterfaceWrapper) UpdateTask(ctx echo.Context) error {
	listID, err := bindPathParam(ctx, "listId")
	if err != nil {
		return err
	}
	taskID, err := bindPathParam(ctx, "taskId")
	if err != nil {
		return err
	}
	return w.Handler.UpdateTask(ctx, listID, taskID)
}

func (w *ServerInterfaceWrapper) DeleteTask(ctx echo.Context) error {
	listID, err := bindPathParam(ctx, "listId")
	if err != nil {
		return err
	}
	taskID, err := bindPathParam(ctx, "taskId")
	if err != nil {
		return err
	}
	return w.Handler.DeleteTask(ctx, listID, taskID)
}

func bindPathParam(ctx echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return value, nil
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Gates guard the session and resource routes.
type Gates struct {
	Access  echo.MiddlewareFunc
	Session echo.MiddlewareFunc
}

// RegisterHandlersWithBaseURL adds each server route to the EchoRouter with a base URL prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, gates Gates, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/users", wrapper.SignUp)
	router.POST(baseURL+"/users/login", wrapper.Login)
	router.GET(baseURL+"/users/me/access-token", wrapper.GetAccessToken, gates.Session)
	router.DELETE(baseURL+"/users/me/session", wrapper.Logout, gates.Session)

	router.GET(baseURL+"/lists", wrapper.GetLists, gates.Access)
	router.POST(baseURL+"/lists", wrapper.CreateList, gates.Access)
	router.PATCH(baseURL+"/lists/:id", wrapper.UpdateList, gates.Access)
	router.DELETE(baseURL+"/lists/:id", wrapper.DeleteList, gates.Access)

	router.GET(baseURL+"/lists/:listId/tasks", wrapper.GetTasks, gates.Access)
	router.POST(baseURL+"/lists/:listId/tasks", wrapper.CreateTask, gates.Access)
	router.PATCH(baseURL+"/lists/:listId/tasks/:taskId", wrapper.UpdateTask, gates.Access)
	router.DELETE(baseURL+"/lists/:listId/tasks/:taskId", wrapper.DeleteTask, gates.Access)
}

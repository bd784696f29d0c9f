package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core/result"
	"github.com/trezcool/cgpa/core/user"
)

type resultApi struct {
	usrSvc   *user.Service
	svc      *result.Service
	validate *validator.Validate
}

func registerResultAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	usrSvc *user.Service,
	svc *result.Service,
	validate *validator.Validate,
) {
	api := resultApi{
		usrSvc:   usrSvc,
		svc:      svc,
		validate: validate,
	}

	rg := g.Group("/results", authed...)
	rg.GET("", api.query)
	rg.POST("", api.upload)
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id", api.update)
	rg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *resultApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(result.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []result.Result{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx, result.OrderingFields...)

	results, err := api.svc.Query(ctx.Request().Context(), usr.ID, filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	if results == nil {
		results = []result.Result{}
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *resultApi) upload(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data result.NewResult
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Upload(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "uploading result")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *resultApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	res, err := api.svc.GetByID(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding result by ID")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *resultApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data result.UpdateResult
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateResult")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Update(ctx.Request().Context(), usr.ID, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating result")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *resultApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err = api.svc.Delete(ctx.Request().Context(), usr.ID, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting result")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Result deleted successfully"})
}

type MessageResponse struct {
	Message string `json:"message"`
}

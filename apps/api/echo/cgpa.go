package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core/cgpa"
	"github.com/trezcool/cgpa/core/result"
	"github.com/trezcool/cgpa/core/user"
)

type cgpaApi struct {
	usrSvc   *user.Service
	resSvc   *result.Service
	validate *validator.Validate
}

func registerCGPAAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	usrSvc *user.Service,
	resSvc *result.Service,
	validate *validator.Validate,
) {
	api := cgpaApi{
		usrSvc:   usrSvc,
		resSvc:   resSvc,
		validate: validate,
	}

	cg := g.Group("/cgpa", authed...)
	cg.GET("", api.summary)
	cg.POST("/simulate", api.simulate)
	cg.GET("/suggestions", api.suggestions)
}

// contextResults loads all the Results of the authenticated User.
func (api *cgpaApi) contextResults(ctx echo.Context) ([]result.Result, error) {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return nil, errors.Wrap(err, "getting context user")
	}
	results, err := api.resSvc.QueryAll(ctx.Request().Context(), usr.ID)
	return results, errors.Wrap(err, "querying results")
}

// Handlers

func (api *cgpaApi) summary(ctx echo.Context) error {
	results, err := api.contextResults(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cgpa.Summarize(results))
}

func (api *cgpaApi) simulate(ctx echo.Context) error {
	var data cgpa.Hypothetical
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Hypothetical")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	results, err := api.contextResults(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cgpa.Simulate(results, data))
}

func (api *cgpaApi) suggestions(ctx echo.Context) error {
	results, err := api.contextResults(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cgpa.Suggest(results))
}

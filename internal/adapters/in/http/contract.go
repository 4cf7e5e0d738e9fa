package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var contractYAML []byte

// Contract is the parsed OpenAPI document of the public API.
type Contract struct {
	doc    *openapi3.T
	router routers.Router
}

// LoadContract parses and validates the embedded document.
func LoadContract(ctx context.Context) (*Contract, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(contractYAML)
	if err != nil {
		return nil, err
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, err
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	return &Contract{doc: doc, router: router}, nil
}

// Validator rejects requests that do not match the contract with 400.
// Paths the contract does not describe (health, metrics, swagger) pass through.
func (c *Contract) Validator() echo.MiddlewareFunc {
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         false,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			route, pathParams, err := c.router.FindRoute(req)
			if err != nil {
				return next(ctx)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return ctx.JSON(http.StatusBadRequest, Error{
					Code:    http.StatusBadRequest,
					Message: contractMessage(err),
				})
			}
			return next(ctx)
		}
	}
}

func contractMessage(err error) string {
	var requestErr *openapi3filter.RequestError
	if errors.As(err, &requestErr) {
		if requestErr.Parameter != nil {
			return "invalid parameter " + requestErr.Parameter.Name + ": " + requestErr.Err.Error()
		}
		if requestErr.RequestBody != nil && requestErr.Err != nil {
			return "invalid request body: " + requestErr.Err.Error()
		}
		return requestErr.Error()
	}
	return err.Error()
}

// swaggerDoc serves the contract to the Swagger UI.
type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string {
	return d.json
}

// RegisterSwagger publishes the contract under the default swag instance
// read by echo-swagger. The first registration wins.
func (c *Contract) RegisterSwagger() error {
	if swag.GetSwagger(swag.Name) != nil {
		return nil
	}
	body, err := json.Marshal(c.doc)
	if err != nil {
		return err
	}
	swag.Register(swag.Name, swaggerDoc{json: string(body)})
	return nil
}

// Package ez registers typed actions on gin: bind, trim, validate, guard,
// call the handler and write the JSON envelope with the right status.
package ez

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studio-site-api/internal/domain"
	"studio-site-api/internal/transport/http/middleware"
	resp "studio-site-api/internal/transport/http/response"
	"studio-site-api/internal/validate"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) *EZ { return &EZ{g: g} }

// Group nests a path under the current group with extra middleware.
func (e *EZ) Group(path string, h ...gin.HandlerFunc) *EZ {
	return &EZ{g: e.g.Group(path, h...)}
}

type Binder int

const (
	BindNone Binder = iota
	BindJSON
	BindQuery
)

// Action describes one endpoint. Auth requires a resolved principal and
// Roles additionally restricts it; Status is the success code (200 if zero).
type Action[I any, O any] struct {
	Method      string
	Path        string
	Binder      Binder
	Auth        bool
	Roles       []string
	Status      int
	Middlewares []gin.HandlerFunc
	Handler     func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e *EZ, a Action[I, O]) {
	var chain []gin.HandlerFunc
	if a.Auth || len(a.Roles) > 0 {
		chain = append(chain, middleware.Protect())
	}
	if len(a.Roles) > 0 {
		chain = append(chain, middleware.RestrictTo(a.Roles...))
	}
	chain = append(chain, a.Middlewares...)
	chain = append(chain, func(c *gin.Context) {
		var in I
		if err := Bind(c, a.Binder, &in); err != nil {
			Fail(c, err)
			return
		}
		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	})
	e.g.Handle(a.Method, a.Path, chain...)
}

// Bind decodes the request into in, trims every string in it and runs the
// field rules. Violations come back as one validation error.
func Bind(c *gin.Context, b Binder, in any) error {
	switch b {
	case BindJSON:
		if err := c.ShouldBindJSON(in); err != nil {
			return bindError(err)
		}
	case BindQuery:
		if err := c.ShouldBindQuery(in); err != nil {
			return domain.Invalid("Invalid query parameters")
		}
	default:
		return nil
	}
	validate.Trim(in)
	return validate.Struct(in)
}

func bindError(err error) error {
	var (
		typeErr  *json.UnmarshalTypeError
		syntax   *json.SyntaxError
		tooLarge *http.MaxBytesError
		timeErr  *time.ParseError
	)
	switch {
	case errors.Is(err, io.EOF):
		return domain.Invalid("Request body is required")
	case errors.As(err, &tooLarge):
		return domain.Invalid("Request body too large")
	case errors.As(err, &typeErr):
		return domain.Invalid("Invalid value for %s", typeErr.Field)
	case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
		return domain.Invalid("Malformed JSON body")
	case errors.As(err, &timeErr):
		return domain.Invalid("Invalid date %q", timeErr.Value)
	}
	return domain.Invalid("%s", err.Error())
}

// Fail writes err as {success:false, message} and records it on the context
// for the access log.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	resp.Abort(c, err)
}

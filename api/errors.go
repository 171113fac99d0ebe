package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrUnauthorizedRoute, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrDuplicateUser, http.StatusConflict},
	{domain.ErrNoSeatsAvailable, http.StatusConflict},
	{domain.ErrCheckoutExpired, http.StatusGone},
	{domain.ErrUnresolvedCity, http.StatusUnprocessableEntity},
}

// handleError writes the response for err. Unmapped errors become 500 and are
// recorded on the context for the request logger.
func handleError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: domain.ErrValidation.Error(), Fields: verr.Fields})
		return
	}
	for _, m := range statusBySentinel {
		if errors.Is(err, m.err) {
			c.AbortWithStatusJSON(m.status, errorResponse{Error: m.err.Error()})
			return
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

var bindingTags sync.Once

// useJSONFieldNames makes binding errors name fields the way clients send them.
func useJSONFieldNames() {
	bindingTags.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// bindJSON decodes the body into req and reports binding failures as validation errors.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	verr := &domain.ValidationError{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verr.Add(fieldName(fe), bindingMessage(fe))
		}
	} else {
		verr.Add("body", "malformed request body")
	}
	handleError(c, verr)
	return false
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "eqfield":
		return "must match " + fe.Param()
	default:
		return "is invalid"
	}
}

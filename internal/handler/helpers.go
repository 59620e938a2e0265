package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/apierror"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Let validator treat decimal.Decimal as its string form so tags like
	// "required" work on price fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// bindAndValidate decodes the JSON body into dest and runs struct validation.
// On failure it writes the error response and returns false.
func bindAndValidate(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid request body"))
		return false
	}
	if err := validate.Struct(dest); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseUUIDParam extracts and parses a UUID path parameter, writing a 400 on
// malformed input.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service sentinel errors to HTTP statuses. Anything
// unmapped is a 500 with the error text so operators can see which store call
// failed.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New("resource not found"))
	case errors.Is(err, service.ErrDuplicate):
		c.JSON(http.StatusConflict, apierror.New("resource already exists"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, apierror.New("operation not permitted"))
	case errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrProductNoPrice),
		errors.Is(err, service.ErrOrderNotCancelable):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
	}
}

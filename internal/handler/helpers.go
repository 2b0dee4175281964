package handler

import (
	"errors"
	"net/http"
	"reflect"

	"makiti/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalide: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewFields(fields))
		return false
	}
	return true
}

// respondErr translates a classified service error into its HTTP status and
// the canonical JSON envelope. Transient causes stay server-side.
func respondErr(c *gin.Context, err error) {
	status := apierror.Status(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	msg := "Erreur interne du serveur"
	var e *apierror.Error
	if errors.As(err, &e) {
		msg = e.Msg
	}
	c.JSON(status, apierror.New(msg))
}

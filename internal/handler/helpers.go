package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/apierror"
	"github.com/victor-varac/AIKZ-sub001/internal/middleware"
	"github.com/victor-varac/AIKZ-sub001/internal/service"
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
	// Report fields by their JSON name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		nombre := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if nombre == "-" || nombre == "" {
			return f.Name
		}
		return nombre
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// On failure it writes the response and returns false; the caller must
// return without writing another one.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQuery binds query parameters into filter.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return true
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// responderError maps service errors to status codes. porDefecto is used for
// errors outside the domain set: 400 on writes, 500 on reads.
func responderError(c *gin.Context, err error, porDefecto int) {
	var campo *service.CampoError
	switch {
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrFacturaDuplicada),
		errors.Is(err, service.ErrConPagos),
		errors.Is(err, service.ErrConMovimientos):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &campo):
		detail := "Error de validacion"
		if base := campo.Unwrap(); base != nil {
			detail = base.Error()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewCampo(detail, campo.Campo, campo.Mensaje))
	case errors.Is(err, service.ErrSobrepago),
		errors.Is(err, service.ErrStockInsuficiente),
		errors.Is(err, service.ErrDatosInvalidos):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("handler: request failed")
		if porDefecto == http.StatusInternalServerError {
			c.JSON(porDefecto, apierror.New("Error interno del servidor"))
			return
		}
		c.JSON(porDefecto, apierror.New("No se pudo completar la operacion"))
	}
}

func fallaLectura(c *gin.Context, err error)   { responderError(c, err, http.StatusInternalServerError) }
func fallaEscritura(c *gin.Context, err error) { responderError(c, err, http.StatusBadRequest) }

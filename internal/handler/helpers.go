package handler

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"asistencia/internal/apierror"
	"asistencia/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var (
	validate = validator.New()
	dniRe    = regexp.MustCompile(`^\d{8}$`)
	fechaRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func init() {
	// Report JSON field names instead of Go struct names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("dni", func(fl validator.FieldLevel) bool {
		return dniRe.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("fecha", func(fl validator.FieldLevel) bool {
		return validFecha(fl.Field().String())
	})
	_ = validate.RegisterValidation("password_fuerte", func(fl validator.FieldLevel) bool {
		return passwordFuerte(fl.Field().String())
	})
}

// validFecha accepts YYYY-MM-DD strings naming a real calendar day.
func validFecha(s string) bool {
	if !fechaRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// passwordFuerte: at least 8 chars with an upper, a lower and a digit.
func passwordFuerte(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// bindAndValidate binds the JSON body and runs go-playground/validator tags.
// Slices are validated element by element. Returns false and writes the error
// response if validation fails; the caller should return immediately.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("JSON inválido"))
		return false
	}

	fields := make(map[string]string)
	v := reflect.Indirect(reflect.ValueOf(req))
	if v.Kind() == reflect.Slice {
		if v.IsNil() {
			c.JSON(http.StatusBadRequest, apierror.Fail("Se esperaba una lista"))
			return false
		}
		for i := 0; i < v.Len(); i++ {
			collectFieldErrors(validate.Struct(v.Index(i).Interface()), "["+strconv.Itoa(i)+"].", fields)
		}
	} else {
		collectFieldErrors(validate.Struct(req), "", fields)
	}

	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, apierror.FailValidation(fields))
		return false
	}
	return true
}

func collectFieldErrors(err error, prefix string, fields map[string]string) {
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields[prefix+"_"] = err.Error()
		return
	}
	for _, fe := range verrs {
		fields[prefix+fe.Field()] = fe.Tag()
	}
}

// respondError maps a service error onto the envelope. Internal errors are
// logged; their detail is only returned outside release mode.
func respondError(c *gin.Context, err error) {
	var ae *apierror.Error
	if errors.As(err, &ae) && ae.Kind != apierror.KindInternal {
		c.JSON(ae.HTTPStatus(), apierror.Fail(ae.Msg))
		return
	}

	log.Error().
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).
		Str("method", c.Request.Method).
		Err(err).
		Msg("internal error")

	msg := "Error interno del servidor"
	if gin.Mode() != gin.ReleaseMode {
		msg = err.Error()
	}
	c.JSON(http.StatusInternalServerError, apierror.Fail(msg))
}

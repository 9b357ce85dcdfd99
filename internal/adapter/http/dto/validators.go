package dto

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)
	vnPhoneRe    = regexp.MustCompile(`^0[35789][0-9]{8}$`)
)

// DateLayout is the DD/MM/YYYY form history dates arrive in.
const DateLayout = "02/01/2006"

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidations(v)
	}
}

// RegisterValidations installs the bridge's custom tags on v.
func RegisterValidations(v *validator.Validate) {
	_ = v.RegisterValidation("safe_id", validateSafeID)
	_ = v.RegisterValidation("vn_phone", validateVNPhone)
	_ = v.RegisterValidation("vn_date", validateVNDate)
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// validateVNPhone accepts ten-digit Vietnamese mobile numbers.
func validateVNPhone(fl validator.FieldLevel) bool {
	return vnPhoneRe.MatchString(fl.Field().String())
}

func validateVNDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// SanitizeStruct trims whitespace from every exported string field of a
// struct pointer. Values are not escaped since they are forwarded to the
// wallet verbatim.
func SanitizeStruct(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	rv = rv.Elem()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.CanSet() && f.Kind() == reflect.String {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

package http

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kirana-admin-api/internal/domain/order"
	"github.com/jhoicas/kirana-admin-api/pkg/phone"
)

// Tags de validación propios.
const (
	tagIndianPhone = "indian_phone"
	tagHHMM        = "hhmm"
	tagOrderStatus = "order_status"
	tagDecimalGTE0 = "decimal_gte0"
)

var customMessages = map[string]string{
	tagIndianPhone: "{0} must be a valid Indian mobile number",
	tagHHMM:        "{0} must be a time in HH:MM format",
	tagOrderStatus: "{0} must be a valid order status",
	tagDecimalGTE0: "{0} must be 0 or greater",
}

// Validator valida los DTOs de entrada y traduce los errores al inglés usando el nombre JSON del campo.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewValidator registra las traducciones en inglés y los tags propios.
func NewValidator() *Validator {
	v := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	// decimal.Decimal se valida como texto para no perder precisión.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation(tagIndianPhone, func(fl validator.FieldLevel) bool {
		return phone.IsValidIndian(fl.Field().String())
	})
	_ = v.RegisterValidation(tagHHMM, func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation(tagOrderStatus, func(fl validator.FieldLevel) bool {
		return order.IsValid(fl.Field().String())
	})
	_ = v.RegisterValidation(tagDecimalGTE0, func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})

	for tag, msg := range customMessages {
		tag, msg := tag, msg
		_ = v.RegisterTranslation(tag, trans,
			func(tr ut.Translator) error { return tr.Add(tag, msg, true) },
			func(tr ut.Translator, fe validator.FieldError) string {
				t, _ := tr.T(fe.Tag(), fe.Field())
				return t
			},
		)
	}

	return &Validator{validate: v, trans: trans}
}

// Struct valida s. Devuelve nil si es válido o un mapa campo -> mensaje.
func (v *Validator) Struct(s interface{}) map[string]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fe.Translate(v.trans)
	}
	return fields
}

// fieldPath quita el nombre del struct raíz: "UpdateStoreHoursRequest.hours[0].open_time" -> "hours[0].open_time".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Package validation turns validator/v10 failures into client messages
// keyed by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Register makes the validator report JSON field names. It patches gin's
// default validator when v is nil.
func Register(v *validator.Validate) {
	if v == nil {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v = engine
	}
	v.RegisterTagNameFunc(jsonFieldName)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// Messages flattens err into field errors. It returns nil when err is not
// a validation failure.
func Messages(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		msg := ""
		if custom := CustomMessage(field); custom != nil {
			msg = custom[e.Tag()]
		}
		if msg == "" {
			msg = DefaultMessage(field, e.Tag(), e.Param())
		}
		out = append(out, FieldError{Field: field, Message: msg})
	}
	return out
}

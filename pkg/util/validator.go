package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// noteCategories mirrors model.NoteCategories (util cannot import model)
var noteCategories = map[string]bool{"top": true, "heart": true, "base": true}

// RegisterCustomValidators registers the application's custom tags on gin's validator engine:
//
//	note_category  value is one of top, heart, base
//	absurl         value parses as a URL with both scheme and host
func RegisterCustomValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		// report json field names in validation errors
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err = v.RegisterValidation("note_category", validateNoteCategory); err != nil {
			return
		}
		err = v.RegisterValidation("absurl", validateAbsoluteURL)
	})
	return err
}

func validateNoteCategory(fl validator.FieldLevel) bool {
	return noteCategories[fl.Field().String()]
}

func validateAbsoluteURL(fl validator.FieldLevel) bool {
	return IsAbsoluteURL(fl.Field().String())
}

// ValidationFields converts binding errors to a field -> message map.
// Returns nil when err is not a validator error (e.g. malformed JSON).
func ValidationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "필수 항목입니다"
	case "min":
		return fmt.Sprintf("최소값은 %s 입니다", fe.Param())
	case "max":
		return fmt.Sprintf("최대값은 %s 입니다", fe.Param())
	case "oneof":
		return fmt.Sprintf("다음 중 하나여야 합니다: %s", fe.Param())
	case "note_category":
		return "카테고리는 top, heart, base 중 하나여야 합니다"
	case "absurl", "url":
		return "올바른 URL 형식이 아닙니다"
	}
	return "올바르지 않은 값입니다"
}

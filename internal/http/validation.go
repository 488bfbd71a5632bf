package http

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"noise-sentinel/internal/service"
)

var registerOnce sync.Once

// registerValidators adds the domain tags to gin's validator engine.
func registerValidators() {
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = engine.RegisterValidation("cnic", func(fl validator.FieldLevel) bool {
			_, err := service.NormalizeCNIC(fl.Field().String())
			return err == nil
		})
	})
}

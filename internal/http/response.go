package http

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// responseEnvelope is the uniform body of every API response.
type responseEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Success: true, Data: data}
}

func messageResponse(data interface{}, msg string) responseEnvelope {
	return responseEnvelope{Success: true, Data: data, Message: msg}
}

func errorResponse(msg string, details ...string) responseEnvelope {
	return responseEnvelope{Success: false, Message: msg, Errors: details}
}

// bindErrorResponse flattens request binding failures, one entry per invalid field.
func bindErrorResponse(err error) responseEnvelope {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errorResponse("invalid request body", err.Error())
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, describeFieldError(fe))
	}
	return errorResponse("validation failed", details...)
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "cnic":
		return fmt.Sprintf("%s must be a 13 digit CNIC", field)
	case "len":
		return fmt.Sprintf("%s must be %s characters long", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain digits only", field)
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("%s must be %s %s", field, fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a UUID", field)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

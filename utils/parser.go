package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/verifield/verifield/types"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report json names instead of Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Register custom validators
	mustRegister("nonblank", validateNonBlank)
	mustRegister("eth_amount", validateEthAmount)
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

func validateNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateEthAmount(fl validator.FieldLevel) bool {
	_, err := ParseEthAmount(fl.Field().String())
	return err == nil
}

// ValidateStruct runs struct tag validation and returns one FieldError per
// failing field, in declaration order.
func ValidateStruct(v interface{}) ([]types.FieldError, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	out := make([]types.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, types.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "nonblank", "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "eth_amount":
		return "must be a non-negative decimal amount"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "hostname_port":
		return "must be host:port"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// ParseConfig parses and validates a YAML (or JSON) configuration. Missing
// fields take their defaults.
func ParseConfig(data []byte) (*types.Config, error) {
	config := types.DefaultConfig()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, &types.VerifieldError{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("failed to parse config: %v", err),
			Err:     err,
		}
	}
	config.ApplyDefaults()

	fieldErrs, err := ValidateStruct(config)
	if err != nil {
		return nil, &types.VerifieldError{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("validation failed: %v", err),
			Err:     err,
		}
	}
	if len(fieldErrs) > 0 {
		return nil, &types.VerifieldError{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("validation failed: %s %s", fieldErrs[0].Field, fieldErrs[0].Message),
			Data:    fieldErrs,
		}
	}

	return config, nil
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (*types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.VerifieldError{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("failed to read config %s", path),
			Err:     err,
		}
	}
	return ParseConfig(data)
}

// NormalizeJSON formats JSON with consistent indentation
func NormalizeJSON(data interface{}) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

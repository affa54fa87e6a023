package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned when the merged configuration violates a rule.
var ErrInvalidConfig = errors.New("invalid configuration")

var logLevels = map[string]struct{}{
	"TRACE": {}, "DEBUG": {}, "INFO": {}, "WARN": {}, "WARNING": {},
	"ERROR": {}, "CRITICAL": {}, "FATAL": {},
}

// validate checks the final merged configuration before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	v := validator.New()
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, ok := logLevels[strings.ToUpper(strings.TrimSpace(fl.Field().String()))]
		return ok
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// envNames maps struct namespaces to the variables operators actually set.
var envNames = map[string]string{
	"StructuredConfig.App.LogLevel":            "LOG_LEVEL",
	"StructuredConfig.BigQuery.ProjectID":      "PROJECT_ID",
	"StructuredConfig.BigQuery.MaxSelectLimit": "MAX_SELECT_LIMIT",
	"StructuredConfig.Auth.Mode":               "AUTH_MODE",
	"StructuredConfig.Auth.GoogleCertsURL":     "GOOGLE_CERTS_URL",
	"StructuredConfig.Policy.JSON":             "POLICY_JSON",
	"StructuredConfig.Server.Port":             "PORT",
	"StructuredConfig.Server.WebConcurrency":   "WEB_CONCURRENCY",
	"StructuredConfig.Server.WebThreads":       "WEB_THREADS",
	"StructuredConfig.Server.TimeoutSeconds":   "GUNICORN_TIMEOUT",
}

func describe(fe validator.FieldError) string {
	name, ok := envNames[fe.Namespace()]
	if !ok {
		name = fe.Namespace()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s must satisfy %s=%s", name, fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

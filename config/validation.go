package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that everything the server cannot run without is
// present. Test environments may run without redis or a JWT secret; the
// production environment may not.
func ValidateConfig(cfg *Config) error {
	var errs []string

	required := map[string]string{
		"DB_HOST": cfg.DBHost,
		"DB_PORT": cfg.DBPort,
		"DB_NAME": cfg.DBName,
	}
	if IsProduction() {
		required["DB_USER"] = cfg.DBUser
		required["DB_PASSWORD"] = cfg.DBPassword
		required["JWT_SECRET"] = cfg.JWTSecret
		required["REDIS_HOST"] = cfg.RedisHost
	}

	for field, value := range required {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"}.Error())
		}
	}

	if cfg.PageSize < 1 {
		errs = append(errs, ValidationError{Field: "PAGE_SIZE", Message: "must be at least 1"}.Error())
	}
	if cfg.MaxPageSize < cfg.PageSize {
		errs = append(errs, ValidationError{Field: "MAX_PAGE_SIZE", Message: "must be at least PAGE_SIZE"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

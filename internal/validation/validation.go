// Package validation gates server startup on the external services an
// operator marked as required.
package validation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"go.uber.org/zap"
)

// Known service names for REQUIRED_SERVICES.
const (
	ServiceRedis         = "redis"
	ServiceElasticsearch = "elasticsearch"
	ServiceStorage       = "storage"
)

// Check reports whether a service is reachable.
type Check func(ctx context.Context) error

// ServiceValidator handles validation of optional services
type ServiceValidator struct {
	requiredServices []string
	checks           map[string]Check
	timeout          time.Duration
}

// NewServiceValidator creates a validator for the given required services.
func NewServiceValidator(required []string) *ServiceValidator {
	return &ServiceValidator{
		requiredServices: required,
		checks:           make(map[string]Check),
		timeout:          10 * time.Second,
	}
}

// Register attaches the health check of a service that was configured.
// Services that never register count as down.
func (sv *ServiceValidator) Register(name string, check Check) {
	sv.checks[name] = check
}

// ValidateServices validates all configured services
func (sv *ServiceValidator) ValidateServices(ctx context.Context) error {
	if len(sv.requiredServices) == 0 {
		logger.Log.Info("No required services configured for validation")
		return nil
	}

	logger.Log.Info("Validating required services",
		zap.Strings("services", sv.requiredServices),
	)

	for _, serviceName := range sv.requiredServices {
		check, ok := sv.checks[serviceName]
		if !ok {
			err := fmt.Errorf("required service %q is not configured", serviceName)
			logger.ErrorWithFields("Required service validation failed", err)
			return err
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, sv.timeout)
		err := check(timeoutCtx)
		cancel()
		if err != nil {
			logger.ErrorWithFields("Required service validation failed", err,
				zap.String("service", serviceName),
			)
			return fmt.Errorf("required service %q validation failed: %w", serviceName, err)
		}

		logger.Log.Info("Service validated successfully",
			zap.String("service", serviceName),
		)
	}

	logger.Log.Info("All required services validated successfully")
	return nil
}

// ParseRequired splits a comma separated service list, lower-cased and
// without blanks or duplicates.
func ParseRequired(raw string) []string {
	var required []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		required = append(required, name)
	}
	return required
}

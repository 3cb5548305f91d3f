package window

import (
	"errors"
	"fmt"
)

// ErrMissingComponent means an asset did not produce the expected window.
// Creation logs it and returns a zero window.
var ErrMissingComponent = errors.New("window component missing")

// ConfigurationError reports that no host is registered for a scope.
type ConfigurationError struct {
	Scope string
}

func (e *ConfigurationError) Error() string {
	if e.Scope == "" {
		return "no scope given and no current scope set"
	}
	return fmt.Sprintf("no host registered for scope %q", e.Scope)
}

// IsConfigurationError checks if an error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

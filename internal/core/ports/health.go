package ports

import "context"

// HealthChecker abstracts a dependency health probe.
// Implementations should return error if unhealthy.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// DependencyStatus is the rendered outcome of one probe.
type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

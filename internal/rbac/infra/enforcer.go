package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer loads the casbin model; per-company policies are loaded lazily
// by the rbac service on first enforce.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}

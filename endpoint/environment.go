// endpoint/environment.go
package endpoint

import (
	"fmt"
	"strings"
)

// Environment selects which base URL table endpoints resolve against.
type Environment string

const (
	EnvironmentAlpha   Environment = "alpha"   // development
	EnvironmentBeta    Environment = "beta"    // staging
	EnvironmentPreProd Environment = "preProd" // pre-production
	EnvironmentProd    Environment = "prod"    // production
)

// DefaultEnvironment is used when none is configured.
const DefaultEnvironment = EnvironmentBeta

// Environments lists every environment in promotion order.
var Environments = []Environment{EnvironmentAlpha, EnvironmentBeta, EnvironmentPreProd, EnvironmentProd}

// ParseEnvironment matches s case-insensitively against the known environments.
func ParseEnvironment(s string) (Environment, error) {
	for _, env := range Environments {
		if strings.EqualFold(s, string(env)) {
			return env, nil
		}
	}
	return "", fmt.Errorf("unknown environment %q, expected one of alpha, beta, preProd, prod", s)
}

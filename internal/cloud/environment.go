// SPDX-License-Identifier: MPL-2.0

package cloud

import (
	"fmt"
	"sort"
)

// Environment is a deployment target of the Pixell Agent Cloud.
type Environment struct {
	// Name is the short identifier used on the command line.
	Name string
	// DisplayName is the human-readable environment name.
	DisplayName string
	// BaseURL is the API endpoint for this environment.
	BaseURL string
}

var environments = map[string]Environment{
	"local": {
		Name:        "local",
		DisplayName: "Local Development",
		BaseURL:     "http://localhost:4000",
	},
	"prod": {
		Name:        "prod",
		DisplayName: "Production",
		BaseURL:     "https://cloud.pixell.global",
	},
}

// ResolveEnvironment looks up a deployment target by name.
func ResolveEnvironment(name string) (Environment, error) {
	env, ok := environments[name]
	if !ok {
		return Environment{}, fmt.Errorf("Invalid environment: %q (valid environments: %v)", name, EnvironmentNames())
	}
	return env, nil
}

// EnvironmentNames lists the known environment names in sorted order.
func EnvironmentNames() []string {
	names := make([]string, 0, len(environments))
	for name := range environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

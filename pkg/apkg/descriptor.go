// SPDX-License-Identifier: MPL-2.0

package apkg

import (
	"fmt"

	"github.com/pixell-global/pixell-kit/pkg/manifest"
)

const (
	// Suffix is the artifact file extension.
	Suffix = ".apkg"

	// DescriptorName is the fixed name of the deploy descriptor entry
	// at the archive root.
	DescriptorName = "deploy.json"

	// DistDirName is the archive directory the runner serves surface
	// files from.
	DistDirName = "dist"
)

// DefaultPorts maps each surface to the container port the hosting
// platform routes to. The platform multiplexes all surfaces behind a
// single ingress, so these are fixed rather than configurable.
var DefaultPorts = map[manifest.Surface]int{
	manifest.SurfaceREST: 8080,
	manifest.SurfaceA2A:  50051,
	manifest.SurfaceUI:   3000,
}

// Descriptor is the deploy.json record embedded in an artifact. It is
// generated once at build time and never mutated afterwards.
type Descriptor struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Runtime    string `json:"runtime"`
	Entrypoint string `json:"entrypoint,omitempty"`

	// Expose lists the surfaces the agent serves, in canonical order.
	Expose []string `json:"expose"`

	// Ports maps each exposed surface to its container port.
	Ports map[string]int `json:"ports"`

	// Multiplex is always true: surfaces share one ingress.
	Multiplex bool `json:"multiplex"`

	// Environment is the packaged environment map. Always present in
	// the serialized form, possibly empty. Runtime overrides are never
	// part of it.
	Environment map[string]string `json:"environment"`
}

// NewDescriptor derives the deploy descriptor from a validated
// manifest and the resolved build-time environment.
func NewDescriptor(m *manifest.Manifest, env map[string]string) *Descriptor {
	surfaces := m.Surfaces()
	expose := make([]string, 0, len(surfaces))
	ports := make(map[string]int, len(surfaces))
	for _, s := range surfaces {
		expose = append(expose, string(s))
		ports[string(s)] = DefaultPorts[s]
	}

	environment := make(map[string]string, len(env))
	for k, v := range env {
		environment[k] = v
	}

	return &Descriptor{
		Name:        m.Name,
		Version:     m.Metadata.Version,
		Runtime:     string(m.Runtime),
		Entrypoint:  m.Entrypoint,
		Expose:      expose,
		Ports:       ports,
		Multiplex:   true,
		Environment: environment,
	}
}

// FileName returns the artifact file name for an agent name and
// version, e.g. "my-agent-1.2.0.apkg".
func FileName(name, version string) string {
	return fmt.Sprintf("%s-%s%s", name, version, Suffix)
}

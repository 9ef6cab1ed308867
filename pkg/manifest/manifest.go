// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"path"
	"strings"
)

// FileName is the standard name for an agent manifest.
const FileName = "agent.yaml"

// Runtime identifies the language runtime an agent executes under.
type Runtime string

const (
	// RuntimeNode18 runs the agent on Node.js 18.
	RuntimeNode18 Runtime = "node18"
	// RuntimeNode20 runs the agent on Node.js 20.
	RuntimeNode20 Runtime = "node20"
	// RuntimePython39 runs the agent on CPython 3.9.
	RuntimePython39 Runtime = "python3.9"
	// RuntimePython311 runs the agent on CPython 3.11.
	RuntimePython311 Runtime = "python3.11"
	// RuntimeGo121 runs the agent on Go 1.21.
	RuntimeGo121 Runtime = "go1.21"
)

// DefaultRuntime is used when agent.yaml omits the runtime field.
const DefaultRuntime = RuntimePython311

// Surface names an externally reachable interface an agent exposes.
type Surface string

const (
	// SurfaceREST is the HTTP surface mounted on the runner's web server.
	SurfaceREST Surface = "rest"
	// SurfaceA2A is the agent-to-agent gRPC surface.
	SurfaceA2A Surface = "a2a"
	// SurfaceUI is the static UI asset surface.
	SurfaceUI Surface = "ui"
)

// AllSurfaces lists every known surface in canonical order. Deploy
// descriptors and port assignments follow this order.
var AllSurfaces = []Surface{SurfaceREST, SurfaceA2A, SurfaceUI}

// A2AConfig configures the agent-to-agent gRPC surface.
type A2AConfig struct {
	// Service locates the gRPC serve function in "module:function" form.
	Service string `json:"service"`
}

// RESTConfig configures the HTTP surface.
type RESTConfig struct {
	// Entry locates the route-mounting function in "module:function" form.
	Entry string `json:"entry"`
}

// UIConfig configures the static UI surface.
type UIConfig struct {
	// Path is the directory of built UI assets, relative to the project root.
	Path string `json:"path"`
}

// MCPConfig configures Model Context Protocol support.
type MCPConfig struct {
	Enabled    bool   `json:"enabled"`
	ConfigFile string `json:"config_file,omitempty"`
}

// Metadata carries the agent's publishing metadata.
type Metadata struct {
	// Version is the agent version (semantic versioning).
	Version    string   `json:"version"`
	Homepage   string   `json:"homepage,omitempty"`
	Repository string   `json:"repository,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Manifest is a parsed agent.yaml.
type Manifest struct {
	// Version is the manifest format version.
	Version string `json:"version"`
	// Name is the agent package name (lowercase, digits, hyphens).
	Name string `json:"name"`
	// DisplayName is the human-readable agent name.
	DisplayName string `json:"display_name"`
	// Description summarizes what the agent does.
	Description string `json:"description"`
	// Author is the agent author name.
	Author string `json:"author"`
	// License is a license identifier (e.g. MIT, Apache-2.0).
	License string `json:"license"`
	// Entrypoint locates the agent's handler in "module:function" form.
	// Optional when at least one surface is configured.
	Entrypoint string `json:"entrypoint,omitempty"`

	Capabilities []string          `json:"capabilities,omitempty"`
	Runtime      Runtime           `json:"runtime"`
	Environment  map[string]string `json:"environment,omitempty"`
	// Dependencies are requirement specifiers, e.g. "requests>=2.31.0".
	Dependencies []string   `json:"dependencies,omitempty"`
	MCP          *MCPConfig `json:"mcp,omitempty"`
	Metadata     Metadata   `json:"metadata"`

	A2A  *A2AConfig  `json:"a2a,omitempty"`
	REST *RESTConfig `json:"rest,omitempty"`
	UI   *UIConfig   `json:"ui,omitempty"`

	UISpecVersion          string   `json:"ui_spec_version,omitempty"`
	RequiredUICapabilities []string `json:"required_ui_capabilities,omitempty"`

	// FilePath records where this manifest was loaded from (not in the YAML).
	FilePath string `json:"-"`
}

// Surfaces returns the surfaces declared in the manifest, in canonical order.
func (m *Manifest) Surfaces() []Surface {
	var out []Surface
	for _, s := range AllSurfaces {
		if m.HasSurface(s) {
			out = append(out, s)
		}
	}
	return out
}

// HasSurface reports whether the given surface is declared.
func (m *Manifest) HasSurface(s Surface) bool {
	switch s {
	case SurfaceREST:
		return m.REST != nil
	case SurfaceA2A:
		return m.A2A != nil
	case SurfaceUI:
		return m.UI != nil
	}
	return false
}

// HasSurfaces reports whether any surface is declared.
func (m *Manifest) HasSurfaces() bool {
	return m.REST != nil || m.A2A != nil || m.UI != nil
}

// ModuleRef is a dotted module path plus a function name, as written in the
// entrypoint, a2a.service, and rest.entry fields ("src.a2a.server:serve").
type ModuleRef struct {
	// Module is the dotted module path ("src.a2a.server").
	Module string
	// Function is the callable within the module ("serve").
	Function string
}

// ParseModuleRef splits a "module:function" reference.
func ParseModuleRef(s string) (ModuleRef, error) {
	mod, fn, ok := strings.Cut(s, ":")
	if !ok || mod == "" || fn == "" {
		return ModuleRef{}, fmt.Errorf("reference %q must be in format 'module:function'", s)
	}
	return ModuleRef{Module: mod, Function: fn}, nil
}

// SourcePath returns the module's source file path relative to the project
// root, using slash separators ("src.a2a.server" -> "src/a2a/server.py").
func (r ModuleRef) SourcePath() string {
	return strings.ReplaceAll(r.Module, ".", "/") + ".py"
}

// SourceDir returns the directory containing the module's source file,
// relative to the project root ("src.a2a.server" -> "src/a2a").
func (r ModuleRef) SourceDir() string {
	return path.Dir(r.SourcePath())
}

// String returns the reference in its original "module:function" form.
func (r ModuleRef) String() string {
	return r.Module + ":" + r.Function
}

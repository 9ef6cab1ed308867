// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"strings"
)

// Validate checks the cross-field rules the schema cannot express: version
// strings must be non-empty, module references must carry a function, and
// an agent must be reachable through an entrypoint or at least one surface.
func (m *Manifest) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("manifest version must not be empty")
	}
	if m.Metadata.Version == "" {
		return fmt.Errorf("metadata.version must not be empty")
	}
	if m.Entrypoint != "" && !strings.Contains(m.Entrypoint, ":") {
		return fmt.Errorf("entrypoint must be in format 'module:function'")
	}
	if m.A2A != nil && !strings.Contains(m.A2A.Service, ":") {
		return fmt.Errorf("a2a service must be in format 'module:function'")
	}
	if m.REST != nil && !strings.Contains(m.REST.Entry, ":") {
		return fmt.Errorf("rest entry must be in format 'module:function'")
	}
	if m.UI != nil && m.UI.Path == "" {
		return fmt.Errorf("ui path must not be empty")
	}
	if m.Entrypoint == "" && !m.HasSurfaces() {
		return fmt.Errorf("entrypoint is required when no surfaces are configured")
	}
	return nil
}

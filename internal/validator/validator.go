// SPDX-License-Identifier: MPL-2.0

// Package validator checks an agent project against its manifest
// before packaging. Findings are split into errors, which block a
// build, and warnings, which are reported but non-blocking.
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/pixell-global/pixell-kit/pkg/envfile"
	"github.com/pixell-global/pixell-kit/pkg/manifest"
)

// ReadmeFileName is checked for presence; its absence is a warning.
const ReadmeFileName = "README.md"

// Result holds the findings of a project validation.
type Result struct {
	// Valid is true when no blocking errors were found.
	Valid bool
	// Errors block packaging and deployment.
	Errors []string
	// Warnings are reported but do not block.
	Warnings []string
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Valid = false
}

func (r *Result) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validator validates one project directory.
type Validator struct {
	projectDir string
}

// New returns a validator for the given project directory.
func New(projectDir string) *Validator {
	return &Validator{projectDir: projectDir}
}

// Validate loads the manifest and checks the project structure,
// surface modules, and environment file. It never fails outright;
// every problem is reported through the Result.
func (v *Validator) Validate() *Result {
	result := &Result{Valid: true}

	m, err := manifest.ParseDir(v.projectDir)
	if err != nil {
		result.addError("%v", err)
		v.checkEnvFile(result)
		return result
	}

	v.checkEnvFile(result)
	v.checkReadme(result)
	v.checkMetadataVersion(result, m)
	v.checkEntrypoint(result, m)
	v.checkSurfaces(result, m)

	return result
}

func (v *Validator) checkEnvFile(result *Result) {
	path := filepath.Join(v.projectDir, envfile.FileName)
	if _, err := os.Stat(path); err != nil {
		result.addError("Missing required .env file")
		return
	}

	env, err := envfile.Parse(path)
	if err != nil {
		result.addError("%v", err)
		return
	}
	for key, value := range env {
		if strings.HasPrefix(value, "/") {
			result.addWarning(".env value of %s is an absolute path: %s", key, value)
		}
	}
}

func (v *Validator) checkReadme(result *Result) {
	if _, err := os.Stat(filepath.Join(v.projectDir, ReadmeFileName)); err != nil {
		result.addWarning("README.md not found")
	}
}

func (v *Validator) checkMetadataVersion(result *Result, m *manifest.Manifest) {
	if !semver.IsValid("v" + m.Metadata.Version) {
		result.addWarning("metadata.version '%s' is not semantic versioning", m.Metadata.Version)
	}
}

func (v *Validator) checkEntrypoint(result *Result, m *manifest.Manifest) {
	if m.Entrypoint == "" {
		return
	}
	ref, err := manifest.ParseModuleRef(m.Entrypoint)
	if err != nil {
		result.addError("%v", err)
		return
	}
	sourcePath := ref.SourcePath()
	if !v.fileExists(sourcePath) {
		result.addError("Entrypoint module not found: %s", sourcePath)
		return
	}
	v.checkFunction(result, ref, sourcePath, "Entrypoint")
}

func (v *Validator) checkSurfaces(result *Result, m *manifest.Manifest) {
	if m.REST != nil {
		ref, err := manifest.ParseModuleRef(m.REST.Entry)
		if err != nil {
			result.addError("%v", err)
		} else if sourcePath := ref.SourcePath(); !v.fileExists(sourcePath) {
			result.addError("REST entry module not found: %s", sourcePath)
		} else {
			v.checkFunction(result, ref, sourcePath, "REST entry")
		}
	}

	if m.A2A != nil {
		ref, err := manifest.ParseModuleRef(m.A2A.Service)
		if err != nil {
			result.addError("%v", err)
		} else if sourcePath := ref.SourcePath(); !v.fileExists(sourcePath) {
			result.addError("A2A service module not found: %s", sourcePath)
		} else {
			v.checkFunction(result, ref, sourcePath, "A2A service")
		}
	}

	if m.UI != nil {
		uiPath := filepath.Join(v.projectDir, filepath.FromSlash(m.UI.Path))
		info, err := os.Stat(uiPath)
		switch {
		case err != nil:
			result.addError("UI path not found: %s", m.UI.Path)
		case !info.IsDir():
			result.addError("UI path is not a directory: %s", m.UI.Path)
		}
	}
}

// checkFunction warns when the referenced function is not defined in
// the module file. The check is textual; decorated or dynamically
// created functions can produce false warnings, which is why this is
// not an error.
func (v *Validator) checkFunction(result *Result, ref manifest.ModuleRef, sourcePath, label string) {
	data, err := os.ReadFile(filepath.Join(v.projectDir, filepath.FromSlash(sourcePath)))
	if err != nil {
		return
	}
	if !strings.Contains(string(data), "def "+ref.Function) {
		result.addWarning("%s function '%s' not found in %s", label, ref.Function, sourcePath)
	}
}

func (v *Validator) fileExists(relPath string) bool {
	info, err := os.Stat(filepath.Join(v.projectDir, filepath.FromSlash(relPath)))
	return err == nil && !info.IsDir()
}

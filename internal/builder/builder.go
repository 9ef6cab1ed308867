// SPDX-License-Identifier: MPL-2.0

// Package builder assembles an agent project into a deployable APKG
// artifact.
//
// A build stages a filtered copy of the project into a scratch
// directory, synthesizes install metadata and the deploy descriptor
// there, and compresses the staging tree into a single archive. The
// staging directory is private to one build and removed on every exit
// path, so concurrent builds never interfere.
package builder

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pixell-global/pixell-kit/internal/discovery"
	"github.com/pixell-global/pixell-kit/internal/pakfile"
	"github.com/pixell-global/pixell-kit/internal/pypkg"
	"github.com/pixell-global/pixell-kit/internal/secrets"
	"github.com/pixell-global/pixell-kit/internal/validator"
	"github.com/pixell-global/pixell-kit/pkg/apkg"
	"github.com/pixell-global/pixell-kit/pkg/envfile"
	"github.com/pixell-global/pixell-kit/pkg/manifest"
)

// Builder packages one project directory.
type Builder struct {
	projectDir  string
	outputDir   string
	provider    secrets.Provider
	providerSet bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithOutputDir writes the artifact into dir instead of the project
// directory.
func WithOutputDir(dir string) Option {
	return func(b *Builder) { b.outputDir = dir }
}

// WithSecretsProvider uses the given provider for the packaged
// environment instead of resolving one from PIXELL_SECRETS_PROVIDER.
// Passing nil disables provider lookup entirely.
func WithSecretsProvider(p secrets.Provider) Option {
	return func(b *Builder) {
		b.provider = p
		b.providerSet = true
	}
}

// New returns a builder for the given project directory.
func New(projectDir string, opts ...Option) *Builder {
	b := &Builder{projectDir: projectDir, outputDir: projectDir}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs the packaging pipeline and returns the finished artifact.
// The manifest, the required .env file, and project validation are
// hard gates; any failure aborts the build with a BuildError and
// leaves no partial artifact behind.
func (b *Builder) Build(ctx context.Context) (*apkg.Artifact, error) {
	m, err := manifest.ParseDir(b.projectDir)
	if err != nil {
		return nil, buildErr(KindManifestInvalid, "Invalid manifest", err)
	}
	log.Debug("manifest loaded", "agent", m.Name, "version", m.Metadata.Version)

	envPath := filepath.Join(b.projectDir, envfile.FileName)
	if _, err := os.Stat(envPath); err != nil {
		return nil, buildErr(KindMissingEnvFile, "Missing required .env file", nil)
	}

	if result := validator.New(b.projectDir).Validate(); !result.Valid {
		return nil, buildErr(KindValidation, "Validation failed: "+strings.Join(result.Errors, "; "), nil)
	}

	pak, err := pakfile.Load(b.projectDir)
	if err != nil {
		return nil, buildErr(KindConfigInvalid, "Invalid pak.yaml", err)
	}

	resolvedEnv, err := b.resolveEnvironment(ctx, m, envPath)
	if err != nil {
		return nil, err
	}

	stagingDir, err := os.MkdirTemp("", "pixell-build-*")
	if err != nil {
		return nil, buildErr(KindStaging, "Failed to create staging directory", err)
	}
	defer os.RemoveAll(stagingDir)
	log.Debug("staging build", "dir", stagingDir)

	if err := b.stage(stagingDir, m, pak, resolvedEnv); err != nil {
		return nil, err
	}

	outPath := filepath.Join(b.outputDir, apkg.FileName(m.Name, m.Metadata.Version))
	artifact, err := apkg.Create(stagingDir, outPath)
	if err != nil {
		return nil, buildErr(KindArchive, "Failed to write archive", err)
	}
	log.Debug("artifact written", "path", artifact.Path, "size", artifact.Size)
	return artifact, nil
}

// resolveEnvironment produces the packaged environment map. Precedence
// is declared manifest environment, then .env, then the secrets
// provider, highest last. Runtime overrides are a deploy-time concern
// and never enter the artifact.
func (b *Builder) resolveEnvironment(ctx context.Context, m *manifest.Manifest, envPath string) (map[string]string, error) {
	dotenv, err := envfile.Parse(envPath)
	if err != nil {
		return nil, buildErr(KindEnvParse, "Invalid .env file", err)
	}

	provider := b.provider
	if !b.providerSet {
		provider, err = secrets.FromEnv()
		if err != nil {
			return nil, buildErr(KindSecrets, "Invalid secrets provider configuration", err)
		}
	}

	providerEnv := map[string]string{}
	if provider != nil {
		providerEnv, err = provider.FetchSecrets(ctx)
		if err != nil {
			return nil, buildErr(KindSecrets, "Failed to fetch secrets", err)
		}
	}

	return envfile.Resolve(m.Environment, dotenv, providerEnv), nil
}

// stage assembles the complete archive layout inside stagingDir.
func (b *Builder) stage(stagingDir string, m *manifest.Manifest, pak *pakfile.Config, resolvedEnv map[string]string) error {
	if err := copyProjectTree(b.projectDir, stagingDir, b.outputDir); err != nil {
		return buildErr(KindStaging, "Failed to stage project tree", err)
	}

	packages, err := discovery.Discover(stagingDir, discovery.DefaultIgnoreDirs, pak.NamespacePackages)
	if err != nil {
		return buildErr(KindStaging, "Failed to discover packages", err)
	}
	dotted := discovery.DottedPaths(packages)
	log.Debug("discovered packages", "count", len(dotted))

	var installRequires []string
	if pak.GenerateInstallRequires {
		installRequires, err = pypkg.ProjectDependencies(b.projectDir)
		if err != nil {
			return buildErr(KindDependencyParse, "Failed to parse dependencies", err)
		}
	}

	if err := pypkg.WriteSetupPy(stagingDir, m, dotted, installRequires); err != nil {
		return buildErr(KindStaging, "Failed to write setup.py", err)
	}
	if err := pypkg.WriteInitMarkers(stagingDir, dotted, pak.NamespacePackages); err != nil {
		return buildErr(KindStaging, "Failed to write package markers", err)
	}

	// .env travels byte for byte; the runner refuses to start without it.
	envName := envfile.FileName
	if err := copyFile(filepath.Join(b.projectDir, envName), filepath.Join(stagingDir, envName)); err != nil {
		return buildErr(KindStaging, "Failed to stage .env", err)
	}

	if err := stageSurfaces(stagingDir, b.projectDir, m); err != nil {
		return buildErr(KindStaging, "Failed to stage surfaces", err)
	}

	desc := apkg.NewDescriptor(m, resolvedEnv)
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return buildErr(KindStaging, "Failed to encode deploy descriptor", err)
	}
	if err := os.WriteFile(filepath.Join(stagingDir, apkg.DescriptorName), append(data, '\n'), 0o644); err != nil {
		return buildErr(KindStaging, "Failed to write deploy descriptor", err)
	}
	return nil
}

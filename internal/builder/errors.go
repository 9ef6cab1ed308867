// SPDX-License-Identifier: MPL-2.0

package builder

// ErrorKind classifies build failures so callers can react by kind
// instead of matching message text.
type ErrorKind string

const (
	// KindManifestInvalid covers structural agent.yaml errors.
	KindManifestInvalid ErrorKind = "manifest_invalid"
	// KindMissingEnvFile is the hard gate on the project's .env file.
	KindMissingEnvFile ErrorKind = "missing_env_file"
	// KindValidation covers blocking validation findings.
	KindValidation ErrorKind = "validation"
	// KindConfigInvalid covers malformed pak.yaml build configuration.
	KindConfigInvalid ErrorKind = "config_invalid"
	// KindDependencyParse covers malformed dependency files.
	KindDependencyParse ErrorKind = "dependency_parse"
	// KindEnvParse covers malformed .env content.
	KindEnvParse ErrorKind = "env_parse"
	// KindSecrets covers secrets provider failures.
	KindSecrets ErrorKind = "secrets"
	// KindStaging covers staging tree assembly failures.
	KindStaging ErrorKind = "staging"
	// KindArchive covers archive serialization failures.
	KindArchive ErrorKind = "archive"
)

// BuildError is the failure type for every aborted build. When one is
// returned, all staging state has been removed and no partial artifact
// remains.
type BuildError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *BuildError) Unwrap() error { return e.Err }

func buildErr(kind ErrorKind, message string, err error) *BuildError {
	return &BuildError{Kind: kind, Message: message, Err: err}
}

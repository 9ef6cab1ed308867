// SPDX-License-Identifier: MPL-2.0

package cloud

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// APIKeyEnvVar is consulted first when resolving credentials.
const APIKeyEnvVar = "PIXELL_API_KEY"

// configDirName is the per-user configuration directory under $HOME.
const configDirName = ".pixell"

// configFileName holds the stored credentials inside configDirName.
const configFileName = "config.json"

// APIKey resolves the credential for cloud calls: the PIXELL_API_KEY
// variable first, then the api_key field of ~/.pixell/config.json.
// Returns the empty string when neither is configured.
func APIKey() string {
	if key := os.Getenv(APIKeyEnvVar); key != "" {
		return key
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(home, configDirName, configFileName))
	if err := v.ReadInConfig(); err != nil {
		// A missing or unreadable config file means no stored credential.
		return ""
	}
	return v.GetString("api_key")
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// SecretKeyField is the JSON field the API credential is stored under.
const SecretKeyField = "secret_key"

// ErrSecretKeyMissing is returned when the secrets file parses but has no
// secret_key field. Match with errors.Is.
var ErrSecretKeyMissing = errors.New("secret_key not found in secrets file")

// LoadSecretKey reads the API credential from a JSON secrets file. The file
// must be a flat object with a string under the secret_key field.
func LoadSecretKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading secrets file: %w", err)
	}

	var secrets map[string]any
	if err := json.Unmarshal(data, &secrets); err != nil {
		return "", fmt.Errorf("parsing secrets file %s: %w", path, err)
	}

	value, ok := secrets[SecretKeyField]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrSecretKeyMissing)
	}

	key, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s: %s is not a string", path, SecretKeyField)
	}

	return key, nil
}

package sheets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ResolveCredentialsFile returns the path of the service-account
// credentials file to use. When jsonBlob is non-empty (delegated
// credentials supplied via environment) it is written to a temporary
// file first; otherwise the configured local file path is returned
// as-is.
func ResolveCredentialsFile(jsonBlob, filePath string) (string, error) {
	if jsonBlob == "" {
		return filePath, nil
	}

	if !json.Valid([]byte(jsonBlob)) {
		return "", errors.New("GOOGLE_CREDENTIALS_JSON is not valid JSON")
	}

	f, err := os.CreateTemp("", "credentials-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create credentials file: %w", err)
	}
	if _, err := f.Write([]byte(jsonBlob)); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write credentials file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close credentials file: %w", err)
	}
	return f.Name(), nil
}

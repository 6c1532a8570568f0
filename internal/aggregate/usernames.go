package aggregate

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadUsernames reads an optional login-to-display-name map. An empty
// path yields an empty map, so attribution falls back to logins.
func LoadUsernames(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse usernames file %s: %w", path, err)
	}
	return names, nil
}

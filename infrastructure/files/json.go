package files

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadJSON decodes the JSON file at path into target
func ReadJSON(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadJSON decodes a JSON object file into a map
func LoadJSON(path string) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if err := ReadJSON(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

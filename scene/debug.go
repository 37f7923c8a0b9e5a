package scene

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON dumps a component tree as indented JSON for inspection.
func WriteDebugJSON(root *Component, path string) error {
	if root == nil {
		return nil
	}
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

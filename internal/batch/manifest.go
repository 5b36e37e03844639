package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one input in the output manifest.
type ManifestEntry struct {
	Input   string   `json:"input"`
	Variant string   `json:"variant"`
	Outputs []string `json:"outputs"`
	Error   string   `json:"error,omitempty"`
}

// WriteManifest writes the results of a run as JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		outputs := r.Outputs
		if outputs == nil {
			outputs = []string{}
		}
		entries[i] = ManifestEntry{
			Input:   r.Input,
			Variant: r.Variant,
			Outputs: outputs,
			Error:   r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

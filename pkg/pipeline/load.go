package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yumyai/gcfnet/pkg/model"
)

// LoadDataset reads the structured BGC dataset produced by the ingestion
// collaborators (parsed GenBank features plus aligned domain sequences).
func LoadDataset(path string) (*model.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var ds model.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	seen := make(map[string]bool)
	for _, bgc := range ds.BGCs {
		if bgc.Name == "" {
			return nil, fmt.Errorf("dataset contains a BGC without a name")
		}
		if seen[bgc.Name] {
			return nil, fmt.Errorf("duplicate BGC name: %s", bgc.Name)
		}
		seen[bgc.Name] = true
	}
	return &ds, nil
}

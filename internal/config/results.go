package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/screa/vanity-market/pkg/types"
)

// resultsFile is the on-disk form of a mining run
type resultsFile struct {
	Request types.Request  `yaml:"request"`
	Results []types.Result `yaml:"results"`
}

// SaveResults writes a request and its results to path as YAML
func SaveResults(path string, req *types.Request, results []types.Result) error {
	out, err := yaml.Marshal(&resultsFile{Request: *req, Results: results})
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// LoadResults reads a file written by SaveResults
func LoadResults(path string) (*types.Request, []types.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var f resultsFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, nil, fmt.Errorf("parse results %s: %w", path, err)
	}
	return &f.Request, f.Results, nil
}

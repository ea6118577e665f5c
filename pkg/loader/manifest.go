package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the optional descriptor inside a packaged module directory
const ManifestFile = "module.yaml"

// Manifest describes a packaged module directory
type Manifest struct {
	Description string `yaml:"description"`
	Entry       string `yaml:"entry"`
	Disabled    bool   `yaml:"disabled"`
}

// readManifest loads dir/module.yaml; a missing file yields a nil manifest
func readManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var mf Manifest
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestFile, err)
	}
	if mf.Entry != "" && filepath.Base(mf.Entry) != mf.Entry {
		return nil, fmt.Errorf("entry %q must be a file name inside the module directory", mf.Entry)
	}
	return &mf, nil
}

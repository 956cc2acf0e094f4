package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// templateVarRe matches Homepage {{HOMEPAGE_VAR_...}} placeholders.
var templateVarRe = regexp.MustCompile(`\{\{[^}]+\}\}`)

// LoadServices reads and parses a services.yaml file.
func LoadServices(path string) (ServicesConfig, error) {
	var cfg ServicesConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, fmt.Errorf("services file: %w", err)
	}
	return cfg, nil
}

// LoadBookmarks reads and parses a bookmarks.yaml file.
func LoadBookmarks(path string) (BookmarksConfig, error) {
	var cfg BookmarksConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, fmt.Errorf("bookmarks file: %w", err)
	}
	return cfg, nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if err := yaml.Unmarshal(stripTemplateVariables(data), out); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// stripTemplateVariables replaces template placeholders with an empty
// string so that the file stays valid YAML.
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVarRe.ReplaceAll(data, []byte(`""`))
}

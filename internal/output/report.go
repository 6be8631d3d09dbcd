package output

import (
	"os"

	"github.com/rpgo/roth-optimizer/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes the report in the named format to path, or to a
// timestamped file when path is empty, and returns the file written.
func GenerateReport(report *domain.Report, format, path string) (string, error) {
	f, err := Lookup(format)
	if err != nil {
		return "", err
	}
	return WriteFormatted(f, report, path)
}

// SaveConfiguration writes config as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}

package output

import (
	"github.com/arthur-debert/assetcfg/pkg/output/styles"
)

// LoadStylesFromFile replaces the built-in terminal styles with the sheet at path
func LoadStylesFromFile(path string) error {
	return styles.LoadStyles(path)
}

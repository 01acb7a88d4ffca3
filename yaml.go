package cfgtree

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UpdateFromYAML replaces the subtree under t with the contents of a YAML
// document. The document must decode to a mapping at the top level; nested
// mappings become interior nodes, everything else leaf values.
func (t *Topics) UpdateFromYAML(data []byte) error {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("cfgtree: parse yaml: %w", err)
	}

	t.ReplaceMap(m)
	return nil
}

package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tags is the normalized tag set of a note. Front matter may spell it as a
// YAML sequence or as a single comma-separated string; both decode to the
// same value, so nothing past the parser needs to know which form was used.
type Tags []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Tags) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		raw := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			s, err := stringify(item)
			if err != nil {
				return err
			}
			raw = append(raw, s)
		}
		*t = CleanTags(raw)
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			*t = nil
			return nil
		}
		*t = SplitTags(node.Value)
	default:
		return fmt.Errorf("line %d: tags must be a list or a comma-separated string", node.Line)
	}
	return nil
}

// stringify renders a sequence item as text. Scalars keep their literal
// value; anything else is re-encoded as flow YAML.
func stringify(node *yaml.Node) (string, error) {
	if node.Kind == yaml.ScalarNode {
		if node.ShortTag() == "!!null" {
			return "", nil
		}
		return node.Value, nil
	}
	flow := *node
	flow.Style = yaml.FlowStyle
	out, err := yaml.Marshal(&flow)
	if err != nil {
		return "", fmt.Errorf("line %d: tag: %w", node.Line, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// SplitTags parses the comma-separated string form of a tag list.
func SplitTags(s string) []string {
	return CleanTags(strings.Split(s, ","))
}

// CleanTags trims whitespace and surrounding quote characters from every tag,
// drops empty entries and duplicates, and keeps first-seen order.
func CleanTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, r := range raw {
		tag := strings.TrimSpace(strings.Trim(strings.TrimSpace(r), `"'`))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

package content

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IconKind says how an Icon is drawn.
type IconKind int

const (
	IconGlyph IconKind = iota
	IconImage
)

// Icon is either a text glyph (usually an emoji) or a reference to an image.
//
// In YAML a plain scalar is a glyph; a mapping spells the variant out:
//
//	icon: "🐍"
//	icon: {image: https://example.com/logo.png}
type Icon struct {
	Kind  IconKind
	Value string
}

// Glyph makes a text icon.
func Glyph(s string) Icon { return Icon{Kind: IconGlyph, Value: s} }

// ImageRef makes an image icon.
func ImageRef(url string) Icon { return Icon{Kind: IconImage, Value: url} }

// IsImage reports whether the icon is an image reference.
func (i Icon) IsImage() bool { return i.Kind == IconImage }

func (i Icon) String() string { return i.Value }

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *Icon) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*i = Glyph(node.Value)
		return nil
	case yaml.MappingNode:
		var raw struct {
			Glyph string `yaml:"glyph"`
			Image string `yaml:"image"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		switch {
		case raw.Image != "" && raw.Glyph != "":
			return fmt.Errorf("line %d: icon has both glyph and image", node.Line)
		case raw.Image != "":
			*i = ImageRef(raw.Image)
		default:
			*i = Glyph(raw.Glyph)
		}
		return nil
	default:
		return fmt.Errorf("line %d: icon must be a string or a mapping", node.Line)
	}
}

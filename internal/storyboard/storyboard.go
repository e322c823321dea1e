// Package storyboard turns the indentation tree of an osu! storyboard script
// into typed objects and commands.
package storyboard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/storyboard/internal/tree"
)

// EventsSection is the only top-level section a storyboard may contain.
const EventsSection = "[Events]"

type Storyboard struct {
	Name   string
	Events Events

	// Warnings lists input that parsed but may not play back as expected.
	Warnings []Warning
}

// Events holds the objects of the [Events] section in declaration order.
type Events struct {
	Objects []*Object
}

// FromTree builds a storyboard from a tree produced by the tree package.
func FromTree(root *tree.Node, opts Options) (*Storyboard, error) {
	p := &parser{opts: opts}

	var events *tree.Node
	for _, section := range root.Children {
		key := strings.TrimSpace(section.Text)
		if key != EventsSection {
			return nil, errorf(section.Line, ErrInvalidSection, "invalid section %s", key)
		}
		if events != nil {
			return nil, errorf(section.Line, ErrMultipleSection, "section %s appeared more than once", key)
		}
		events = section
	}

	sb := &Storyboard{Name: root.Text}
	if events != nil {
		for _, child := range events.Children {
			obj, err := p.parseObject(child)
			if err != nil {
				return nil, err
			}
			sb.Events.Objects = append(sb.Events.Objects, obj)
		}
	}
	sb.Warnings = p.warnings
	return sb, nil
}

// Parse reads a storyboard script from r. name becomes Storyboard.Name.
func Parse(name string, r io.Reader, opts Options) (*Storyboard, error) {
	root, err := tree.Read(name, r)
	if err != nil {
		return nil, err
	}
	return FromTree(root, opts)
}

// ParseFile opens path and parses it; the storyboard is named after the file.
func ParseFile(path string, opts Options) (*Storyboard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open storyboard: %w", err)
	}
	defer f.Close()

	sb, err := Parse(filepath.Base(path), f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sb, nil
}

// ParseString parses an in-memory script with default options.
func ParseString(name, text string) (*Storyboard, error) {
	root, err := tree.FromString(name, text)
	if err != nil {
		return nil, err
	}
	return FromTree(root, DefaultOptions())
}

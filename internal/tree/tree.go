package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrIndent is returned (wrapped in *IndentError) when a line is indented
// more than one level deeper than the line before it.
var ErrIndent = errors.New("indent error")

// IndentError reports the offending line and its space count.
type IndentError struct {
	Line   int
	Spaces int
}

func (e *IndentError) Error() string {
	return fmt.Sprintf("line %d: %d space(s) skip a nesting level", e.Line, e.Spaces)
}

func (e *IndentError) Unwrap() error {
	return ErrIndent
}

// Node is one non-blank, non-comment source line and the lines nested under it.
type Node struct {
	Line     int    // 1-based source line (0 for the root)
	Text     string // line text without leading spaces
	Children []*Node
}

// Builder assembles a tree from lines fed one at a time.
type Builder struct {
	root   *Node
	stack  []*Node
	lineNo int
}

// NewBuilder creates a builder whose root node carries rootName as its text.
func NewBuilder(rootName string) *Builder {
	root := &Node{Text: rootName}
	return &Builder{
		root:  root,
		stack: []*Node{root},
	}
}

// Add consumes the next source line.
func (b *Builder) Add(line string) error {
	b.lineNo++

	text := strings.TrimLeft(line, " ")
	if text == "" || strings.HasPrefix(text, "//") {
		return nil
	}

	spaces := len(line) - len(text)
	// Section headers sit one column left of their nominal depth.
	if strings.HasPrefix(text, "[") {
		spaces--
	}

	popTimes := len(b.stack) - 2 - spaces
	if popTimes < 0 {
		return &IndentError{Line: b.lineNo, Spaces: spaces}
	}

	b.stack = b.stack[:len(b.stack)-popTimes]

	child := &Node{Line: b.lineNo, Text: text}
	parent := b.stack[len(b.stack)-1]
	parent.Children = append(parent.Children, child)
	b.stack = append(b.stack, child)
	return nil
}

// Root returns the tree built so far.
func (b *Builder) Root() *Node {
	return b.root
}

// Build turns lines into a tree rooted at a node named rootName.
func Build(rootName string, lines []string) (*Node, error) {
	b := NewBuilder(rootName)
	for _, line := range lines {
		if err := b.Add(line); err != nil {
			return nil, err
		}
	}
	return b.Root(), nil
}

// FromString splits text on newlines and builds the tree.
func FromString(rootName, text string) (*Node, error) {
	return Build(rootName, strings.Split(text, "\n"))
}

const maxLineSize = 1 << 20

// Read streams lines from r. A leading UTF-8 BOM and trailing carriage
// returns are dropped.
func Read(rootName string, r io.Reader) (*Node, error) {
	b := NewBuilder(rootName)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if err := b.Add(strings.TrimRight(line, "\r")); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return b.Root(), nil
}

package source

import (
	"io"
	"strings"
)

// Source supplies the text of one storyboard script
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// StringSource serves an in-memory script
type StringSource struct {
	name string
	text string
}

func NewStringSource(name, text string) *StringSource {
	return &StringSource{name: name, text: text}
}

func (s *StringSource) Name() string {
	return s.name
}

func (s *StringSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.text)), nil
}

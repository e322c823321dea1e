package tree

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildNesting(t *testing.T) {
	lines := []string{
		"[Events]",
		"// comment",
		"Sprite,Background,Centre,\"a.png\",320,240",
		" F,0,0,100,0,1",
		" L,0,2",
		"  M,0,0,100,0,0,10,10",
		"",
		" S,0,0,100,1",
		"Sprite,Foreground,Centre,\"b.png\",0,0",
	}

	root, err := Build("doc", lines)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if root.Text != "doc" || root.Line != 0 {
		t.Errorf("Unexpected root: %+v", root)
	}
	if len(root.Children) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(root.Children))
	}

	events := root.Children[0]
	if events.Text != "[Events]" || events.Line != 1 {
		t.Errorf("Unexpected section node: line=%d text=%q", events.Line, events.Text)
	}
	if len(events.Children) != 2 {
		t.Fatalf("Expected 2 objects, got %d", len(events.Children))
	}

	sprite := events.Children[0]
	if sprite.Line != 3 {
		t.Errorf("Expected sprite at line 3, got %d", sprite.Line)
	}
	if len(sprite.Children) != 3 {
		t.Fatalf("Expected 3 commands, got %d", len(sprite.Children))
	}

	loop := sprite.Children[1]
	if loop.Text != "L,0,2" || len(loop.Children) != 1 {
		t.Errorf("Unexpected loop node: %+v", loop)
	}
	if loop.Children[0].Line != 6 {
		t.Errorf("Expected loop child at line 6, got %d", loop.Children[0].Line)
	}

	if sprite.Children[2].Text != "S,0,0,100,1" {
		t.Errorf("Expected scale after loop, got %q", sprite.Children[2].Text)
	}
	if events.Children[1].Line != 9 {
		t.Errorf("Expected second sprite at line 9, got %d", events.Children[1].Line)
	}
}

func TestBuildIndentError(t *testing.T) {
	lines := []string{
		"[Events]",
		"Sprite,Background,Centre,\"a.png\",320,240",
		"   F,0,0,100,0,1",
	}

	_, err := Build("doc", lines)
	if err == nil {
		t.Fatal("Expected indent error, got nil")
	}
	if !errors.Is(err, ErrIndent) {
		t.Errorf("Expected ErrIndent, got %v", err)
	}

	var ie *IndentError
	if !errors.As(err, &ie) {
		t.Fatalf("Expected *IndentError, got %T", err)
	}
	if ie.Line != 3 || ie.Spaces != 3 {
		t.Errorf("Expected line 3 with 3 spaces, got line %d with %d", ie.Line, ie.Spaces)
	}
}

func TestBuildSkipsBlankAndComments(t *testing.T) {
	root, err := FromString("", "\n   \n// only comments\n    // indented comment\n")
	if err != nil {
		t.Fatalf("FromString failed: %v", err)
	}
	if len(root.Children) != 0 {
		t.Errorf("Expected empty tree, got %d children", len(root.Children))
	}
}

func TestReadStripsBOMAndCR(t *testing.T) {
	text := "\ufeff[Events]\r\nSprite,Pass,TopLeft,\"x.png\",0,0\r\n F,0,0,,1\r\n"

	root, err := Read("file.osb", strings.NewReader(text))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(root.Children) != 1 || root.Children[0].Text != "[Events]" {
		t.Fatalf("Expected [Events] section, got %+v", root.Children)
	}

	sprite := root.Children[0].Children[0]
	if strings.HasSuffix(sprite.Text, "\r") {
		t.Errorf("Carriage return was not stripped: %q", sprite.Text)
	}
	if len(sprite.Children) != 1 || sprite.Children[0].Text != "F,0,0,,1" {
		t.Errorf("Unexpected command nodes: %+v", sprite.Children)
	}
}

func TestReadReportsIndentLine(t *testing.T) {
	text := "[Events]\nSprite,Pass,TopLeft,\"x.png\",0,0\n\n   M,0,0,,1,1\n"

	_, err := Read("", strings.NewReader(text))
	var ie *IndentError
	if !errors.As(err, &ie) {
		t.Fatalf("Expected *IndentError, got %v", err)
	}
	if ie.Line != 4 {
		t.Errorf("Expected line 4, got %d", ie.Line)
	}
}

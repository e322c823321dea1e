package fields

import (
	"slices"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "F,0,100,200,0,1", []string{"F", "0", "100", "200", "0", "1"}},
		{"quoted comma", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"quoted path", `Sprite,Foreground,Centre,"sb/a, b.png",320,240`,
			[]string{"Sprite", "Foreground", "Centre", "sb/a, b.png", "320", "240"}},
		{"empty fields", "F,0,100,,1", []string{"F", "0", "100", "", "1"}},
		{"trailing comma", "a,", []string{"a", ""}},
		{"single", "L", []string{"L"}},
		{"empty", "", []string{""}},
		{"quoted last", `a,"x,y"`, []string{"a", "x,y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFirst(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sprite,Background,Centre", "Sprite"},
		{"MX,0,1,2,3", "MX"},
		{"[Events]", "[Events]"},
		{`"a,b",c`, "a,b"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := First(tt.in); got != tt.want {
			t.Errorf("First(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

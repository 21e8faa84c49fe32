package measure

import (
	"reflect"
	"testing"
)

func TestFontWidth(t *testing.T) {
	f, err := NewFont()
	if err != nil {
		t.Fatalf("NewFont: %v", err)
	}

	if got := f.Width("", 14, false); got != 0 {
		t.Errorf("Width(empty) = %v, want 0", got)
	}

	short := f.Width("ab", 14, false)
	long := f.Width("abcdef", 14, false)
	if short <= 0 || long <= short {
		t.Errorf("Width ordering: short=%v long=%v", short, long)
	}

	if big := f.Width("ab", 28, false); big <= short {
		t.Errorf("larger size should be wider: %v <= %v", big, short)
	}

	if again := f.Width("abcdef", 14, false); again != long {
		t.Errorf("Width not deterministic: %v != %v", again, long)
	}
}

func TestLineHeight(t *testing.T) {
	if got := (Approx{}).LineHeight(10); got != 12 {
		t.Errorf("LineHeight(10) = %v, want 12", got)
	}
}

func TestWrap(t *testing.T) {
	m := Approx{} // 6 units per rune at size 10
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"empty", "   ", 100, nil},
		{"fits", "one two", 100, []string{"one two"}},
		{"breaks", "one two three", 50, []string{"one two", "three"}},
		{"long word", "a extraordinarily b", 30, []string{"a", "extraordinarily", "b"}},
		{"newline", "one\ntwo", 100, []string{"one", "two"}},
		{"unbounded", "one two three", 0, []string{"one two three"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(m, tt.text, tt.width, 10, false)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %v) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestMaxWidth(t *testing.T) {
	got := MaxWidth(Approx{}, []string{"ab", "abcd", "a"}, 10, false)
	if got != 24 {
		t.Errorf("MaxWidth = %v, want 24", got)
	}
}

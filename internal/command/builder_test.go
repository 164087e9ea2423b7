package command

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		template string
		path     string
		want     []string
	}{
		{
			name:     "placeholder replaced in place",
			symbol:   "@",
			template: "prog --run @ --verbose",
			path:     "tests/a.in",
			want:     []string{"prog", "--run", "tests/a.in", "--verbose"},
		},
		{
			name:     "placeholder inside a token",
			symbol:   "@",
			template: "prog --input=@",
			path:     "tests/a.in",
			want:     []string{"prog", "--input=tests/a.in"},
		},
		{
			name:     "every occurrence replaced",
			symbol:   "@",
			template: "cmp @ @",
			path:     "x",
			want:     []string{"cmp", "x", "x"},
		},
		{
			name:     "no placeholder appends path",
			symbol:   "@",
			template: "cat -A",
			path:     "tests/a.in",
			want:     []string{"cat", "-A", "tests/a.in"},
		},
		{
			name:     "custom symbol",
			symbol:   "%",
			template: "run % --fast",
			path:     "b.in",
			want:     []string{"run", "b.in", "--fast"},
		},
		{
			name:     "default symbol when empty",
			symbol:   "",
			template: "prog @",
			path:     "c.in",
			want:     []string{"prog", "c.in"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(tt.symbol)
			got := b.Build(Split(tt.template), tt.path)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("argv mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuilder_BuildDoesNotMutateTemplate(t *testing.T) {
	b := NewBuilder("@")
	template := Split("prog @")
	_ = b.Build(template, "first.in")
	got := b.Build(template, "second.in")
	want := []string{"prog", "second.in"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("template was mutated between builds (-want +got):\n%s", diff)
	}
}

func TestLine(t *testing.T) {
	got := Line([]string{"prog", "--run", "a.in"})
	if got != "prog --run a.in" {
		t.Errorf("expected %q, got %q", "prog --run a.in", got)
	}
}

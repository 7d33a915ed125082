package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func mustCompile(t *testing.T, src string) string {
	t.Helper()
	out, err := Compile([]byte(src))
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", src, err)
	}
	return out
}

func TestCompileHeadingsGetIDs(t *testing.T) {
	got := mustCompile(t, "## Getting started\n")
	want := `<h2 id="getting-started">Getting started</h2>`
	if !strings.Contains(got, want) {
		t.Errorf("Compile heading = %q, want it to contain %q", got, want)
	}
}

func TestCompileCodeBlockWithLanguage(t *testing.T) {
	got := mustCompile(t, "```ts\nif (a < b) {}\n```\n")
	for _, want := range []string{
		`<div class="code-block-wrapper">`,
		`<span class="code-lang code-lang-ts">ts</span>`,
		`<code class="language-ts">`,
		`a &lt; b`,
		`</code></pre></div>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Compile code block = %q, missing %q", got, want)
		}
	}
}

func TestCompileCodeBlockWithoutLanguage(t *testing.T) {
	got := mustCompile(t, "```\nplain\n```\n")
	if strings.Contains(got, "code-block-wrapper") {
		t.Errorf("unlabelled block should not get a wrapper: %q", got)
	}
	if !strings.Contains(got, `<pre class="code-block"><code>plain`) {
		t.Errorf("Compile plain block = %q", got)
	}
}

func TestCompileTables(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	got := mustCompile(t, src)
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("Compile table = %q", got)
	}
}

func TestCompileRawHTMLPassesThrough(t *testing.T) {
	got := mustCompile(t, "<div class=\"callout\">note</div>\n")
	if !strings.Contains(got, `<div class="callout">note</div>`) {
		t.Errorf("raw HTML was altered: %q", got)
	}
}

func TestHTMLComponentWritesVerbatim(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML("<p>hi</p>").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != "<p>hi</p>" {
		t.Errorf("HTML render = %q, want %q", buf.String(), "<p>hi</p>")
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"prose", "one two  three\nfour", 4},
		{"skips fenced code", "intro words\n```go\nfunc main() {}\n```\nafter", 3},
		{"skips tilde fences", "a\n~~~\nb c d\n~~~\ne", 2},
	}
	for _, tt := range tests {
		if got := WordCount([]byte(tt.input)); got != tt.want {
			t.Errorf("%s: WordCount = %d, want %d", tt.name, got, tt.want)
		}
	}
}

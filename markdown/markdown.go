// Package markdown compiles article Markdown into HTML and exposes the
// result as a templ component.
package markdown

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// engine is safe for concurrent use once built.
var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
		extension.Typographer,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		// Articles are authored by the site owner; raw HTML from MDX passes through.
		html.WithUnsafe(),
		renderer.WithNodeRenderers(
			util.Prioritized(&codeBlockRenderer{}, 100),
		),
	),
)

// Compile renders Markdown source into HTML.
func Compile(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("markdown compile: %w", err)
	}
	return buf.String(), nil
}

// HTML returns a templ.Component that writes already compiled HTML verbatim.
func HTML(code string) templ.Component {
	return templ.Raw(code)
}

// WordCount counts whitespace separated words outside fenced code blocks.
func WordCount(src []byte) int {
	count := 0
	inCode := false
	for _, line := range strings.Split(string(src), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inCode = !inCode
			continue
		}
		if inCode {
			continue
		}
		count += len(strings.Fields(trimmed))
	}
	return count
}

// codeBlockRenderer wraps fenced code in a container carrying a language badge.
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := ""
	if n.Info != nil {
		lang = string(n.Language(source))
	}
	if lang != "" {
		escaped := stdhtml.EscapeString(lang)
		_, _ = w.WriteString(`<div class="code-block-wrapper"><span class="code-lang code-lang-` + escaped + `">` + escaped + `</span>`)
		_, _ = w.WriteString(`<pre class="code-block"><code class="language-` + escaped + `">`)
	} else {
		_, _ = w.WriteString(`<pre class="code-block"><code>`)
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		_, _ = w.WriteString(stdhtml.EscapeString(string(seg.Value(source))))
	}
	_, _ = w.WriteString("</code></pre>")
	if lang != "" {
		_, _ = w.WriteString("</div>")
	}
	return ast.WalkSkipChildren, nil
}

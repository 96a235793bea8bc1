// Package export renders stored Markdown documents into downloadable files.
package export

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithASTTransformers(
		util.Prioritized(remoteImageFilter{}, 100),
	)),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// remoteImageFilter drops images that would be fetched over the network when
// the page is printed. Inline data: images are kept.
type remoteImageFilter struct{}

func (remoteImageFilter) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	var remote []*ast.Image
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if img, ok := n.(*ast.Image); ok && entering && !strings.HasPrefix(string(img.Destination), "data:") {
			remote = append(remote, img)
		}
		return ast.WalkContinue, nil
	})
	for _, img := range remote {
		if parent := img.Parent(); parent != nil {
			parent.RemoveChild(parent, img)
		}
	}
}

var pageTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11pt; line-height: 1.45; color: #1f2933; margin: 18mm 16mm; }
h1 { font-size: 20pt; margin: 0 0 4mm; color: #1e3a5f; }
h2 { font-size: 13pt; margin: 6mm 0 2mm; padding-bottom: 1mm; border-bottom: 1px solid #cbd2d9; color: #1e3a5f; }
h3 { font-size: 11pt; margin: 4mm 0 1mm; }
ul { margin: 1mm 0 2mm; padding-left: 5mm; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #cbd2d9; padding: 1mm 2mm; text-align: left; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTML converts Markdown into a standalone HTML page. Raw HTML in the
// source is dropped by the Markdown renderer.
func RenderHTML(title, content string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(content), &body); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err := pageTemplate.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

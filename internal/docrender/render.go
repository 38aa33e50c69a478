// Package docrender turns generated Markdown documents into styled,
// print-ready HTML.
package docrender

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts Markdown to a self-contained HTML page styled for A4
// print output.
type Renderer struct {
	md goldmark.Markdown
}

func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// Render converts Markdown to a complete HTML document.
func (r *Renderer) Render(markdown string) (string, error) {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("docrender: convert markdown: %w", err)
	}
	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n")
	page.WriteString("<title>Business Requirements Document</title>\n")
	page.WriteString(pageStyle)
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// WrapDocument prepends a metadata banner and appends a generation footer to
// a Markdown document before it is stored or rendered.
func WrapDocument(markdown, clientName, backend string, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "**Client:** %s  \n", clientName)
	fmt.Fprintf(&b, "**Generated:** %s  \n", generatedAt.Format("2006-01-02 15:04"))
	if backend != "" {
		fmt.Fprintf(&b, "**Model:** %s  \n", backend)
	}
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimSpace(markdown))
	b.WriteString("\n\n---\n*This document was generated from a structured requirements interview.*\n")
	return b.String()
}

// DocumentFileName builds the canonical artifact name for a generated
// document, safe for object stores and filesystems.
func DocumentFileName(clientName string, generatedAt time.Time) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ', r == '-', r == '_':
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(clientName))
	if slug == "" {
		slug = "client"
	}
	return fmt.Sprintf("BRD_%s_%s.md", slug, generatedAt.Format("20060102_150405"))
}

const pageStyle = `<style>
@page {
    size: A4;
    margin: 2cm;
}
body {
    font-family: 'Helvetica', 'Arial', sans-serif;
    font-size: 11pt;
    line-height: 1.6;
    color: #333;
    max-width: 100%;
}
h1 {
    color: #1a237e;
    font-size: 24pt;
    margin-top: 20pt;
    margin-bottom: 12pt;
    border-bottom: 3px solid #1a237e;
    padding-bottom: 8pt;
}
h2 {
    color: #283593;
    font-size: 18pt;
    margin-top: 16pt;
    margin-bottom: 10pt;
    border-bottom: 2px solid #283593;
    padding-bottom: 6pt;
}
h3 {
    color: #3949ab;
    font-size: 14pt;
    margin-top: 12pt;
    margin-bottom: 8pt;
}
h4 {
    color: #5c6bc0;
    font-size: 12pt;
    margin-top: 10pt;
    margin-bottom: 6pt;
}
p {
    margin: 8pt 0;
    text-align: justify;
}
ul, ol {
    margin: 8pt 0;
    padding-left: 24pt;
}
li {
    margin: 4pt 0;
}
table {
    width: 100%;
    border-collapse: collapse;
    margin: 12pt 0;
    page-break-inside: avoid;
}
th {
    background-color: #3949ab;
    color: white;
    padding: 8pt;
    text-align: left;
    font-weight: bold;
    border: 1px solid #283593;
}
td {
    padding: 6pt 8pt;
    border: 1px solid #ddd;
}
tr:nth-child(even) {
    background-color: #f5f5f5;
}
code {
    background-color: #f4f4f4;
    padding: 2pt 4pt;
    border-radius: 3pt;
    font-family: 'Courier New', monospace;
    font-size: 10pt;
}
pre {
    background-color: #f4f4f4;
    padding: 10pt;
    border-radius: 4pt;
    overflow-x: auto;
    page-break-inside: avoid;
}
blockquote {
    border-left: 4px solid #3949ab;
    padding-left: 12pt;
    margin: 8pt 0;
    color: #555;
    font-style: italic;
}
hr {
    border: none;
    border-top: 2px solid #ddd;
    margin: 16pt 0;
}
strong {
    color: #1a237e;
    font-weight: bold;
}
</style>
`

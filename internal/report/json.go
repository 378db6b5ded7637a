package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/lineguard/lineguard/internal/types"
)

// JSON writes a single pretty-printed document.
type JSON struct {
	// Highlight colors the document for a terminal.
	Highlight bool
}

type jsonFile struct {
	File   string        `json:"file"`
	Issues []types.Issue `json:"issues"`
}

type jsonError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type jsonDoc struct {
	Summary
	Issues []jsonFile  `json:"issues"`
	Errors []jsonError `json:"errors,omitempty"`
}

func (j *JSON) Report(w io.Writer, results []types.CheckResult) error {
	doc := jsonDoc{Summary: Summarize(results), Issues: []jsonFile{}}
	for _, r := range results {
		if r.HasError() {
			doc.Errors = append(doc.Errors, jsonError{File: r.FilePath, Error: r.Error})
		}
		if r.HasIssues() {
			doc.Issues = append(doc.Issues, jsonFile{File: r.FilePath, Issues: r.Issues})
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if j.Highlight {
		return highlight(w, buf.String(), "json")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// highlight writes src colored with the monokai palette, falling back to
// plain text when chroma cannot tokenise it.
func highlight(w io.Writer, src, lang string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		_, werr := io.WriteString(w, src)
		return werr
	}
	return formatter.Format(w, style, it)
}

package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"rill/internal/diag"
	"rill/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	codeColor    = color.New(color.Bold)
	noteColor    = color.New(color.FgBlue)
	caretColor   = color.New(color.FgGreen, color.Bold)
)

// Pretty renders diagnostics for humans. For each diagnostic it prints
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline for the primary span,
// then any notes in the same shape. Call bag.Sort() first for stable order.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeading(w, fs, d.Primary, severityLabel(d.Severity, opts.Color),
			colorize(codeColor, d.Code.ID(), opts.Color), d.Message, opts)
		writeUnderline(w, fs, d.Primary, opts)
		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			writeHeading(w, fs, note.Span, colorize(noteColor, "NOTE", opts.Color), "", note.Msg, opts)
			writeUnderline(w, fs, note.Span, opts)
		}
	}
}

func writeHeading(w io.Writer, fs *source.FileSet, sp source.Span, sev, code, msg string, opts PrettyOpts) {
	start, _ := fs.Resolve(sp)
	path := displayPath(fs, sp.File, opts.PathMode)
	if code != "" {
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sev, code, msg)
		return
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, start.Line, start.Col, sev, msg)
}

// writeUnderline prints the source line and a caret marker under the span.
// Multi-line spans are underlined on their first line only.
func writeUnderline(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	start, end := fs.Resolve(sp)
	line := fs.Get(sp.File).GetLine(start.Line)
	if line == "" && start.Line == 0 {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	}
	// Tabs in the prefix keep their width so the caret lands on the span.
	prefix := make([]byte, 0, start.Col)
	for _, r := range line {
		if len(prefix) >= int(start.Col)-1 {
			break
		}
		if r == '\t' {
			prefix = append(prefix, '\t')
		} else {
			prefix = append(prefix, ' ')
		}
	}
	marker := "^"
	if width > 1 {
		marker += strings.Repeat("~", width-1)
	}
	fmt.Fprintf(w, "  %s%s\n", prefix, colorize(caretColor, marker, opts.Color))
}

func severityLabel(sev diag.Severity, colored bool) string {
	switch sev {
	case diag.SevError:
		return colorize(errorColor, "ERROR", colored)
	case diag.SevWarning:
		return colorize(warningColor, "WARNING", colored)
	default:
		return colorize(infoColor, "INFO", colored)
	}
}

func colorize(c *color.Color, s string, colored bool) string {
	if !colored {
		return s
	}
	return c.Sprint(s)
}

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	switch mode {
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeAbsolute:
		return f.Path
	default:
		return f.DisplayPath(fs.BaseDir())
	}
}

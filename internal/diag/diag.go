// Package diag implements the diagnostics sink shared by every pass of the
// compiler core. It generalizes the teacher's per-pass error slice into one
// accumulator that every pass writes to and the driver consults between
// passes (spec: "errors are printed with file + line and counted ... the
// pass's final count is consulted by the driver; any non-zero count aborts
// before emission").
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kr/text"
	"github.com/maruel/natural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quill-lang/quillc/internal/source"
)

// Kind classifies a diagnostic by which stage of the pipeline raised it,
// matching the error-kind taxonomy of spec §7.
type Kind int

const (
	// KindSemantic covers identifier resolution, type mismatches, and the
	// rest of the Semantic Pass's fatal errors.
	KindSemantic Kind = iota
	// KindAPIValidator covers buffer/bind-group/pipeline constraint violations.
	KindAPIValidator
	// KindShaderValidator covers constructs illegal in shader context.
	KindShaderValidator
)

func (k Kind) String() string {
	switch k {
	case KindSemantic:
		return "semantic"
	case KindAPIValidator:
		return "api"
	case KindShaderValidator:
		return "shader"
	default:
		return "unknown"
	}
}

// Diagnostic is a single error or hint, carrying its source location and
// the text of an already-formatted message. Multi-line bodies (e.g. an
// "Expected: T\nGot: U" detail block) are indented on Format.
type Diagnostic struct {
	Kind    Kind
	Loc     source.Location
	Message string
	Detail  string // optional extra lines, indented under Message
	Hint    bool   // hints are collected but never abort the pipeline
}

// Format renders the diagnostic as "file:line:column: error: message" (or
// "hint: message" for a hint), followed by an indented detail block if
// present.
func (d Diagnostic) Format() string {
	var sb strings.Builder
	prefix := "error"
	if d.Hint {
		prefix = "hint"
	}
	fmt.Fprintf(&sb, "%s: %s: %s", d.Loc.String(), prefix, d.Message)
	if d.Detail != "" {
		sb.WriteString("\n")
		sb.WriteString(text.Indent(d.Detail, "    "))
	}
	return sb.String()
}

// Sink accumulates diagnostics for the whole compilation. Exactly one Sink
// is threaded through the Semantic Pass, the API Validator, and the Shader
// Preparation/Validation passes; the driver inspects it after each pass.
type Sink struct {
	diagnostics []Diagnostic
	printer     *message.Printer
}

// NewSink creates an empty diagnostics sink.
func NewSink() *Sink {
	return &Sink{printer: message.NewPrinter(language.English)}
}

// Errorf records a fatal diagnostic of the given kind at loc.
func (s *Sink) Errorf(kind Kind, loc source.Location, format string, args ...any) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Kind:    kind,
		Loc:     loc,
		Message: fmt.Sprintf(format, args...),
	})
}

// ErrorfDetail is like Errorf but attaches an extra, indented detail block
// (used for type-mismatch diagnostics carrying "Expected/Got" lines).
func (s *Sink) ErrorfDetail(kind Kind, loc source.Location, detail, format string, args ...any) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Kind:    kind,
		Loc:     loc,
		Message: fmt.Sprintf(format, args...),
		Detail:  detail,
	})
}

// Hintf records a non-fatal hint.
func (s *Sink) Hintf(kind Kind, loc source.Location, format string, args ...any) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Kind:    kind,
		Loc:     loc,
		Message: fmt.Sprintf(format, args...),
		Hint:    true,
	})
}

// Diagnostics returns every recorded diagnostic in recording order.
func (s *Sink) Diagnostics() []Diagnostic { return s.diagnostics }

// Count returns the number of fatal (non-hint) diagnostics.
func (s *Sink) Count() int {
	n := 0
	for _, d := range s.diagnostics {
		if !d.Hint {
			n++
		}
	}
	return n
}

// HasErrors reports whether any fatal diagnostic has been recorded.
func (s *Sink) HasErrors() bool { return s.Count() > 0 }

// SortedByLocation returns the diagnostics ordered by file, then by a
// natural (non-lexicographic) comparison of "line:column" so that
// "10:2" sorts after "9:1" rather than before it.
func (s *Sink) SortedByLocation() []Diagnostic {
	out := make([]Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Loc.File != out[j].Loc.File {
			return out[i].Loc.File < out[j].Loc.File
		}
		return natural.Less(out[i].Loc.String(), out[j].Loc.String())
	})
	return out
}

// Summary returns a pluralized one-line count of recorded errors, e.g.
// "1 error" or "3 errors", formatted through the sink's English
// golang.org/x/text/message printer.
func (s *Sink) Summary() string {
	n := s.Count()
	if n == 1 {
		return s.printer.Sprintf("%d error", n)
	}
	return s.printer.Sprintf("%d errors", n)
}

// Format renders every diagnostic, one per line, in location order.
func (s *Sink) Format() string {
	var sb strings.Builder
	for _, d := range s.SortedByLocation() {
		sb.WriteString(d.Format())
		sb.WriteString("\n")
	}
	return sb.String()
}

package semantic

import (
	"github.com/quill-lang/quillc/internal/diag"
	"github.com/quill-lang/quillc/internal/source"
)

// errorf records a semantic-fatal diagnostic at loc (spec §4.4.10: "errors
// are printed with file + line and counted; the pass continues after an
// error wherever meaningful").
func (p *Pass) errorf(loc source.Location, format string, args ...any) {
	p.Sink.Errorf(diag.KindSemantic, loc, format, args...)
}

// errorfDetail is errorf with an attached indented detail block, used for
// type-mismatch diagnostics carrying "Expected: T / Got: U" lines.
func (p *Pass) errorfDetail(loc source.Location, detail, format string, args ...any) {
	p.Sink.ErrorfDetail(diag.KindSemantic, loc, detail, format, args...)
}

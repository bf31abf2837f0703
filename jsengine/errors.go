package jsengine

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"github.com/dop251/goja"

	"github.com/jonwraymond/playground/code"
)

var (
	// parser errors read "snippet.js: Line 2:9 Unexpected token ;"
	syntaxPattern = regexp.MustCompile(`^` + regexp.QuoteMeta(snippetFile) + `: Line (\d+):(\d+) (.*)$`)
	// stack frames read "at anonymous (snippet.js:2:7(3))"
	framePattern = regexp.MustCompile(regexp.QuoteMeta(snippetFile) + `:(\d+):(\d+)\(`)
)

// mapError converts goja failures to code errors. Thrown values keep their
// message property when it is a non-empty string; otherwise the string form of
// the thrown value is used.
func mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		cause := ctx.Err()
		if cause == nil {
			cause = context.Canceled
		}
		return &code.CodeError{Message: "execution interrupted", Err: cause}
	}

	var syntax *goja.CompilerSyntaxError
	if errors.As(err, &syntax) {
		return syntaxError(syntax)
	}

	var ex *goja.Exception
	if errors.As(err, &ex) {
		return exceptionError(ex)
	}

	return &code.CodeError{Message: err.Error(), Err: err}
}

func syntaxError(syntax *goja.CompilerSyntaxError) *code.CodeError {
	ce := &code.CodeError{Message: syntax.Message, Err: syntax}
	if syntax.File != nil {
		pos := syntax.File.Position(syntax.Offset)
		ce.Line, ce.Column = snippetPosition(pos.Line, pos.Column)
		return ce
	}
	if m := syntaxPattern.FindStringSubmatch(syntax.Message); m != nil {
		ce.Line, ce.Column = snippetPosition(atoi(m[1]), atoi(m[2]))
		ce.Message = m[3]
	}
	return ce
}

func exceptionError(ex *goja.Exception) *code.CodeError {
	ce := &code.CodeError{Err: ex}
	// the first snippet frame is where the value was thrown or created
	if m := framePattern.FindStringSubmatch(ex.String()); m != nil {
		ce.Line, ce.Column = snippetPosition(atoi(m[1]), atoi(m[2]))
	}
	val := ex.Value()
	if val == nil {
		ce.Value = ex.Error()
		return ce
	}
	if obj, ok := val.(*goja.Object); ok {
		if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) && !goja.IsNull(msg) {
			ce.Message = msg.String()
		}
	}
	ce.Value = val.String()
	return ce
}

// snippetPosition converts a 1-based line and column in the compiled wrapper
// to the snippet's own coordinates. Positions outside the snippet body are
// reported as unknown.
func snippetPosition(line, column int) (int, int) {
	line--
	if line < 1 || column < 1 {
		return 0, 0
	}
	return line, column
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

package index

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/itchyny/gojq"
)

// fieldPaths compiles and caches jq programs that extract the values of a
// dotted field path ("price.amount") from a document source. Arrays met on
// the way are iterated, so "variants.color" yields every variant color.
type fieldPaths struct {
	codes sync.Map // map[string]*gojq.Code
}

// compile returns the cached program for field.
func (p *fieldPaths) compile(field string) (*gojq.Code, error) {
	if c, ok := p.codes.Load(field); ok {
		return c.(*gojq.Code), nil
	}

	q, err := gojq.Parse(pathExpression(field))
	if err != nil {
		return nil, fmt.Errorf("invalid field path %q: %w", field, err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile field path %q: %w", field, err)
	}

	actual, _ := p.codes.LoadOrStore(field, code)
	return actual.(*gojq.Code), nil
}

// pathExpression builds the jq expression for a dotted path.
func pathExpression(field string) string {
	const flatten = `(if type == "array" then .[] else . end)`

	var b strings.Builder
	b.WriteString(".")
	for _, seg := range strings.Split(field, ".") {
		if seg == "" {
			continue
		}
		b.WriteString(" | ")
		b.WriteString(flatten)
		b.WriteString(" | .")
		b.WriteString(strconv.Quote(seg))
		b.WriteString("?")
	}
	b.WriteString(" | ")
	b.WriteString(flatten)
	return b.String()
}

// values returns the non-null scalar values of field in source.
func (p *fieldPaths) values(source map[string]any, field string) []any {
	code, err := p.compile(field)
	if err != nil {
		return nil
	}

	var out []any
	iter := code.Run(source)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if _, isErr := v.(error); isErr {
			continue
		}
		switch v.(type) {
		case nil, map[string]any, []any:
			continue
		}
		out = append(out, v)
	}
	return out
}

// termKey renders a scalar as the string used in term postings.
func termKey(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// numeric converts a scalar to float64 when it is a number or a numeric string.
func numeric(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

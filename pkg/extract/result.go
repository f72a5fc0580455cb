package extract

import (
	"fmt"
	"reflect"
)

// Kind tags the shape of an upstream orchestration result.
type Kind int

const (
	KindOpaque Kind = iota
	KindRecord
	KindSequence
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindSequence:
		return "sequence"
	case KindText:
		return "text"
	default:
		return "opaque"
	}
}

// RawOutputter is implemented by orchestration results that wrap the raw value produced by
// the final step. Classify unwraps it once.
type RawOutputter interface {
	RawOutput() any
}

// Result is the classified form of an upstream value. Exactly one payload field is
// meaningful, selected by Kind.
type Result struct {
	Kind     Kind
	Record   map[string]any
	Sequence []any
	Text     string
}

// Classify decides the shape of v once. Wrappers are unwrapped a single time; a wrapper
// around another wrapper is opaque.
func Classify(v any) Result {
	if w, ok := v.(RawOutputter); ok {
		inner := w.RawOutput()
		if _, nested := inner.(RawOutputter); nested {
			return Result{Kind: KindOpaque}
		}
		return classifyValue(inner)
	}
	return classifyValue(v)
}

func classifyValue(v any) Result {
	switch t := v.(type) {
	case nil:
		return Result{Kind: KindOpaque}
	case string:
		return Result{Kind: KindText, Text: t}
	case *string:
		if t == nil {
			return Result{Kind: KindOpaque}
		}
		return Result{Kind: KindText, Text: *t}
	case map[string]any:
		return Result{Kind: KindRecord, Record: t}
	case map[string]string:
		rec := make(map[string]any, len(t))
		for k, s := range t {
			rec[k] = s
		}
		return Result{Kind: KindRecord, Record: rec}
	case []any:
		return Result{Kind: KindSequence, Sequence: t}
	case []string:
		seq := make([]any, len(t))
		for i, s := range t {
			seq[i] = s
		}
		return Result{Kind: KindSequence, Sequence: seq}
	}
	return classifyReflect(v)
}

// classifyReflect handles other string-keyed maps and slices, e.g. []fmt.Stringer.
func classifyReflect(v any) Result {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Result{Kind: KindOpaque}
		}
		rec := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			rec[iter.Key().String()] = iter.Value().Interface()
		}
		return Result{Kind: KindRecord, Record: rec}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return Result{Kind: KindText, Text: fmt.Sprintf("%s", v)}
		}
		seq := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			seq[i] = rv.Index(i).Interface()
		}
		return Result{Kind: KindSequence, Sequence: seq}
	default:
		return Result{Kind: KindOpaque}
	}
}

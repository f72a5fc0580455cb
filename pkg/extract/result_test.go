package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	s := "text"
	var nilStr *string

	tests := []struct {
		name string
		in   any
		want Kind
	}{
		{"nil", nil, KindOpaque},
		{"string", "hello", KindText},
		{"string pointer", &s, KindText},
		{"nil string pointer", nilStr, KindOpaque},
		{"bytes", []byte("raw"), KindText},
		{"record", map[string]any{"a": 1}, KindRecord},
		{"string record", map[string]string{"a": "b"}, KindRecord},
		{"typed record", map[string]int{"a": 1}, KindRecord},
		{"sequence", []any{1, 2}, KindSequence},
		{"string sequence", []string{"a"}, KindSequence},
		{"array", [3]int{1, 2, 3}, KindSequence},
		{"int", 5, KindOpaque},
		{"struct", struct{}{}, KindOpaque},
		{"int keyed map", map[int]string{}, KindOpaque},
		{"wrapper", rawWrapper{raw: "x"}, KindText},
		{"nested wrapper", rawWrapper{raw: rawWrapper{raw: "x"}}, KindOpaque},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.in).Kind)
		})
	}
}

func TestClassify_Payloads(t *testing.T) {
	r := Classify([]byte("raw"))
	require.Equal(t, "raw", r.Text)

	r = Classify([3]int{1, 2, 3})
	require.Equal(t, []any{1, 2, 3}, r.Sequence)

	r = Classify(map[string]int{"a": 1})
	require.Equal(t, map[string]any{"a": 1}, r.Record)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "record", KindRecord.String())
	require.Equal(t, "sequence", KindSequence.String())
	require.Equal(t, "text", KindText.String())
	require.Equal(t, "opaque", KindOpaque.String())
}

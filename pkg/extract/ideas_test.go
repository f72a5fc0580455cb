package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdeas_NumberedList(t *testing.T) {
	ideas := Ideas("1. Name: Foo\nTagline: Bar\n\n2. Name: Baz\nTagline: Qux")

	require.Len(t, ideas, 2)
	require.Equal(t, []string{"name", "tagline"}, ideas[0].Keys())
	require.Equal(t, map[string]string{"name": "Foo", "tagline": "Bar"}, ideas[0].Map())
	require.Equal(t, map[string]string{"name": "Baz", "tagline": "Qux"}, ideas[1].Map())
}

func TestIdeas_NoColonYieldsEmpty(t *testing.T) {
	inputs := []string{
		"",
		"just some prose without structure",
		"1. first\n2. second\n3. third",
		"line one\n\nline two\n\n\n",
		"[]",
		"[{}]",
	}
	for _, in := range inputs {
		ideas := Ideas(in)
		require.NotNil(t, ideas, "input %q", in)
		require.Empty(t, ideas, "input %q", in)
	}
}

func TestIdeas_NoColonAndNoMarkerIsEmpty(t *testing.T) {
	require.Empty(t, Ideas("An idea about dogs\nAnother about cats\n\nThe end"))
}

func TestIdeas_KeyNormalization(t *testing.T) {
	ideas := Ideas("Name: Ledgerly\nTarget Market: small businesses\nUnique Value Proposition:  cheaper  \nBusiness Model: SaaS")

	require.Len(t, ideas, 1)
	rec := ideas[0]
	v, ok := rec.Get("target_market")
	require.True(t, ok)
	require.Equal(t, "small businesses", v)
	v, ok = rec.Get("unique_value_proposition")
	require.True(t, ok)
	require.Equal(t, "cheaper", v)
	require.Equal(t, []string{"name", "target_market", "unique_value_proposition", "business_model"}, rec.Keys())
}

func TestIdeas_MarkerFlushesNamedRecord(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		names []string
	}{
		{
			name:  "numbered names only",
			in:    "1. Name: Foo\n2. Name: Bar\n3. Name: Baz",
			names: []string{"Foo", "Bar", "Baz"},
		},
		{
			name:  "numbered names after preamble field",
			in:    "Ideas: three of them\n1. Name: Foo\n2. Name: Bar\n3. Name: Baz",
			names: []string{"Foo", "Bar", "Baz"},
		},
		{
			name:  "consecutive name lines",
			in:    "Name: Alpha\nName: Beta",
			names: []string{"Alpha", "Beta"},
		},
		{
			name:  "fields between names",
			in:    "Name: Alpha\nTagline: a\nName: Beta\nTagline: b\nName: Gamma",
			names: []string{"Alpha", "Beta", "Gamma"},
		},
		{
			name:  "lowercase name field opens a record",
			in:    "name: Draft\nName: Final\nTagline: ok",
			names: []string{"Draft", "Final"},
		},
		{
			name:  "lowercase name field overwrites",
			in:    "Name: First\nname: Second",
			names: []string{"Second"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ideas := Ideas(tt.in)
			got := make([]string, 0, len(ideas))
			for _, idea := range ideas {
				got = append(got, idea.Name())
			}
			require.Equal(t, tt.names, got)
		})
	}
}

func TestIdeas_FieldsStayWithTheirRecord(t *testing.T) {
	ideas := Ideas("Ideas: three of them\n1. Name: Foo\n2. Name: Bar\n3. Name: Baz")
	require.Len(t, ideas, 3)
	require.Equal(t, []string{"ideas", "name"}, ideas[0].Keys())
	require.Equal(t, map[string]string{"name": "Bar"}, ideas[1].Map())

	ideas = Ideas("Name: Alpha\nName: Beta\nTagline: second")
	require.Len(t, ideas, 2)
	require.Equal(t, map[string]string{"name": "Alpha"}, ideas[0].Map())
	require.Equal(t, map[string]string{"name": "Beta", "tagline": "second"}, ideas[1].Map())

	// Fields gathered before any name stay with the record that later receives one.
	ideas = Ideas("Problem: slow invoicing\nSolution: automation\nName: Invoicy")
	require.Len(t, ideas, 1)
	require.Equal(t, []string{"problem", "solution", "name"}, ideas[0].Keys())
}

func TestIdeas_MarkerWithoutColonUsesWholeLine(t *testing.T) {
	ideas := Ideas("1. QuickBooks for dog walkers\nTagline: bookkeeping for walkers")
	require.Len(t, ideas, 1)
	require.Equal(t, "1. QuickBooks for dog walkers", ideas[0].Name())
	tagline, _ := ideas[0].Get("tagline")
	require.Equal(t, "bookkeeping for walkers", tagline)
}

func TestIdeas_ParagraphBoundaryDoesNotFlush(t *testing.T) {
	ideas := Ideas("Name: Split\nTagline: one\n\nProblem: two\n\nSolution: three")
	require.Len(t, ideas, 1)
	require.Equal(t, []string{"name", "tagline", "problem", "solution"}, ideas[0].Keys())
}

func TestIdeas_DuplicateKeyKeepsPosition(t *testing.T) {
	ideas := Ideas("Name: Dup\nTagline: first\nProblem: p\nTagline: second")
	require.Len(t, ideas, 1)
	require.Equal(t, []string{"name", "tagline", "problem"}, ideas[0].Keys())
	v, _ := ideas[0].Get("tagline")
	require.Equal(t, "second", v)
}

func TestIdeas_ValueKeepsLaterColons(t *testing.T) {
	ideas := Ideas("Name: Clock: a timer\nBusiness Model: freemium: $5/mo pro")
	require.Len(t, ideas, 1)
	require.Equal(t, "Clock: a timer", ideas[0].Name())
	v, _ := ideas[0].Get("business_model")
	require.Equal(t, "freemium: $5/mo pro", v)
}

func TestIdeas_RecordsWithoutNameAreDropped(t *testing.T) {
	require.Empty(t, Ideas("Tagline: orphan\nProblem: nobody named me"))
}

func TestIdeas_StructuredFastPath(t *testing.T) {
	in := `[{"name":"Foo","tagline":"Bar","score":7},{"tagline":"no name"},{"name":"Baz","extra":null}]`
	ideas := Ideas(in)

	require.Len(t, ideas, 2)
	require.Equal(t, []string{"name", "tagline", "score"}, ideas[0].Keys())
	score, _ := ideas[0].Get("score")
	require.Equal(t, "7", score)
	extra, ok := ideas[1].Get("extra")
	require.True(t, ok)
	require.Equal(t, "", extra)
}

func TestIdeas_StructuredInsideCodeFence(t *testing.T) {
	in := "```json\n[{\"name\": \"Fenced\", \"problem\": \"p\"}]\n```"
	ideas := Ideas(in)
	require.Len(t, ideas, 1)
	require.Equal(t, "Fenced", ideas[0].Name())
}

func TestIdeas_MalformedStructuredFallsBack(t *testing.T) {
	in := "[{\"name\": \"Broken\"\nName: Recovered\nTagline: from text"
	ideas := Ideas(in)
	require.Len(t, ideas, 1)
	require.Equal(t, "Recovered", ideas[0].Name())
}

func TestIdeas_NonObjectArrayFallsBack(t *testing.T) {
	require.Empty(t, Ideas("[1, 2, 3]"))

	ideas := Ideas("[\"not\", \"records\"]\nName: Fallback\nTagline: text")
	require.Len(t, ideas, 1)
	require.Equal(t, "Fallback", ideas[0].Name())
}

func TestIdeas_Idempotent(t *testing.T) {
	in := "1. Name: Foo\nTagline: Bar\n\n2. Name: Baz\nTarget Market: devs"
	first, err := json.Marshal(Ideas(in))
	require.NoError(t, err)
	second, err := json.Marshal(Ideas(in))
	require.NoError(t, err)
	require.JSONEq(t, string(first), string(second))
	require.Equal(t, string(first), string(second))
}

func TestIdeas_WindowsLineEndings(t *testing.T) {
	ideas := Ideas("Name: Foo\r\nTagline: Bar\r\n\r\nName: Baz\r\n")
	require.Len(t, ideas, 2)
	v, _ := ideas[0].Get("tagline")
	require.Equal(t, "Bar", v)
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("  Name: Foo  \n\nrandom words\nTarget Market : devs\n\n")
	require.Equal(t, []token{
		{kind: tokenMarker, key: "name", value: "Foo"},
		{kind: tokenNoise},
		{kind: tokenField, key: "target_market", value: "devs"},
	}, tokens)
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"Target Market":             "target_market",
		" Unique Value Proposition": "unique_value_proposition",
		"NAME":                      "name",
		"":                          "",
	}
	for in, want := range tests {
		require.Equal(t, want, NormalizeKey(in), in)
	}
}

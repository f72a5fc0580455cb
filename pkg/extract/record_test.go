package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdeaRecord_KeepsInsertionOrder(t *testing.T) {
	r := NewIdeaRecord("name", "Foo", "tagline", "Bar", "problem")
	r.Set("tagline", "Baz")
	r.Set("solution", "Qux")

	require.Equal(t, 3, r.Len())
	require.Equal(t, []string{"name", "tagline", "solution"}, r.Keys())
	require.Equal(t, []string{"name", "Foo", "tagline", "Baz", "solution", "Qux"}, r.Pairs())

	data, err := json.Marshal(r)
	require.NoError(t, err)
	require.Equal(t, `{"name":"Foo","tagline":"Baz","solution":"Qux"}`, string(data))
}

func TestIdeaRecord_Empty(t *testing.T) {
	var r IdeaRecord
	require.False(t, r.HasName())
	require.Equal(t, "", r.Name())
	_, ok := r.Get("name")
	require.False(t, ok)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	require.Equal(t, `{}`, string(data))
}

func TestIdeaRecord_HasNameRequiresKeyPresence(t *testing.T) {
	r := NewIdeaRecord("name", "")
	require.True(t, r.HasName())
}

func TestIdeaRecord_UnmarshalJSON(t *testing.T) {
	var r IdeaRecord
	err := json.Unmarshal([]byte(`{"name":"Foo","score":1.50,"tags":["a", "b"],"gone":null}`), &r)
	require.NoError(t, err)

	require.Equal(t, []string{"name", "score", "tags", "gone"}, r.Keys())
	score, _ := r.Get("score")
	require.Equal(t, "1.50", score)
	tags, _ := r.Get("tags")
	require.Equal(t, `["a","b"]`, tags)
	gone, _ := r.Get("gone")
	require.Equal(t, "", gone)

	require.Error(t, json.Unmarshal([]byte(`["not","an","object"]`), &r))
}

func TestDecodeRecordList(t *testing.T) {
	records, err := decodeRecordList(` [{"name":"A"},{"b":"c"}] `)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "A", records[0].Name())

	_, err = decodeRecordList(`{"name":"A"}`)
	require.ErrorIs(t, err, errNotRecordList)

	_, err = decodeRecordList(`[{"name":"A"}] trailing`)
	require.Error(t, err)

	_, err = decodeRecordList(`[{"name":`)
	require.Error(t, err)
}

func TestStripCodeFence(t *testing.T) {
	require.Equal(t, `[{"a":"b"}]`, stripCodeFence("```json\n[{\"a\":\"b\"}]\n```"))
	require.Equal(t, `[{"a":"b"}]`, stripCodeFence("```\n[{\"a\":\"b\"}]\n```"))
	require.Equal(t, "plain", stripCodeFence("  plain  "))
}

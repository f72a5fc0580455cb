package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runs")
	w, err := NewWriter(dir)
	require.NoError(t, err)
	w.nowFn = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }

	path, err := w.WriteRun(&RunRecord{
		RunID: "run-1",
		Kind:  KindValidate,
		Input: map[string]string{"idea": "A CRM for plumbers"},
		Tasks: []TaskEntry{{Task: "market_analysis", Agent: "market_researcher", TotalTokens: 12}},
		Result: map[string]string{
			"market_analysis": "big",
		},
		Success: true,
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "validate_20250304_050607_00001.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "run-1", decoded["run_id"])
	require.EqualValues(t, 1, decoded["sequence"])
	require.Equal(t, true, decoded["success"])
	require.Equal(t, "big", decoded["result"].(map[string]any)["market_analysis"])
}

func TestWriteRunRejectsInvalid(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	_, err = w.WriteRun(nil)
	require.Error(t, err)
	_, err = w.WriteRun(&RunRecord{})
	require.ErrorContains(t, err, "kind is required")
}

func TestWriteRunConcurrentSequences(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	paths := make([]string, 20)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := w.WriteRun(&RunRecord{Kind: KindGenerate})
			require.NoError(t, err)
			paths[i] = p
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, p := range paths {
		require.False(t, seen[p], "duplicate path %s", p)
		seen[p] = true
	}
	entries, err := os.ReadDir(w.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 20)
}

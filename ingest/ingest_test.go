package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gendx/disruptdb/compact"
)

const successSnapshot = `{
  "disruptions": [
    {
      "id": "0ff28008-06b6-4d22-9052-52e5c0dd3052",
      "applicationPeriods": [{"begin": "20240101T060000", "end": "20240101T220000"}],
      "lastUpdate": "20231231T180512",
      "cause": "TRAVAUX",
      "severity": "BLOQUANTE",
      "tags": ["Actualité"],
      "title": "Ascenseur indisponible"
    }
  ],
  "lines": [
    {
      "id": "line:IDFM:C01371",
      "name": "Métro 1",
      "shortName": "1",
      "mode": "Metro",
      "networkId": "network:IDFM:Operator_100",
      "impactedObjects": [
        {
          "type": "stop_area",
          "id": "stop_area:IDFM:71264",
          "name": "Bastille",
          "disruptionIds": ["0ff28008-06b6-4d22-9052-52e5c0dd3052"]
        }
      ]
    }
  ],
  "lastUpdatedDate": "2024-01-01T00:00:00.000Z"
}`

const errorSnapshot = `{
  "statusCode": 503,
  "error": "Service Unavailable",
  "message": "upstream timeout"
}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRun_CompactsFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024-01-01T00-00.json", successSnapshot)
	writeFile(t, dir, "2024-01-01T00-05.json", successSnapshot)
	writeFile(t, dir, "2024-01-01T00-10.json", errorSnapshot)
	writeFile(t, dir, "broken.json", "{not json")

	st := compact.NewStores()
	records, stats, err := New(st, WithWorkers(4)).Run(context.Background(), []string{dir})
	require.NoError(t, err)

	require.Len(t, records, 3)
	require.Equal(t, 4, stats.Files())
	require.Equal(t, 1, stats.Skipped())
	require.Positive(t, stats.RawBytes())
	require.Positive(t, stats.SourceBytes())

	// Identical snapshot content interns to one disruption set.
	require.Equal(t, 1, st.DisruptionSets.Len())
	require.Equal(t, 1, st.Disruptions.Len())
}

func TestRun_UnknownFieldSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extra.json", `{"statusCode": 1, "error": "e", "message": "m", "surprise": true}`)

	records, stats, err := New(compact.NewStores()).Run(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Empty(t, records)
	require.Equal(t, 1, stats.Skipped())
}

func TestRun_AmbiguousIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "partial.json", `{"statusCode": 503}`)

	_, _, err := New(compact.NewStores()).Run(context.Background(), []string{dir})
	require.ErrorIs(t, err, compact.ErrAmbiguousRecord)
	require.ErrorContains(t, err, "partial.json")
}

func TestRun_NestedDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024/01/a.json", successSnapshot)
	writeFile(t, dir, "2024/01/b.json", errorSnapshot)
	writeFile(t, dir, "2024/02/c.json", successSnapshot)

	run := func() (*compact.Stores, []compact.Record) {
		st := compact.NewStores()
		records, _, err := New(st, WithWorkers(1)).Run(context.Background(), []string{dir})
		require.NoError(t, err)
		return st, records
	}

	st1, rec1 := run()
	st2, rec2 := run()

	require.True(t, st1.Equal(st2))
	require.Len(t, rec2, len(rec1))
	for i := range rec1 {
		require.True(t, rec1[i].Equal(rec2[i]))
	}
}

func TestRun_MultipleDirs(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	writeFile(t, dir1, "a.json", successSnapshot)
	writeFile(t, dir2, "b.json", errorSnapshot)

	records, stats, err := New(compact.NewStores()).Run(context.Background(), []string{dir1, dir2})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 2, stats.Files())
}

func TestRun_MissingDir(t *testing.T) {
	_, _, err := New(compact.NewStores()).Run(context.Background(), []string{"/nonexistent-disruptdb"})
	require.Error(t, err)
}

func TestCollectFiles_SortedDepthFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", "{}")
	writeFile(t, dir, "a/nested.json", "{}")
	writeFile(t, dir, "c/deep/x.json", "{}")

	files, err := collectFiles(dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a", "nested.json"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "c", "deep", "x.json"),
	}, files)
}

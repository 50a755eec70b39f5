package persist

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	disruptdb "github.com/gendx/disruptdb"
	"github.com/gendx/disruptdb/compact"
	"github.com/gendx/disruptdb/internal/hash"
	"github.com/gendx/disruptdb/schema"
)

func ptr[T any](v T) *T { return &v }

func testDatabase(t *testing.T) *disruptdb.Database {
	t.Helper()
	db := disruptdb.New()

	sources := []*schema.Record{
		{
			Disruptions: []schema.Disruption{
				{
					ID: uuid.MustParse("0ff28008-06b6-4d22-9052-52e5c0dd3052"),
					ApplicationPeriods: []schema.ApplicationPeriod{
						{Begin: "20240101T060000", End: "20240101T220000"},
					},
					LastUpdate:   "20231231T180512",
					Cause:        "TRAVAUX",
					Severity:     "BLOQUANTE",
					Tags:         []string{"Actualité", "Ascenseurs"},
					Title:        "Ascenseur indisponible",
					Message:      ptr("L'ascenseur est indisponible."),
					ShortMessage: ptr("ascenseur indisponible"),
					DisruptionID: ptr(uuid.MustParse("7e7c12ce-f2a8-4cbb-92b4-5b19e0f42ba1")),
				},
			},
			Lines: []schema.Line{
				{
					ID:        "line:IDFM:C01371",
					Name:      "Métro 1",
					ShortName: "1",
					Mode:      "Metro",
					NetworkID: "network:IDFM:Operator_100",
					ImpactedObjects: []schema.ImpactedObject{
						{
							Type: "stop_area",
							ID:   "stop_area:IDFM:71264",
							Name: "Bastille",
							DisruptionIDs: []uuid.UUID{
								uuid.MustParse("0ff28008-06b6-4d22-9052-52e5c0dd3052"),
							},
						},
					},
				},
			},
			LastUpdatedDate: ptr("2024-01-01T00:00:00.000Z"),
		},
		{
			StatusCode: ptr(503),
			Error:      ptr("Service Unavailable"),
			Message:    ptr("upstream timeout"),
		},
	}

	for _, src := range sources {
		rec, err := compact.NewRecord(db.Stores, src)
		require.NoError(t, err)
		db.Records = append(db.Records, rec)
	}
	return db
}

func TestBinaryCodec_RoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "zstd"
		}
		t.Run(name, func(t *testing.T) {
			db := testDatabase(t)
			c := BinaryCodec{Compress: compress}

			data, err := c.Marshal(db)
			require.NoError(t, err)

			decoded := disruptdb.New()
			require.NoError(t, c.Unmarshal(data, decoded))
			require.True(t, db.Equal(decoded))
		})
	}
}

func TestBinaryCodec_EmptyDatabase(t *testing.T) {
	db := disruptdb.New()
	c := BinaryCodec{}

	data, err := c.Marshal(db)
	require.NoError(t, err)

	decoded := disruptdb.New()
	require.NoError(t, c.Unmarshal(data, decoded))
	require.True(t, db.Equal(decoded))
}

func TestBinaryCodec_RejectsNonDatabase(t *testing.T) {
	_, err := BinaryCodec{}.Marshal("not a database")
	require.ErrorIs(t, err, ErrInvalidValue)

	err = BinaryCodec{}.Unmarshal(nil, "not a database")
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestBinaryCodec_DetectsCorruption(t *testing.T) {
	db := testDatabase(t)
	data, err := BinaryCodec{}.Marshal(db)
	require.NoError(t, err)

	t.Run("flipped byte", func(t *testing.T) {
		corrupt := append([]byte(nil), data...)
		corrupt[len(corrupt)/2] ^= 0xff
		err := BinaryCodec{}.Unmarshal(corrupt, disruptdb.New())
		require.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("truncated", func(t *testing.T) {
		err := BinaryCodec{}.Unmarshal(data[:8], disruptdb.New())
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad magic", func(t *testing.T) {
		// Rewrite the magic, then fix the trailer so the checksum holds
		// and the magic check itself is exercised.
		corrupt := append([]byte(nil), data...)
		corrupt[0] ^= 0xff
		body := corrupt[:len(corrupt)-trailerSize]
		binary.LittleEndian.PutUint32(corrupt[len(corrupt)-trailerSize:], hash.CRC32C(body))
		err := BinaryCodec{}.Unmarshal(corrupt, disruptdb.New())
		require.ErrorIs(t, err, ErrInvalidMagic)
	})
}

func TestSaveAll(t *testing.T) {
	db := testDatabase(t)
	dir := t.TempDir()

	results, err := SaveAll(context.Background(), db, dir)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for _, r := range results {
		info, err := os.Stat(filepath.Join(dir, r.Filename))
		require.NoError(t, err)
		require.Equal(t, int64(len(r.Data)), info.Size())
	}

	// The dense binary format must beat the pretty-printed JSON dump.
	require.Less(t, len(results[0].Data), len(results[2].Data))
}

func TestSaveAll_Compressed(t *testing.T) {
	db := testDatabase(t)

	results, err := SaveAll(context.Background(), db, t.TempDir(), WithCompression(true))
	require.NoError(t, err)

	decoded := disruptdb.New()
	require.NoError(t, BinaryCodec{}.Unmarshal(results[0].Data, decoded))
	require.True(t, db.Equal(decoded))
}

func TestLoad(t *testing.T) {
	db := testDatabase(t)
	dir := t.TempDir()

	results, err := SaveAll(context.Background(), db, dir)
	require.NoError(t, err)

	for _, r := range results {
		loaded, err := Load(filepath.Join(dir, r.Filename), r.Name)
		require.NoError(t, err, r.Name)
		require.True(t, db.Equal(loaded), r.Name)
	}

	_, err = Load(filepath.Join(dir, "binary.db"), "bincode")
	require.ErrorContains(t, err, "unknown codec")
}

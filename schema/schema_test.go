package schema

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDecode_Success(t *testing.T) {
	rec, err := Decode([]byte(`{
		"disruptions": [
			{
				"id": "0ff28008-06b6-4d22-9052-52e5c0dd3052",
				"applicationPeriods": [{"begin": "20240101T060000", "end": "20240101T220000"}],
				"lastUpdate": "20231231T180512",
				"cause": "TRAVAUX",
				"severity": "BLOQUANTE",
				"title": "Ascenseur indisponible",
				"disruption_id": "7e7c12ce-f2a8-4cbb-92b4-5b19e0f42ba1"
			}
		],
		"lines": [],
		"lastUpdatedDate": "2024-01-01T00:00:00.000Z"
	}`))
	require.NoError(t, err)

	require.Len(t, rec.Disruptions, 1)
	require.NotNil(t, rec.Lines)
	require.Empty(t, rec.Lines)
	require.Equal(t, "2024-01-01T00:00:00.000Z", *rec.LastUpdatedDate)
	require.Nil(t, rec.StatusCode)
	require.Nil(t, rec.Error)
	require.Nil(t, rec.Message)

	d := rec.Disruptions[0]
	require.Equal(t, uuid.MustParse("0ff28008-06b6-4d22-9052-52e5c0dd3052"), d.ID)
	require.Nil(t, d.Tags)
	require.Nil(t, d.Message)
	require.NotNil(t, d.DisruptionID)
	require.Equal(t, uuid.MustParse("7e7c12ce-f2a8-4cbb-92b4-5b19e0f42ba1"), *d.DisruptionID)
}

func TestDecode_Error(t *testing.T) {
	rec, err := Decode([]byte(`{"statusCode": 503, "error": "Service Unavailable", "message": "upstream timeout"}`))
	require.NoError(t, err)

	require.Nil(t, rec.Disruptions)
	require.Nil(t, rec.Lines)
	require.Nil(t, rec.LastUpdatedDate)
	require.Equal(t, 503, *rec.StatusCode)
	require.Equal(t, "Service Unavailable", *rec.Error)
	require.Equal(t, "upstream timeout", *rec.Message)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`{"statusCode": 1, "error": "e", "message": "m", "surprise": true}`))
	require.Error(t, err)
}

func TestDecode_RejectsMalformed(t *testing.T) {
	for _, data := range []string{"", "{not json", `{"disruptions": [{"id": "not-a-uuid"}]}`} {
		_, err := Decode([]byte(data))
		require.Error(t, err, "input %q", data)
	}
}

func TestEstimateBytes(t *testing.T) {
	small := &Record{StatusCode: ptr(503), Error: ptr("e"), Message: ptr("m")}
	large := &Record{
		Disruptions: []Disruption{
			{
				ApplicationPeriods: []ApplicationPeriod{{Begin: "20240101T060000", End: "20240101T220000"}},
				LastUpdate:         "20231231T180512",
				Cause:              "TRAVAUX",
				Severity:           "BLOQUANTE",
				Tags:               []string{"Actualité"},
				Title:              "Ascenseur indisponible",
			},
		},
		Lines:           []Line{{ID: "line:IDFM:C01371", Name: "Métro 1"}},
		LastUpdatedDate: ptr("2024-01-01T00:00:00.000Z"),
	}

	require.Positive(t, small.EstimateBytes())
	require.Greater(t, large.EstimateBytes(), small.EstimateBytes())
}

func ptr[T any](v T) *T { return &v }

package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Coordinate
		encoding LocationEncoding
		reason   ParseReason
	}{
		{
			name:     "geojson point",
			raw:      `{"type":"Point","coordinates":[121.4737,31.2304]}`,
			expected: Coordinate{Latitude: 31.2304, Longitude: 121.4737},
			encoding: EncodingGeoJSON,
		},
		{
			name:     "geojson without type",
			raw:      `{"coordinates":[121.4737,31.2304]}`,
			expected: Coordinate{Latitude: 31.2304, Longitude: 121.4737},
			encoding: EncodingGeoJSON,
		},
		{
			name:     "direct form",
			raw:      `{"latitude":31.2304,"longitude":121.4737}`,
			expected: Coordinate{Latitude: 31.2304, Longitude: 121.4737},
			encoding: EncodingDirect,
		},
		{
			name:     "geojson wins when both present",
			raw:      `{"type":"Point","coordinates":[121.5,31.3],"latitude":10,"longitude":20}`,
			expected: Coordinate{Latitude: 31.3, Longitude: 121.5},
			encoding: EncodingGeoJSON,
		},
		{
			name:     "broken geojson falls back to direct",
			raw:      `{"coordinates":"oops","latitude":31.2,"longitude":121.4}`,
			expected: Coordinate{Latitude: 31.2, Longitude: 121.4},
			encoding: EncodingDirect,
		},
		{name: "absent", raw: ``, reason: ReasonMissingLocation},
		{name: "null", raw: `null`, reason: ReasonMissingLocation},
		{name: "not an object", raw: `[121.4,31.2]`, reason: ReasonBadShape},
		{name: "empty object", raw: `{}`, reason: ReasonBadShape},
		{name: "wrong geometry type", raw: `{"type":"LineString","coordinates":[121.4,31.2]}`, reason: ReasonBadShape},
		{name: "three coordinates", raw: `{"coordinates":[121.4,31.2,5]}`, reason: ReasonBadShape},
		{name: "string latitude", raw: `{"latitude":"31.2","longitude":121.4}`, reason: ReasonNonNumeric},
		{name: "null longitude", raw: `{"latitude":31.2,"longitude":null}`, reason: ReasonNonNumeric},
		{name: "overflowing number", raw: `{"latitude":1e999,"longitude":121.4}`, reason: ReasonNonFinite},
		{name: "latitude out of range", raw: `{"latitude":91,"longitude":121.4}`, reason: ReasonOutOfRange},
		{name: "swapped geojson order", raw: `{"coordinates":[31.2,121.4]}`, reason: ReasonOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coord, encoding, err := ParseLocation(json.RawMessage(tt.raw))

			if tt.reason != "" {
				require.Error(t, err)
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, tt.reason, parseErr.Reason)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, coord)
			assert.Equal(t, tt.encoding, encoding)
		})
	}
}

func TestDecodeRawPlaceRecord(t *testing.T) {
	t.Run("known fields", func(t *testing.T) {
		rec, err := DecodeRawPlaceRecord(json.RawMessage(
			`{"id":"p1","name":" Paw Cafe ","category":"cafe","address":"1 Nanjing Rd","distance":120.5,"location":{"latitude":31.2,"longitude":121.4}}`))
		require.NoError(t, err)

		assert.Equal(t, "p1", rec.ID)
		assert.Equal(t, "Paw Cafe", rec.Name)
		assert.Equal(t, "cafe", rec.Category)
		assert.Equal(t, "1 Nanjing Rd", rec.Address)
		require.NotNil(t, rec.Distance)
		assert.Equal(t, 120.5, *rec.Distance)
		assert.JSONEq(t, `{"latitude":31.2,"longitude":121.4}`, string(rec.Location))
	})

	t.Run("id variants", func(t *testing.T) {
		cases := map[string]string{
			`{"id":42}`:                    "42",
			`{"_id":"abc"}`:                "abc",
			`{"_id":{"$oid":"65f0c0ffee"}}`: "65f0c0ffee",
			`{"id":true}`:                  "",
			`{}`:                           "",
		}
		for raw, expected := range cases {
			rec, err := DecodeRawPlaceRecord(json.RawMessage(raw))
			require.NoError(t, err, raw)
			assert.Equal(t, expected, rec.ID, raw)
		}
	})

	t.Run("unexpected field types are ignored", func(t *testing.T) {
		rec, err := DecodeRawPlaceRecord(json.RawMessage(`{"name":7,"distance":"far","address":null}`))
		require.NoError(t, err)
		assert.Empty(t, rec.Name)
		assert.Empty(t, rec.Address)
		assert.Nil(t, rec.Distance)
	})

	t.Run("negative distance dropped", func(t *testing.T) {
		rec, err := DecodeRawPlaceRecord(json.RawMessage(`{"distance":-3}`))
		require.NoError(t, err)
		assert.Nil(t, rec.Distance)
	})

	t.Run("not an object", func(t *testing.T) {
		for _, raw := range []string{`null`, `"place"`, `[1,2]`, `{`} {
			_, err := DecodeRawPlaceRecord(json.RawMessage(raw))
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr, raw)
			assert.Equal(t, ReasonNotObject, parseErr.Reason)
		}
	})
}

func TestSyntheticPlaceID(t *testing.T) {
	assert.Equal(t, "place-0", SyntheticPlaceID(0))
	assert.Equal(t, "place-17", SyntheticPlaceID(17))
}

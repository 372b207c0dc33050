package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getclawkit/clawkit/internal/api/models"
)

func TestTimestamp_MarshalJSON(t *testing.T) {
	ts := models.Timestamp(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-14T09:26:53Z"`, string(data))
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	var ts models.Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-14T09:26:53Z"`), &ts))
	assert.Equal(t, time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC), ts.Time())
}

func TestTimestamp_UnmarshalNullIsNoop(t *testing.T) {
	ts := models.Timestamp(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), ts.Time())
}

func TestTimestamp_UnmarshalRejectsNonStrings(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"single digit", `5`},
		{"bare number", `1704067200`},
		{"boolean", `true`},
		{"unterminated string", `"2026`},
		{"not a timestamp", `"yesterday"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts models.Timestamp
			assert.Error(t, json.Unmarshal([]byte(tt.data), &ts))
		})
	}
}

package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON_ReportsField(t *testing.T) {
	for _, value := range []string{`"2025-13-40"`, `"0000-01-01"`, `"0999-12-31"`, `20250101`} {
		var in ApplicationInput
		err := json.Unmarshal([]byte(`{"applied_date":`+value+`}`), &in)

		var typeErr *json.UnmarshalTypeError
		require.ErrorAs(t, err, &typeErr, value)
		assert.Equal(t, "applied_date", typeErr.Field, value)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "2025-05-06"},
		{in: "1000-01-01"},
		{in: "9999-12-31"},
		{in: "0000-01-01", wantErr: true},
		{in: "0999-12-31", wantErr: true},
		{in: "2025-02-30", wantErr: true},
		{in: "06/05/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, d.String())
		})
	}
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  time.Time
	}{
		{name: "utc midnight", src: time.Date(2025, time.May, 6, 0, 0, 0, 0, time.UTC)},
		{name: "late in another zone", src: time.Date(2025, time.May, 6, 23, 0, 0, 0, time.FixedZone("X", -5*3600))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, "2025-05-06", d.String())
		})
	}
}

func TestDate_ScanRejects(t *testing.T) {
	var d Date
	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("yesterday"))
}

func TestDate_Value(t *testing.T) {
	v, err := NewDate(2024, time.December, 31).Value()
	require.NoError(t, err)

	got, ok := v.(time.Time)
	require.True(t, ok, "got %T", v)
	assert.Equal(t, "2024-12-31", got.Format(DateLayout))
	assert.Equal(t, "date", Date{}.GormDataType())
}

func TestApplicationInput_UnmarshalJSON(t *testing.T) {
	var in ApplicationInput
	require.NoError(t, json.Unmarshal([]byte(`{"company":"x","role":null,"applied_date":""}`), &in))

	assert.True(t, in.Company.IsSpecified())
	assert.Equal(t, "x", in.Company.MustGet())

	assert.True(t, in.Role.IsSpecified())
	assert.True(t, in.Role.IsNull())

	assert.False(t, in.Location.IsSpecified())

	require.True(t, in.AppliedDate.IsSpecified())
	assert.False(t, in.AppliedDate.IsNull())
	assert.True(t, in.AppliedDate.MustGet().IsZero())
}

package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Title    Field[string] `json:"title"`
	Assignee Field[int64]  `json:"assigneeId"`
}

func TestField_DistinguishesAbsentNullValue(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantNull    bool
		wantValue   string
	}{
		{
			name:        "key missing",
			body:        `{}`,
			wantPresent: false,
		},
		{
			name:        "key sent as null",
			body:        `{"title": null}`,
			wantPresent: true,
			wantNull:    true,
		},
		{
			name:        "key sent with value",
			body:        `{"title": "Fix login"}`,
			wantPresent: true,
			wantValue:   "Fix login",
		},
		{
			name:        "empty string is a value, not null",
			body:        `{"title": ""}`,
			wantPresent: true,
			wantValue:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			assert.Equal(t, tt.wantPresent, p.Title.Present())
			assert.Equal(t, tt.wantNull, p.Title.IsNull())

			v, ok := p.Title.Get()
			if tt.wantPresent && !tt.wantNull {
				require.True(t, ok)
				assert.Equal(t, tt.wantValue, v)
			} else {
				assert.False(t, ok)
			}
		})
	}
}

func TestField_NumericAndZeroValues(t *testing.T) {
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"assigneeId": 0}`), &p))

	v, ok := p.Assignee.Get()
	require.True(t, ok, "zero must still count as a sent value")
	assert.Equal(t, int64(0), v)
}

func TestField_Constructors(t *testing.T) {
	assert.False(t, Absent[string]().Present())
	assert.True(t, Null[string]().IsNull())

	v, ok := Value("x").Get()
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestField_MarshalRoundTrip(t *testing.T) {
	p := payload{Title: Value("a"), Assignee: Null[int64]()}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"a","assigneeId":null}`, string(b))
}

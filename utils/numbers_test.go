package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloatUnmarshal(t *testing.T) {
	var payload struct {
		Value FlexFloat `json:"value"`
	}

	cases := []struct {
		in   string
		want float64
	}{
		{`{"value": 10}`, 10},
		{`{"value": 9.99}`, 9.99},
		{`{"value": "12.50"}`, 12.5},
		{`{"value": ""}`, 0},
		{`{"value": null}`, 0},
		{`{"value": "abc"}`, 0},
		{`{}`, 0},
	}
	for _, tc := range cases {
		payload.Value = 0
		require.NoError(t, json.Unmarshal([]byte(tc.in), &payload), tc.in)
		assert.Equal(t, tc.want, float64(payload.Value), tc.in)
	}
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 19.99, ToFloat("19.99"))
	assert.Equal(t, 19.99, ToFloat(19.99))
	assert.Equal(t, 5.0, ToFloat(5))
	assert.Equal(t, 0.0, ToFloat(nil))
	assert.Equal(t, 0.0, ToFloat("not a number"))
	assert.Equal(t, 0.0, ToFloat(""))
	assert.Equal(t, 3.0, ToFloat(" 3 "))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, int64(35), p.Total)
	assert.Equal(t, 4, p.Pages)

	empty := NewPagination(1, 50, 0)
	assert.Equal(t, 1, empty.Pages)
}

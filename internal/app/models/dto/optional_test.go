package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalNumberAbsentVsNull(t *testing.T) {
	var entry MarkEntryRequest
	require.NoError(t, json.Unmarshal([]byte(`{"studentId":1,"Pr":8,"T":null}`), &entry))

	// Sent value
	require.True(t, entry.Pr.Defined)
	require.NotNil(t, entry.Pr.Value)
	assert.Equal(t, 8.0, *entry.Pr.Value)

	// Explicit null: present but empty
	assert.True(t, entry.T.Defined)
	assert.Nil(t, entry.T.Value)

	// Absent field
	assert.False(t, entry.PE.Defined)
	assert.Nil(t, entry.PE.Value)
}

func TestOptionalNumberRejectsNonNumeric(t *testing.T) {
	var n OptionalNumber
	assert.Error(t, json.Unmarshal([]byte(`"eight"`), &n))
}

func TestOptionalNumberMarshal(t *testing.T) {
	v := 7.5
	data, err := json.Marshal(OptionalNumber{Defined: true, Value: &v})
	require.NoError(t, err)
	assert.Equal(t, "7.5", string(data))

	data, err = json.Marshal(OptionalNumber{Defined: true})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "postgres://user:hunter2@db:5432/wayfarer"

func TestSecretString_StringRedacts(t *testing.T) {
	s := SecretString(testSecret)

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", s))
	assert.NotContains(t, fmt.Sprintf("%s", s), "hunter2")
}

func TestSecretString_MarshalJSONRedacts(t *testing.T) {
	cfg := struct {
		URL  SecretString `json:"url"`
		Name string       `json:"name"`
	}{
		URL:  SecretString(testSecret),
		Name: "primary",
	}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	assert.False(t, strings.Contains(string(data), "hunter2"),
		"marshalled struct leaked the raw secret: %s", data)
	assert.Contains(t, string(data), "[REDACTED]")
}

func TestSecretString_EmptyValue(t *testing.T) {
	var s SecretString

	assert.True(t, s.IsEmpty())
	assert.Equal(t, "", s.String())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `""`, string(data))
}

func TestSecretString_Reveal(t *testing.T) {
	s := SecretString(testSecret)
	assert.Equal(t, testSecret, s.Reveal())
}

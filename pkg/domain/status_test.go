package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "IDLE", domain.StatusIdle.String())
	assert.Equal(t, "RUNNING", domain.StatusRunning.String())
	assert.Equal(t, "SUCCESS", domain.StatusSuccess.String())
	assert.Equal(t, "FAILURE", domain.StatusFailure.String())
	assert.Equal(t, "Status(9)", domain.Status(9).String())
}

func TestStatus_IsCompleted(t *testing.T) {
	assert.False(t, domain.StatusIdle.IsCompleted())
	assert.False(t, domain.StatusRunning.IsCompleted())
	assert.True(t, domain.StatusSuccess.IsCompleted())
	assert.True(t, domain.StatusFailure.IsCompleted())
}

func TestParseStatus(t *testing.T) {
	s, err := domain.ParseStatus(" running ")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, s)

	_, err = domain.ParseStatus("paused")
	assert.Error(t, err)
}

func TestStatus_TextEncoding(t *testing.T) {
	type payload struct {
		Status domain.Status `json:"status" yaml:"status"`
	}

	data, err := json.Marshal(payload{Status: domain.StatusFailure})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"FAILURE"}`, string(data))

	var fromJSON payload
	require.NoError(t, json.Unmarshal([]byte(`{"status":"success"}`), &fromJSON))
	assert.Equal(t, domain.StatusSuccess, fromJSON.Status)

	var fromYAML payload
	require.NoError(t, yaml.Unmarshal([]byte("status: RUNNING\n"), &fromYAML))
	assert.Equal(t, domain.StatusRunning, fromYAML.Status)
}

package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFiles(t *testing.T) {
	files, err := schemaFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_init.sql", files[0])

	data, err := schemaFS.ReadFile("schema/" + files[0])
	require.NoError(t, err)
	for _, table := range []string{"resumes", "job_postings", "analysis_results"} {
		assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := Connect(t.Context(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"go"}, nonNil([]string{"go"}))
}

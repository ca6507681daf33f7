package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestRun_SimpleTimeConditionWithoutEndpointsFails(t *testing.T) {
	lingoPath := writeTempFile(t, "lingo.json", `{
		"version": "1.0.0",
		"condition": {
			"conditionType": "time",
			"chain": 999999,
			"method": "blocktime",
			"returnValueTest": {"comparator": ">", "value": 0}
		}
	}`)

	_, err := run(lingoPath, "")
	assert.Error(t, err)
}

func TestRun_MissingLingoFile(t *testing.T) {
	_, err := run(filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)
}

func TestRun_MalformedContextFile(t *testing.T) {
	lingoPath := writeTempFile(t, "lingo.json", `{"version":"1.0.0","condition":{"conditionType":"time","chain":1,"method":"blocktime","returnValueTest":{"comparator":">","value":0}}}`)
	ctxPath := writeTempFile(t, "context.json", `{not json`)

	_, err := run(lingoPath, ctxPath)
	assert.Error(t, err)
}

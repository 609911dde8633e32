package clientcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/clientcli"
)

func testSnapshot() *clientcli.Snapshot {
	return &clientcli.Snapshot{
		Values: []stratum.Value{
			{Key: "host", Type: stratum.String, Raw: "localhost", Source: stratum.SourceEnv},
			{Key: "api_key", Type: stratum.String, Raw: "******", Source: stratum.SourceFile, Secret: true},
		},
		Warnings: []string{"cache write failed: disk full"},
	}
}

func TestNewFormatter(t *testing.T) {
	_, ok := clientcli.NewFormatter(true, false).(*clientcli.JSONFormatter)
	assert.True(t, ok)

	hf, ok := clientcli.NewFormatter(false, true).(*clientcli.HumanFormatter)
	require.True(t, ok)
	assert.True(t, hf.Quiet)
}

func TestHumanFormatter_FormatSnapshot(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatSnapshot(&buf, testSnapshot()))

		out := buf.String()
		assert.Contains(t, out, "KEY      VALUE      SOURCE")
		assert.Contains(t, out, "host     localhost  env")
		assert.Contains(t, out, "api_key  ******     file")
		assert.Contains(t, out, "2 value(s)")
		assert.Contains(t, out, "Warning: cache write failed: disk full")
	})

	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatSnapshot(&buf, testSnapshot()))
		assert.Equal(t, "host=localhost\napi_key=******\n", buf.String())
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatSnapshot(&buf, &clientcli.Snapshot{}))
		assert.Equal(t, "No values\n", buf.String())
	})
}

func TestHumanFormatter_FormatValue(t *testing.T) {
	v := &stratum.Value{Key: "port", Type: stratum.Uint16, Raw: "8080", Source: stratum.SourceDefault}

	var buf bytes.Buffer
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatValue(&buf, v))
	assert.Equal(t, "Key:    port\nValue:  8080\nType:   uint16\nSource: default\n", buf.String())

	buf.Reset()
	require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatValue(&buf, v))
	assert.Equal(t, "8080\n", buf.String())
}

func TestFormatError(t *testing.T) {
	report := &clientcli.ReportError{Problems: []clientcli.Problem{
		{Key: "host", Problem: stratum.ProblemMissing, Message: "host: missing required value"},
	}}

	t.Run("human report", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatError(&buf, report))
		assert.Contains(t, buf.String(), "previous configuration kept")
		assert.Contains(t, buf.String(), "  - [missing] host: missing required value")
	})

	t.Run("human plain", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatError(&buf, errors.New("boom")))
		assert.Equal(t, "Error: boom\n", buf.String())
	})

	t.Run("json report", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.JSONFormatter{}).FormatError(&buf, report))

		var out struct {
			Error    string              `json:"error"`
			Problems []clientcli.Problem `json:"problems"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Contains(t, out.Error, "reload rejected")
		require.Len(t, out.Problems, 1)
		assert.Equal(t, stratum.ProblemMissing, out.Problems[0].Problem)
	})
}

func TestJSONFormatter_FormatSnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&clientcli.JSONFormatter{}).FormatSnapshot(&buf, testSnapshot()))

	var out clientcli.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, stratum.SourceFile, out.Values[1].Source)
	assert.Equal(t, []string{"cache write failed: disk full"}, out.Warnings)
}

func TestFormatProfiles(t *testing.T) {
	profiles := []clientcli.Profile{
		{Name: "local", Endpoint: "http://localhost:5710"},
		{Name: "prod", Endpoint: "https://prod", Token: "abcd-secret-wxyz"},
	}

	t.Run("human list masks tokens", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatProfileList(&buf, profiles, "prod", false))
		assert.Contains(t, buf.String(), "* prod")
		assert.Contains(t, buf.String(), "abcd...wxyz")
		assert.Contains(t, buf.String(), "(not set)")
		assert.NotContains(t, buf.String(), "secret")
	})

	t.Run("json show with secrets", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.JSONFormatter{}).FormatProfileShow(&buf, profiles[1], true, true))
		assert.Contains(t, buf.String(), `"token": "abcd-secret-wxyz"`)
		assert.Contains(t, buf.String(), `"default": true`)
	})

	t.Run("human show", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatProfileShow(&buf, profiles[0], false, false))
		assert.Equal(t, "Name:     local\nEndpoint: http://localhost:5710\nToken:    (not set)\n", buf.String())
	})
}

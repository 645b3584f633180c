package azure

import (
	"testing"

	"github.com/chiptune-stack/chiptune/internal/constants"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
	"github.com/chiptune-stack/chiptune/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputs(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		key     string
		want    string
	}{
		{
			name: "arm properties outputs",
			payload: map[string]any{"properties": map[string]any{"outputs": map[string]any{
				"webUrl": map[string]any{"type": "String", "value": "https://app.example"},
			}}},
			key:  constants.OutputWebURL,
			want: "https://app.example",
		},
		{
			name: "top level outputs",
			payload: map[string]any{"outputs": map[string]any{
				"databaseHost": map[string]any{"type": "String", "value": "db.example"},
			}},
			key:  constants.OutputDatabaseHost,
			want: "db.example",
		},
		{
			name:    "azd flat map",
			payload: map[string]any{"AZURE_LOCATION": "westeurope", "WEB_URL": "https://app.example"},
			key:     constants.OutputWebURL,
			want:    "https://app.example",
		},
		{
			name:    "azd uppercased names",
			payload: map[string]any{"DATABASEHOST": "db.example"},
			key:     constants.OutputDatabaseHost,
			want:    "db.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ParseOutputs(tt.payload)
			require.NoError(t, err)
			got, err := out.String(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOutputs_NotAnObject(t *testing.T) {
	_, err := ParseOutputs([]any{"x"})
	assert.Error(t, err)
}

func TestParseOutputs_PropertiesWithoutOutputs(t *testing.T) {
	out, err := ParseOutputs(map[string]any{"properties": map[string]any{"provisioningState": "Succeeded"}})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestOutputsString_Missing(t *testing.T) {
	out := Outputs{"databaseHost": "", "port": float64(5432)}

	tests := []string{constants.OutputDatabaseName, "databaseHost", "port"}
	for _, key := range tests {
		_, err := out.String(key)
		testutil.AssertErrorCode(t, err, apperrors.ErrCodeMissingOutput)
		testutil.AssertErrorDetail(t, err, apperrors.DetailKey, key)
	}
	assert.Equal(t, "", out.Lookup("databaseHost"))
}

func TestOutputs_ObjectValuesKept(t *testing.T) {
	out, err := ParseOutputs(map[string]any{"outputs": map[string]any{
		"tags": map[string]any{"env": "dev"},
	}})
	require.NoError(t, err)

	v, ok := out.Get("tags")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"env": "dev"}, v)
}

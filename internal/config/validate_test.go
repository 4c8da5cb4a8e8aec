package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateYAMLSyntax(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content  string
		wantErr  bool
		wantLine bool
	}{
		"valid": {content: "clog:\n  subtitle: ok\n"},
		"blank": {content: "  \n"},
		"unclosed": {
			content:  "clog:\n  subtitle: [unclosed\n",
			wantErr:  true,
			wantLine: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), ".clog.yaml", tt.content)
			err := ValidateYAMLSyntax(path)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, path, verr.FilePath)
			if tt.wantLine {
				assert.Positive(t, verr.Line)
				assert.NotContains(t, verr.Message, "yaml: line")
			}
		})
	}
}

func TestValidateYAMLSyntax_MissingFile(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateYAMLSyntax(t.TempDir()+"/absent.yaml"))
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"position": {err: ValidationError{FilePath: "a.yaml", Line: 3, Column: 1, Message: "bad"}, want: "a.yaml:3:1: bad"},
		"field":    {err: ValidationError{FilePath: "a.toml", Field: "jobs", Message: "must be at least 1"}, want: "a.toml: field 'jobs': must be at least 1"},
		"plain":    {err: ValidationError{FilePath: "a.json", Message: "unreadable"}, want: "a.json: unreadable"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

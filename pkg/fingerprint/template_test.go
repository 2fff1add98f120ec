package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grouperdev/grouper/pkg/event"
	"github.com/grouperdev/grouper/pkg/fingerprint"
	"github.com/grouperdev/grouper/pkg/yaml"
)

func TestNewTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  []string
		wantErr string
	}{
		{
			name:   "literals and placeholders",
			values: []string{"database-unavailable", "{{ function }}"},
		},
		{
			name:   "placeholder without inner spaces",
			values: []string{"{{function}}"},
		},
		{
			name:    "empty template",
			values:  nil,
			wantErr: fingerprint.ErrEmptyTemplate.Error(),
		},
		{
			name:    "unterminated placeholder",
			values:  []string{"{{ function"},
			wantErr: `token 0: malformed placeholder "{{ function"`,
		},
		{
			name:    "unopened placeholder",
			values:  []string{"function }}"},
			wantErr: "malformed placeholder",
		},
		{
			name:    "invalid placeholder name",
			values:  []string{"{{ 9lives }}"},
			wantErr: "malformed placeholder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := fingerprint.NewTemplate(tt.values...)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestTemplate_Render(t *testing.T) {
	t.Parallel()

	ev := event.New(map[string]string{
		event.AttrType:   "DatabaseUnavailable",
		event.AttrModule: "io.sentry.example.Foo",
	})

	tests := []struct {
		name   string
		values []string
		want   fingerprint.Fingerprint
	}{
		{
			name:   "literal only",
			values: []string{"database-unavailable"},
			want:   fingerprint.Fingerprint{"database-unavailable"},
		},
		{
			name:   "placeholder resolves",
			values: []string{"{{ type }}", "{{ module }}"},
			want:   fingerprint.Fingerprint{"DatabaseUnavailable", "io.sentry.example.Foo"},
		},
		{
			name:   "missing attribute falls back",
			values: []string{"database-unavailable", "{{ function }}"},
			want:   fingerprint.Fingerprint{"database-unavailable", "<no-function>"},
		},
		{
			name:   "unrecognized attribute falls back",
			values: []string{"{{ severity }}"},
			want:   fingerprint.Fingerprint{"<no-severity>"},
		},
		{
			name:   "output preserves token order",
			values: []string{"{{ module }}", "literal", "{{ type }}"},
			want:   fingerprint.Fingerprint{"io.sentry.example.Foo", "literal", "DatabaseUnavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl := fingerprint.MustNewTemplate(tt.values...)
			assert.Equal(t, tt.want, tmpl.Render(ev))
		})
	}
}

func TestTemplate_Placeholders(t *testing.T) {
	t.Parallel()

	tmpl := fingerprint.MustNewTemplate("a", "{{ type }}", "b", "{{ type }}", "{{ module }}")
	assert.Equal(t, []string{"type", "type", "module"}, tmpl.Placeholders())
}

func TestTemplate_Tokens_Uncompiled(t *testing.T) {
	t.Parallel()

	tmpl := &fingerprint.Template{Values: []string{"a"}}

	assert.Panics(t, func() {
		tmpl.Tokens()
	})
}

func TestTemplate_YAML(t *testing.T) {
	t.Parallel()

	tmpl := &fingerprint.Template{}
	require.NoError(t, yaml.Unmarshal([]byte(`["database-unavailable", "{{ function }}"]`), tmpl))
	require.NoError(t, tmpl.Compile())

	assert.Equal(t, []string{"database-unavailable", "{{ function }}"}, tmpl.Values)

	out, err := yaml.Marshal(tmpl)
	require.NoError(t, err)
	assert.Equal(t, "  - database-unavailable\n  - '{{ function }}'\n", string(out))
}

func TestFingerprint_IsDefault(t *testing.T) {
	t.Parallel()

	assert.True(t, fingerprint.Default.IsDefault())
	assert.False(t, fingerprint.Fingerprint{"database-unavailable"}.IsDefault())
	assert.False(t, fingerprint.Fingerprint{"{{ default }}", "x"}.IsDefault())
}

func TestFingerprint_String(t *testing.T) {
	t.Parallel()

	fp := fingerprint.Fingerprint{"database-unavailable", "<no-function>"}
	assert.Equal(t, "database-unavailable <no-function>", fp.String())
}

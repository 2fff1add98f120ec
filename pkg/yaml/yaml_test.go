package yaml_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grouperdev/grouper/pkg/yaml"
)

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("mapping", func(t *testing.T) {
		t.Parallel()

		var out map[string]int

		require.NoError(t, yaml.Unmarshal([]byte("a: 1\nb: 2\n"), &out))
		assert.Equal(t, map[string]int{"a": 1, "b": 2}, out)
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()

		var out map[string]int

		err := yaml.Unmarshal([]byte("a: [\n"), &out)
		require.Error(t, err)
	})
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yaml.Marshal(map[string]string{"a": "1"})
	require.NoError(t, err)
	assert.Equal(t, "a: \"1\"\n", string(out))
}

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("path only", func(t *testing.T) {
		t.Parallel()

		pb := yaml.NewPathBuilder()
		err := yaml.NewError(
			errors.New("boom"),
			yaml.WithPath(pb.Root().Child("rules").Index(1).Build()),
		)

		assert.Equal(t, "error at $.rules[1]: boom", err.Error())
	})

	t.Run("path with source annotates", func(t *testing.T) {
		t.Parallel()

		source := []byte("version: 1\nrules:\n  - a\n  - b\n")

		pb := yaml.NewPathBuilder()
		err := yaml.NewError(
			errors.New("boom"),
			yaml.WithPath(pb.Root().Child("rules").Index(1).Build()),
			yaml.WithSource(source),
		)

		msg := err.Error()
		assert.Contains(t, msg, "error at $.rules[1]: boom")
		assert.Contains(t, msg, "- b")
	})

	t.Run("unwrap", func(t *testing.T) {
		t.Parallel()

		inner := errors.New("boom")
		err := yaml.NewError(inner)

		require.ErrorIs(t, err, inner)
	})
}

func TestErrorWrapper(t *testing.T) {
	t.Parallel()

	source := []byte("a: 1\n")
	ew := yaml.NewErrorWrapper(yaml.WithSource(source))

	t.Run("attaches source to yaml errors", func(t *testing.T) {
		t.Parallel()

		err := ew.Wrap(yaml.NewError(errors.New("boom")))

		var yamlErr *yaml.Error
		require.ErrorAs(t, err, &yamlErr)
		assert.Equal(t, source, yamlErr.Source)
	})

	t.Run("passes other errors through", func(t *testing.T) {
		t.Parallel()

		plain := errors.New("plain")
		assert.Same(t, plain, ew.Wrap(plain)) //nolint:errorlint // identity check
	})

	t.Run("nil in, nil out", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, ew.Wrap(nil))
	})
}

func TestValidator(t *testing.T) {
	t.Parallel()

	schema := []byte(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"required": ["version"],
		"properties": {
			"version": {"type": "integer"},
			"rules": {
				"type": "array",
				"items": {"type": "object", "required": ["name"]}
			}
		}
	}`)

	v, err := yaml.NewValidator("/test.json", schema)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, v.Validate(map[string]any{"version": 1}))
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()

		err := v.Validate(map[string]any{})
		require.Error(t, err)
	})

	t.Run("violation inside an array names the element", func(t *testing.T) {
		t.Parallel()

		err := v.Validate(map[string]any{
			"version": 1,
			"rules":   []any{map[string]any{"name": "a"}, map[string]any{}},
		})
		require.Error(t, err)

		var yamlErr *yaml.Error
		require.ErrorAs(t, err, &yamlErr)
		assert.Equal(t, "$.rules[1]", yamlErr.Path.String())
	})

	t.Run("invalid schema", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.NewValidator("/bad.json", []byte("{"))
		require.ErrorContains(t, err, "unmarshal schema")
	})
}

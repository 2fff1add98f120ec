package variant_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grouperdev/grouper/pkg/fingerprint"
	"github.com/grouperdev/grouper/pkg/variant"
	"github.com/grouperdev/grouper/pkg/yaml"
)

func TestBuild_NoMatch(t *testing.T) {
	t.Parallel()

	vs := variant.Build(false, nil)

	require.Len(t, vs, 2)
	assert.Equal(t, []string{variant.AppVariant, variant.SystemVariant}, vs.Contributing())

	app, ok := vs[variant.AppVariant].(*variant.Component)
	require.True(t, ok)
	assert.Nil(t, app.Contributing)
	assert.Nil(t, app.SimilarityContributing)
	assert.Empty(t, app.Hint)
	assert.True(t, app.Contributes())
	assert.True(t, app.ContributesToSimilarity())
}

func TestBuild_Match(t *testing.T) {
	t.Parallel()

	fp := fingerprint.Fingerprint{"database-unavailable", "<no-function>"}
	vs := variant.Build(true, fp)

	require.Len(t, vs, 3)
	assert.Equal(t, []string{variant.CustomFingerprintVariant}, vs.Contributing())

	custom, ok := vs[variant.CustomFingerprintVariant].(*variant.CustomFingerprint)
	require.True(t, ok)
	assert.Equal(t, variant.KindCustomFingerprint, custom.Kind())
	assert.Equal(t, fp, custom.Values)
	assert.True(t, custom.Contributes())

	for _, name := range []string{variant.AppVariant, variant.SystemVariant} {
		c, ok := vs[name].(*variant.Component)
		require.True(t, ok, name)
		assert.False(t, c.Contributes(), name)
		assert.True(t, c.ContributesToSimilarity(), name)
		assert.Equal(t, variant.PrecedenceHint, c.Hint, name)
	}
}

func TestVariants_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("demoted components carry hint", func(t *testing.T) {
		t.Parallel()

		vs := variant.Build(true, fingerprint.Fingerprint{"oom"})

		out, err := json.Marshal(vs)
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"app": {
				"type": "component",
				"contributes": false,
				"contributes_to_similarity": true,
				"hint": "custom fingerprint takes precedence"
			},
			"system": {
				"type": "component",
				"contributes": false,
				"contributes_to_similarity": true,
				"hint": "custom fingerprint takes precedence"
			},
			"custom-fingerprint": {
				"type": "custom-fingerprint",
				"values": ["oom"]
			}
		}`, string(out))
	})

	t.Run("default components omit optional fields", func(t *testing.T) {
		t.Parallel()

		vs := variant.Build(false, nil)

		out, err := json.Marshal(vs)
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"app": {"type": "component"},
			"system": {"type": "component"}
		}`, string(out))
	})
}

func TestVariants_MarshalYAML(t *testing.T) {
	t.Parallel()

	vs := variant.Build(false, nil)

	// Repeated encodings must be byte-identical.
	first, err := yaml.Marshal(vs)
	require.NoError(t, err)

	for range 10 {
		out, err := yaml.Marshal(vs)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(out))
	}

	assert.Equal(t, "app:\n  type: component\nsystem:\n  type: component\n", string(first))
}

package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grouperdev/grouper/pkg/event"
)

func TestFromDocument(t *testing.T) {
	t.Parallel()

	t.Run("yaml document", func(t *testing.T) {
		t.Parallel()

		ev, err := event.FromDocument([]byte("type: DatabaseUnavailable\nmodule: io.sentry.example.Foo\n"))
		require.NoError(t, err)

		v, ok := ev.Get(event.AttrType)
		require.True(t, ok)
		assert.Equal(t, "DatabaseUnavailable", v)
	})

	t.Run("json document", func(t *testing.T) {
		t.Parallel()

		ev, err := event.FromDocument([]byte(`{"type": "OutOfMemory"}`))
		require.NoError(t, err)

		v, ok := ev.Get(event.AttrType)
		require.True(t, ok)
		assert.Equal(t, "OutOfMemory", v)
	})

	t.Run("unrecognized keys are hidden", func(t *testing.T) {
		t.Parallel()

		ev, err := event.FromDocument([]byte("typ: DatabaseUnavailable\n"))
		require.NoError(t, err)

		_, ok := ev.Get("typ")
		assert.False(t, ok)
	})

	t.Run("non-mapping document", func(t *testing.T) {
		t.Parallel()

		_, err := event.FromDocument([]byte("- a\n- b\n"))
		require.ErrorContains(t, err, "decode event")
	})
}

func TestEvent_Get(t *testing.T) {
	t.Parallel()

	ev := event.New(map[string]string{
		event.AttrType:  "DatabaseUnavailable",
		event.AttrValue: "",
	})

	tests := []struct {
		name     string
		attr     string
		want     string
		wantOK   bool
	}{
		{name: "present", attr: event.AttrType, want: "DatabaseUnavailable", wantOK: true},
		{name: "present but empty", attr: event.AttrValue, want: "", wantOK: true},
		{name: "absent", attr: event.AttrFunction, want: "", wantOK: false},
		{name: "unrecognized", attr: "severity", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ev.Get(tt.attr)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvent_Attributes(t *testing.T) {
	t.Parallel()

	ev := event.New(map[string]string{
		event.AttrType: "DatabaseUnavailable",
		"severity":     "error",
	})

	attrs := ev.Attributes()
	assert.Equal(t, map[string]string{event.AttrType: "DatabaseUnavailable"}, attrs)

	// Mutating the copy must not affect the event.
	attrs[event.AttrType] = "changed"

	v, _ := ev.Get(event.AttrType)
	assert.Equal(t, "DatabaseUnavailable", v)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "type", event.Suggest("typ"))
	assert.Empty(t, event.Suggest("zzzz"))
}

func TestIsKnown(t *testing.T) {
	t.Parallel()

	assert.True(t, event.IsKnown(event.AttrCulprit))
	assert.False(t, event.IsKnown("severity"))
}

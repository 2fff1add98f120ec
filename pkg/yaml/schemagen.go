package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// CommentPath points the schema generator at Go source so field comments
// become schema descriptions. Base is the module path, Dir the directory
// holding its source relative to the generator's working directory.
type CommentPath struct {
	Base string
	Dir  string
}

// SchemaGenerator produces a JSON schema for a configuration type using
// [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	value    any
	comments []CommentPath
}

func NewSchemaGenerator(v any, comments ...CommentPath) *SchemaGenerator {
	return &SchemaGenerator{
		value:    v,
		comments: comments,
	}
}

// Generate reflects the configured value into an indented JSON schema
// document.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	for _, c := range g.comments {
		err := r.AddGoComments(c.Base, c.Dir)
		if err != nil {
			return nil, fmt.Errorf("add go comments for %q: %w", c.Base, err)
		}
	}

	jss := r.Reflect(g.value)

	b, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}

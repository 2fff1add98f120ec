package expr

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/grouperdev/grouper/pkg/matcher"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		// `glob` matches a value against an anchored glob pattern, using the
		// same semantics as matcher patterns.
		// Example: glob(attrs["module"], "io.sentry.*").
		cel.Function("glob",
			cel.Overload("glob_string_string", []*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(value, pattern ref.Val) ref.Val {
					valueStr, ok := value.Value().(string)
					if !ok {
						return types.MaybeNoSuchOverloadErr(value)
					}

					patternStr, ok := pattern.Value().(string)
					if !ok {
						return types.MaybeNoSuchOverloadErr(pattern)
					}

					p, err := matcher.CompilePattern(patternStr)
					if err != nil {
						return types.NewErr("glob: %v", err)
					}

					return types.Bool(p.Match(valueStr))
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

package script

import (
	starlarkjson "go.starlark.net/lib/json"
	"go.starlark.net/starlark"
)

// Globals returns the predeclared environment workflow modules evaluate
// against.
func Globals() starlark.StringDict {
	return starlark.StringDict{
		"variable":     starlark.NewBuiltin("variable", variableFn),
		"tool":         starlark.NewBuiltin("tool", toolFn),
		"builtin_tool": starlark.NewBuiltin("builtin_tool", builtinToolFn),
		"action":       starlark.NewBuiltin("action", actionFn),
		"setter":       starlark.NewBuiltin("setter", setterFn),
		"next":         starlark.NewBuiltin("next", nextFn),
		"node":         starlark.NewBuiltin("node", nodeFn),
		"sequence":     starlark.NewBuiltin("sequence", sequenceFn),
		"workflow":     starlark.NewBuiltin("workflow", workflowFn),
		"format":       starlark.NewBuiltin("format", formatFn),
		"args":         argsModule,
		"json":         starlarkjson.Module,
	}
}

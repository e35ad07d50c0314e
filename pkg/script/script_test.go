package script

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ormasoftchile/floe/pkg/tools"
	"github.com/ormasoftchile/floe/pkg/vars"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// testDelegate is a minimal collector for script evaluation in tests.
type testDelegate struct {
	reg     *vars.Registry
	ids     map[string]string // declared name -> identifier
	tools   map[string]*tools.Tool
	cliArgs []string
}

func newTestDelegate() *testDelegate {
	return &testDelegate{
		reg:   vars.NewRegistry(),
		ids:   make(map[string]string),
		tools: make(map[string]*tools.Tool),
	}
}

func (d *testDelegate) OnVariable(id string, entry *vars.Entry) error {
	if name := entry.Name(); name != "" {
		if _, dup := d.ids[name]; dup {
			return fmt.Errorf("variable %q already declared", name)
		}
		d.ids[name] = id
	}
	d.reg.Register(id, entry)
	return nil
}

func (d *testDelegate) OnTool(t *tools.Tool) error {
	if _, dup := d.tools[t.Name()]; dup {
		return fmt.Errorf("tool %q already declared", t.Name())
	}
	d.tools[t.Name()] = t
	return nil
}

func (d *testDelegate) WillParseWorkflow(string) {}

func (d *testDelegate) DidParseWorkflow() error {
	d.reg.Realize(d.cliArgs)
	return nil
}

func evalScript(t *testing.T, d ParseDelegate, src string) (starlark.StringDict, error) {
	t.Helper()
	th := &starlark.Thread{Name: "test"}
	if d != nil {
		SetDelegate(th, d)
	}
	opts := &syntax.FileOptions{Set: true, TopLevelControl: true}
	return starlark.ExecFileOptions(opts, th, "test.star", src, Globals())
}

func mustEval(t *testing.T, d ParseDelegate, src string) starlark.StringDict {
	t.Helper()
	globals, err := evalScript(t, d, src)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	return globals
}

func wantEvalError(t *testing.T, d ParseDelegate, src, fragment string) {
	t.Helper()
	_, err := evalScript(t, d, src)
	if err == nil {
		t.Fatalf("eval succeeded, want error containing %q", fragment)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Fatalf("error = %v, want it to contain %q", err, fragment)
	}
}

func TestVariableDeclaration(t *testing.T) {
	d := newTestDelegate()
	globals := mustEval(t, d, `
v = variable(name="region", default="westus", env="REGION", cli_flag="--region", readers=["deploy"], writers=["deploy"])
`)
	ref, ok := globals["v"].(*VariableRef)
	if !ok {
		t.Fatalf("v is %T, want *VariableRef", globals["v"])
	}
	if d.reg.Len() != 1 {
		t.Fatalf("registry has %d entries, want 1", d.reg.Len())
	}
	if d.ids["region"] != ref.Identifier() {
		t.Fatalf("identifier mismatch: delegate %q, ref %q", d.ids["region"], ref.Identifier())
	}
	err := d.reg.With(ref.Identifier(), func(e *vars.Entry) error {
		if e.Name() != "region" {
			t.Errorf("name = %q", e.Name())
		}
		if def, _ := e.Default(); def != "westus" {
			t.Errorf("default = %q", def)
		}
		if env, _ := e.EnvName(); env != "REGION" {
			t.Errorf("env = %q", env)
		}
		if flag, _ := e.CLIFlag(); flag != "--region" {
			t.Errorf("cli_flag = %q", flag)
		}
		if e.Readers().IsGlobal() || e.Writers().IsGlobal() {
			t.Error("scopes should be restricted")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
}

func TestDuplicateVariableName(t *testing.T) {
	wantEvalError(t, newTestDelegate(), `
a = variable(name="x")
b = variable(name="x")
`, `variable "x" already declared`)
}

func TestAnonymousVariablesAreNotDupChecked(t *testing.T) {
	d := newTestDelegate()
	mustEval(t, d, `
a = variable()
b = variable()
`)
	if d.reg.Len() != 2 {
		t.Fatalf("registry has %d entries, want 2", d.reg.Len())
	}
}

func TestVariableRejectsBadAttributes(t *testing.T) {
	wantEvalError(t, newTestDelegate(), `v = variable(name="has space")`, "cannot contain spaces")
	wantEvalError(t, newTestDelegate(), `v = variable(cli_flag="oops")`, "cli_flag")
	wantEvalError(t, newTestDelegate(), `v = variable(readers=[""])`, "scope")
	wantEvalError(t, newTestDelegate(), `v = variable(default=7)`, "must be a string")
}

func TestMissingDelegateIsFatal(t *testing.T) {
	_, err := evalScript(t, nil, `v = variable(name="x")`)
	if !errors.Is(err, ErrMissingDelegate) {
		t.Fatalf("error = %v, want ErrMissingDelegate", err)
	}
}

func TestToolDeclaration(t *testing.T) {
	d := newTestDelegate()
	globals := mustEval(t, d, `
t1 = tool(path="bin/run.sh")
t2 = builtin_tool(name="kubectl")
t3 = tool(path=variable(name="bin"), name="custom")
`)
	t1 := globals["t1"].(*ToolValue).Tool()
	if t1.Name() != "run.sh" || t1.Builtin() {
		t.Fatalf("t1 = %s builtin=%v", t1.Name(), t1.Builtin())
	}
	t2 := globals["t2"].(*ToolValue).Tool()
	if t2.Name() != "kubectl" || !t2.Builtin() {
		t.Fatalf("t2 = %s builtin=%v", t2.Name(), t2.Builtin())
	}
	if _, ok := d.tools["custom"]; !ok {
		t.Fatal("variable-path tool not registered under its explicit name")
	}
}

func TestToolRequiresNameForLateBoundPath(t *testing.T) {
	wantEvalError(t, newTestDelegate(), `
t = tool(path=variable(name="bin"))
`, "name is required")
}

func TestDuplicateToolName(t *testing.T) {
	wantEvalError(t, newTestDelegate(), `
a = builtin_tool(name="sh")
b = builtin_tool(name="sh")
`, `tool "sh" already declared`)
}

func TestToolRejectsBadPath(t *testing.T) {
	wantEvalError(t, newTestDelegate(), `t = tool(path="")`, "cannot be empty")
	wantEvalError(t, newTestDelegate(), `t = tool(path="has space/x")`, "cannot contain spaces")
	wantEvalError(t, newTestDelegate(), `t = tool(path=7)`, "path must be a string")
}

func TestSetterValidation(t *testing.T) {
	wantEvalError(t, newTestDelegate(), `
v = variable(name="x")
s = setter(implementation="notafunction", variable=v)
`, "expected function type in setter definition")

	wantEvalError(t, newTestDelegate(), `
def f(ctx):
    return None
s = setter(implementation=f, variable="x")
`, "expected variable type in setter definition")

	wantEvalError(t, newTestDelegate(), `
v = variable(name="x")
def f(a, b):
    return None
s = setter(implementation=f, variable=v)
`, "at most one argument")
}

func TestActionRequiresTool(t *testing.T) {
	wantEvalError(t, newTestDelegate(), `
a = action(tool="notatool")
`, "a tool must be passed as the tool in an action")
}

func TestActionRejectsBadArgs(t *testing.T) {
	wantEvalError(t, newTestDelegate(), `
t = builtin_tool(name="sh")
a = action(tool=t, args=[7])
`, "unsupported argument type")
	wantEvalError(t, newTestDelegate(), `
t = builtin_tool(name="sh")
a = action(tool=t, setters=["nope"])
`, "setters entries must be setter values")
}

func TestNextDefinitionValidation(t *testing.T) {
	wantEvalError(t, newTestDelegate(), `
n = next(implementation="nope")
`, "expected function type in next definition")
	wantEvalError(t, newTestDelegate(), `
def route(ctx, a):
    return None
n = next(implementation=route, args={"x": "notaspec"})
`, "must be an args spec")
}

func TestNextStubArgValidation(t *testing.T) {
	header := `
def route(ctx, a):
    return None
stub = next(implementation=route, args={"target": args.string(required=True), "count": args.int(default=2)})
`
	d := newTestDelegate()
	globals := mustEval(t, d, header+`
n = stub(target="deploy")
`)
	if _, ok := globals["n"].(*Next); !ok {
		t.Fatalf("n is %T, want *Next", globals["n"])
	}

	wantEvalError(t, newTestDelegate(), header+`n = stub()`, `missing required argument "target"`)
	wantEvalError(t, newTestDelegate(), header+`n = stub(target=7)`, `argument "target" should be a string`)
	wantEvalError(t, newTestDelegate(), header+`n = stub(target="x", count="two")`, `argument "count" should be an int`)
	wantEvalError(t, newTestDelegate(), header+`n = stub(target="x", extra=1)`, "too many arguments")
	wantEvalError(t, newTestDelegate(), header+`n = stub("x")`, "accepts only named arguments")
}

func TestWorkflowConstruction(t *testing.T) {
	d := newTestDelegate()
	globals := mustEval(t, d, `
t = builtin_tool(name="sh")
n = node(name="only", action=action(tool=t, args=["-c", "true"]))
main = workflow(graph=n)
`)
	wf, ok := AsWorkflow(globals["main"])
	if !ok {
		t.Fatalf("main is %T, want *WorkflowValue", globals["main"])
	}
	if got := wf.Nodes(); len(got) != 1 || got[0] != "only" {
		t.Fatalf("nodes = %v", got)
	}
}

func TestWorkflowConstructionErrors(t *testing.T) {
	header := `
t = builtin_tool(name="sh")
a = action(tool=t, args=["-c", "true"])
`
	wantEvalError(t, newTestDelegate(), header+`
main = workflow(graph=[node(name="x", action=a), node(name="x", action=a)], entrypoint="x")
`, `duplicate node name "x"`)
	wantEvalError(t, newTestDelegate(), header+`
main = workflow(graph=[node(name="x", action=a), node(name="y", action=a)])
`, "entrypoint is required")
	wantEvalError(t, newTestDelegate(), header+`
main = workflow(graph=[node(name="x", action=a), node(name="y", action=a)], entrypoint="z")
`, `entrypoint "z" is not a node`)
	wantEvalError(t, newTestDelegate(), header+`
main = workflow(graph=["notanode"])
`, "graph entries must be node values")
}

func TestFormatStringifiesScalars(t *testing.T) {
	d := newTestDelegate()
	globals := mustEval(t, d, `
f = format("{}, {}, {}", "z", 1, None)
`)
	fv, ok := globals["f"].(*FormatterValue)
	if !ok {
		t.Fatalf("f is %T, want *FormatterValue", globals["f"])
	}
	out, err := fv.formatter.Format(nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if out != "z, 1, None" {
		t.Fatalf("Format = %q, want %q", out, "z, 1, None")
	}
}

func TestJSONModuleAvailable(t *testing.T) {
	d := newTestDelegate()
	globals := mustEval(t, d, `
s = json.encode({"a": 1})
`)
	if got, _ := starlark.AsString(globals["s"]); got != `{"a":1}` {
		t.Fatalf("json.encode = %q", got)
	}
}

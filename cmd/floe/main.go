package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	floeexec "github.com/ormasoftchile/floe/pkg/exec"
	"github.com/ormasoftchile/floe/pkg/runner"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "floe",
	Short: "Scripted workflow runner",
	Long:  "floe — declare tools, variables, and a node graph in a workflow script, then run it as chained subprocesses.",
}

// --- describe ---

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	unsetStyle  = lipgloss.NewStyle().Faint(true)
)

var describeCmd = &cobra.Command{
	Use:                "describe <workflow> [flags for workflow variables]",
	Short:              "Show a workflow's variables and tools with their realized values",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE:               runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("describe requires a workflow file")
	}
	wf, err := runner.ParseWorkflow(args[0], args[1:])
	if err != nil {
		return err
	}
	snap := wf.Snapshot()

	fmt.Println(headerStyle.Render("Workflow ") + valueStyle.Render(snap.Path))

	fmt.Println()
	fmt.Println(headerStyle.Render(fmt.Sprintf("Variables (%d)", len(snap.Variables))))
	for _, v := range snap.Variables {
		name := v.Name
		if name == "" {
			name = v.ID
		}
		val := unsetStyle.Render("(unset)")
		if v.HasVal {
			val = valueStyle.Render(v.Value) + labelStyle.Render(" via "+v.SetBy)
		}
		fmt.Printf("  %s  %s\n", valueStyle.Render(name), val)
		fmt.Printf("    %s %s  %s %s\n",
			labelStyle.Render("readers:"), v.Readers,
			labelStyle.Render("writers:"), v.Writers)
		if v.Env != "" || v.CLIFlag != "" || v.Default != "" {
			fmt.Printf("    %s default=%q env=%q cli_flag=%q\n",
				labelStyle.Render("sources:"), v.Default, v.Env, v.CLIFlag)
		}
	}

	fmt.Println()
	fmt.Println(headerStyle.Render(fmt.Sprintf("Tools (%d)", len(snap.Tools))))
	for _, t := range snap.Tools {
		kind := "path"
		if t.Builtin {
			kind = "builtin"
		}
		loc := errStyle.Render("(unresolved)")
		if t.Cmd != "" {
			loc = valueStyle.Render(t.Cmd)
		}
		fmt.Printf("  %s  %s  %s\n", valueStyle.Render(t.Name), labelStyle.Render(kind), loc)
		if !t.Builtin && t.Path != "" {
			fmt.Printf("    %s %s\n", labelStyle.Render("declared:"), t.Path)
		}
	}
	return nil
}

// --- run ---

var runCmd = &cobra.Command{
	Use:                "run <workflow> [flags for workflow variables]",
	Short:              "Run a workflow's main graph",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE:               runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("run requires a workflow file")
	}
	wf, err := runner.ParseWorkflow(args[0], args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return wf.Run(ctx, floeexec.NewStreamRunner())
}

// --- dump ---

var dumpCmd = &cobra.Command{
	Use:                "dump <workflow> [flags for workflow variables]",
	Short:              "Dump a workflow's parsed state as YAML",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE:               runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("dump requires a workflow file")
	}
	wf, err := runner.ParseWorkflow(args[0], args[1:])
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(wf.Snapshot())
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	return nil
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("floe %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd, runCmd, dumpCmd, versionCmd)
}

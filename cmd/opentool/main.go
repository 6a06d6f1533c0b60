package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/opentool/internal/config"
	"github.com/stellarlinkco/opentool/internal/dispatch"
	"github.com/stellarlinkco/opentool/internal/gateway"
	toolbuiltin "github.com/stellarlinkco/opentool/pkg/tool/builtin"
)

var rootCmd = &cobra.Command{
	Use:   "opentool",
	Short: "opentool - local tool execution agent",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent in single prompt or stdin stream mode",
	RunE:  runRun,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tool API over HTTP and WebSocket",
	RunE:  runServe,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools",
	RunE:  runTools,
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize config and workspace",
	RunE:  runOnboard,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show opentool status",
	RunE:  runStatus,
}

var (
	promptFlag      string
	dryRunFlag      bool
	compactJSONFlag bool
	workingDirFlag  string
)

func init() {
	runCmd.Flags().StringVarP(&promptFlag, "prompt", "p", "", "Single prompt to process")
	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Echo input without executing tools")
	runCmd.Flags().BoolVar(&compactJSONFlag, "compact-json", false, "Emit events as single-line JSON")
	runCmd.Flags().StringVarP(&workingDirFlag, "working-directory", "w", "", "Working directory for tool execution")
	rootCmd.AddCommand(runCmd, serveCmd, toolsCmd, onboardCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RunOptions carries injectable IO for testing.
type RunOptions struct {
	Stdin  io.Reader
	Stdout io.Writer
}

func runRun(cmd *cobra.Command, args []string) error {
	return runWithOptions(RunOptions{})
}

func runWithOptions(opts RunOptions) error {
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	workingDir := workingDirFlag
	if workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		workingDir = wd
	}

	bashTimeoutMS := 0
	if cfg, err := config.LoadConfig(); err == nil {
		bashTimeoutMS = cfg.Tools.BashTimeoutMS
	}

	runner := dispatch.NewRunner(toolbuiltin.NewRegistry(), dispatch.Options{
		WorkingDir:    workingDir,
		DryRun:        dryRunFlag,
		BashTimeoutMS: bashTimeoutMS,
		CompactJSON:   compactJSONFlag,
		Out:           stdout,
	})

	ctx := context.Background()
	if promptFlag != "" {
		return runner.RunOnce(ctx, promptFlag)
	}
	return runner.Run(ctx, stdin)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	srv := gateway.New(cfg, toolbuiltin.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return srv.Run(ctx)
}

func runTools(cmd *cobra.Command, args []string) error {
	for _, t := range toolbuiltin.NewRegistry().All() {
		desc := t.Description()
		if i := strings.IndexByte(desc, '\n'); i >= 0 {
			desc = desc[:i]
		}
		fmt.Printf("%-8s %s\n", t.Name(), desc)
	}
	return nil
}

func runOnboard(cmd *cobra.Command, args []string) error {
	cfgDir := config.ConfigDir()
	cfgPath := config.ConfigPath()

	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Created config: %s\n", cfgPath)
	} else {
		fmt.Printf("Config already exists: %s\n", cfgPath)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := os.MkdirAll(cfg.Agent.Workspace, 0755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	fmt.Printf("Workspace ready: %s\n", cfg.Agent.Workspace)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'opentool run -p \"Hello\"' to test the event stream")
	fmt.Println("  2. Run 'opentool serve' to start the tool API")

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Config: error (%v)\n", err)
		return nil
	}

	fmt.Printf("Config: %s\n", config.ConfigPath())
	fmt.Printf("Workspace: %s\n", cfg.Agent.Workspace)
	fmt.Printf("Gateway: %s:%d\n", cfg.Gateway.Host, cfg.Gateway.Port)
	fmt.Printf("Bash timeout: %dms\n", cfg.Tools.BashTimeoutMS)
	fmt.Printf("Restrict to workspace: %v\n", cfg.Tools.RestrictToWorkspace)

	if _, err := os.Stat(cfg.Agent.Workspace); err != nil {
		fmt.Println("Workspace: not found (run 'opentool onboard')")
	} else {
		fmt.Printf("Tools: %d available\n", toolbuiltin.NewRegistry().Len())
	}

	return nil
}

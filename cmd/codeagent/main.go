// Command codeagent is an interactive coding agent: it connects a model
// provider to a set of workspace-confined tools and runs a conversation
// loop in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"codeagent/internal/agent"
	"codeagent/internal/config"
	"codeagent/internal/console"
	"codeagent/internal/executor"
	"codeagent/internal/logging"
	"codeagent/internal/policy"
	"codeagent/internal/provider"
	anthropicprovider "codeagent/internal/provider/anthropic"
	geminiprovider "codeagent/internal/provider/gemini"
	"codeagent/internal/sandbox"
	"codeagent/internal/tool"
	"codeagent/internal/workspace"
)

const systemPrompt = "You are a coding assistant working inside a single project directory. " +
	"Use the available tools to inspect and modify files and to run commands. " +
	"All paths are relative to the project directory. " +
	"Prefer the sandbox for anything that builds, installs, or executes project code."

var (
	flagWorkspace string
	flagProvider  string
	flagModel     string
	flagConfig    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "codeagent",
		Short:        "Interactive coding agent with workspace-confined tools",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	rootCmd.Flags().StringVar(&flagWorkspace, "workspace", "", "project directory the agent may touch (default: current directory)")
	rootCmd.Flags().StringVar(&flagProvider, "provider", "", "model backend: gemini or anthropic (default: from config)")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "model name (default: from config)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "config file path (default: ~/.config/codeagent/config.toml)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagProvider != "" {
		cfg.Provider.Backend = flagProvider
	}
	if flagModel != "" {
		cfg.Provider.Model = flagModel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	closer, err := logging.Configure(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	rootPath := flagWorkspace
	if rootPath == "" {
		rootPath, err = os.Getwd()
		if err != nil {
			return err
		}
	}
	root, err := workspace.CanonicaliseRoot(rootPath)
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}
	resolver := workspace.NewResolver(root)

	runner := executor.NewOSCommandExecutor(executor.Options{
		MaxOutputBytes:   cfg.Tools.MaxCommandOutputBytes,
		GracefulShutdown: time.Duration(cfg.Tools.GracefulShutdownMs) * time.Millisecond,
	})

	registry := tool.NewRegistry()
	files := tool.NewFileTools(resolver, cfg)
	dirs := tool.NewDirectoryTools(resolver, cfg, tool.NewIgnoreMatcher(root))
	shell := tool.NewShellTool(policy.New(cfg.Tools.AllowedCommands, logging.Named("policy")), runner, cfg, root)
	sbx := tool.NewSandboxTool(sandbox.NewExecutor(runner, cfg, root, logging.Named("sandbox")))

	for _, t := range []tool.Tool{
		tool.NewReadFile(files),
		tool.NewListFiles(dirs),
		tool.NewWriteFile(files),
		tool.NewExecuteBashCommand(shell),
		tool.NewRunInSandbox(sbx),
	} {
		if err := registry.Register(t); err != nil {
			return err
		}
	}

	p, err := buildProvider(ctx, cfg)
	if err != nil {
		return err
	}
	p.DefineTools(registry.Definitions())

	ui := console.New(os.Stdin, os.Stdout, "you")
	ui.PrintNotice(fmt.Sprintf("codeagent ready in %s (model %s). Type 'exit' to quit.", root, p.Model()))

	a := agent.New(p, agent.NewDispatcher(registry, logging.Named("dispatch")), ui, cfg.Tools.MaxToolIterations, logging.Named("agent"))
	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		ui.PrintError(err.Error())
		return err
	}
	return nil
}

func buildProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	switch cfg.Provider.Backend {
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return geminiprovider.New(geminiprovider.NewSDKClient(genaiClient), cfg.Provider.Model, systemPrompt), nil

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}
		return anthropicprovider.New(anthropicprovider.Options{
			Token:     apiKey,
			BaseURL:   os.Getenv("ANTHROPIC_BASE_URL"),
			Model:     cfg.Provider.Model,
			MaxTokens: int64(cfg.Provider.MaxTokens),
			System:    systemPrompt,
		})

	default:
		return nil, fmt.Errorf("unknown provider backend %q", cfg.Provider.Backend)
	}
}

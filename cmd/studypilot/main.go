package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pilotedu/studypilot/agent"
	"github.com/pilotedu/studypilot/framework"
	"github.com/pilotedu/studypilot/internal/config"
	"github.com/pilotedu/studypilot/internal/tui"
	"github.com/pilotedu/studypilot/llm"
	"github.com/pilotedu/studypilot/persistence"
	"github.com/pilotedu/studypilot/server"
	"github.com/pilotedu/studypilot/tools"
)

var flagConfig string

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studypilot",
		Short: "Academic companion agent and tool server",
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", envOrDefault("STUDYPILOT_CONFIG", "studypilot.yaml"), "Path to YAML config")

	root.AddCommand(newServeCmd(), newChatCmd(), newToolsCmd(), newGatewayCmd(), newAskCmd())
	return root
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// stack is the wired application core shared by every command.
type stack struct {
	registry     *framework.Registry
	orchestrator *agent.Orchestrator
	provider     string
	model        string
}

func buildStack(cfg config.Config, logger *log.Logger) (*stack, error) {
	stores := tools.NewStores(nil, nil)
	registry, err := tools.Registry(stores, nil)
	if err != nil {
		return nil, err
	}

	student := agent.DefaultStudent()
	providerName, modelName := "fallback", "deterministic"

	var provider agent.Provider
	if cfg.LLM.APIKey != "" {
		client, err := llm.New(cfg.LLM.APIKey, stores, student, llm.Options{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		provider = client
		providerName, modelName = "openai", client.Model()
	}

	orchestrator := agent.New(agent.Config{
		Registry: registry,
		Provider: provider,
		Student:  student,
		Logger:   logger,
	})
	return &stack{
		registry:     registry,
		orchestrator: orchestrator,
		provider:     providerName,
		model:        modelName,
	}, nil
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger := log.New(os.Stdout, "api ", log.LstdFlags)
			app, err := buildStack(cfg, logger)
			if err != nil {
				return err
			}

			api := &server.APIServer{
				Orchestrator: app.orchestrator,
				Registry:     app.registry,
				Provider:     app.provider,
				Model:        app.model,
				Logger:       logger,
			}
			cmd.Printf("Starting API server on %s (provider=%s)\n", cfg.Server.Addr, app.provider)
			return api.ServeContext(cmd.Context(), cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Address override for the HTTP API server")
	return cmd
}

func newGatewayCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Run the JSON-RPC tool gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.GatewayAddr = addr
			}

			logger := log.New(os.Stdout, "gateway ", log.LstdFlags)
			app, err := buildStack(cfg, logger)
			if err != nil {
				return err
			}

			gateway := &server.Gateway{
				Orchestrator: app.orchestrator,
				Registry:     app.registry,
				Logger:       logger,
			}
			cmd.Printf("Starting gateway on %s\n", cfg.Server.GatewayAddr)
			return gateway.ServeContext(cmd.Context(), cfg.Server.GatewayAddr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Address override for the gateway")
	return cmd
}

func newChatCmd() *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive terminal chat with the agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			logger := log.New(os.Stderr, "chat ", log.LstdFlags)
			app, err := buildStack(cfg, logger)
			if err != nil {
				return err
			}

			transcripts, err := persistence.NewSQLiteTranscriptStore(cfg.Transcript.Path)
			if err != nil {
				return err
			}
			defer transcripts.Close()

			if session == "" {
				session = uuid.NewString()
			}
			return tui.Run(app.orchestrator, transcripts, session)
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "Session id for the transcript log")
	return cmd
}

func newToolsCmd() *cobra.Command {
	toolsCmd := &cobra.Command{Use: "tools", Short: "Inspect and run registry tools"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			stores := tools.NewStores(nil, nil)
			registry, err := tools.Registry(stores, nil)
			if err != nil {
				return err
			}
			for _, def := range registry.Definitions() {
				tool, _ := registry.Get(def.Name)
				cmd.Printf("%-28s %-10s %s\n", def.Name, tool.Category(), def.Description)
			}
			return nil
		},
	}

	var paramsJSON string
	runCmd := &cobra.Command{
		Use:   "run <tool>",
		Short: "Execute one tool and print the envelope",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("tool name required")
			}
			params := map[string]any{}
			if paramsJSON != "" {
				if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
					return fmt.Errorf("parse params: %w", err)
				}
			}
			stores := tools.NewStores(nil, nil)
			registry, err := tools.Registry(stores, nil)
			if err != nil {
				return err
			}
			execution := registry.Execute(cmd.Context(), args[0], params)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(execution)
		},
	}
	runCmd.Flags().StringVar(&paramsJSON, "params", "", "Tool parameters as a JSON object")

	toolsCmd.AddCommand(listCmd, runCmd)
	return toolsCmd
}

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message through the agent and print the reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("message required")
			}
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			logger := log.New(os.Stderr, "ask ", log.LstdFlags)
			app, err := buildStack(cfg, logger)
			if err != nil {
				return err
			}

			reply := app.orchestrator.ProcessMessage(cmd.Context(), args[0], nil)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(reply)
		},
	}
	return cmd
}

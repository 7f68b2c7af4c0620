// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command ygn-brain is the CLI for the cognitive control plane.
//
// Usage:
//
//	ygn-brain run --input "plan the migration" --provider gemini
//	ygn-brain run --input "..." --evidence-out evidence.json
//	ygn-brain version
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	ygnbrain "github.com/yannabadie/ygn-brain"
	"github.com/yannabadie/ygn-brain/pkg/config"
	"github.com/yannabadie/ygn-brain/pkg/guard"
	"github.com/yannabadie/ygn-brain/pkg/logger"
	"github.com/yannabadie/ygn-brain/pkg/orchestrator"
	"github.com/yannabadie/ygn-brain/pkg/provider"
	"github.com/yannabadie/ygn-brain/pkg/tieredmemory"
)

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Run     RunCmd     `cmd:"" help:"Run the orchestrator once against an input."`

	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFormat string `help:"Log format (simple, verbose, or custom)." default:"simple"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(ygnbrain.GetVersion().String())
	return nil
}

// RunCmd drives a single orchestrator pass: guard -> hivemind pipeline ->
// synthesis, tracing every step to an evidence pack.
type RunCmd struct {
	Input       string `required:"" help:"The user input to process."`
	Config      string `help:"Path to a YAML config file. Env vars always override its values." type:"path"`
	Provider    string `help:"LLM provider override (gemini, ollama, stub). Defaults to config/YGN_LLM_PROVIDER / fallback chain."`
	Fallback    bool   `default:"true" negatable:"" help:"Fall back across providers when no provider is pinned."`
	EvidenceOut string `name:"evidence-out" help:"Write the session's evidence pack as JSON to this path." type:"path"`
	Timeout     int    `default:"60" help:"Overall run timeout in seconds."`
}

func (c *RunCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.Timeout)*time.Second)
	defer cancel()

	cfg := config.DefaultConfig()
	if c.Config != "" {
		loaded, err := config.Load(c.Config)
		if err != nil {
			return fmt.Errorf("ygn-brain: failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		config.ApplyEnvOverrides(cfg)
	}

	if c.Provider != "" {
		cfg.Provider.Default = c.Provider
	}
	if !c.Fallback {
		cfg.Provider.Fallback = false
	}

	factory := provider.NewProviderFactory(provider.FactoryConfig{
		GeminiAPIKey: cfg.Provider.Gemini.APIKey,
		GeminiModel:  cfg.Provider.Gemini.Model,
		OllamaModel:  cfg.Provider.Ollama.Model,
		OllamaURL:    cfg.Provider.Ollama.URL,
	})

	var prov provider.Provider
	var err error
	if cfg.Provider.Default != "" {
		prov, err = factory.CreateNamed(ctx, cfg.Provider.Default)
	} else {
		prov, err = factory.Create(ctx, cfg.Provider.Fallback)
	}
	if err != nil {
		return fmt.Errorf("ygn-brain: failed to resolve provider: %w", err)
	}
	slog.Info("resolved provider", "provider", provider.Describe(prov))

	guardPipeline := guard.NewPipeline(guard.NewRegexGuard())

	memSvc := tieredmemory.AsService(tieredmemory.NewTieredService(cfg.Memory.HotTTL, cfg.Memory.WarmMaxAge))

	orch := orchestrator.New(guardPipeline, memSvc, prov)

	result := orch.Run(c.Input)
	slog.Info("run complete", "session_id", result.SessionID)

	if result.Blocked {
		fmt.Println("blocked by guard pipeline")
	} else {
		fmt.Println(result.Output)
	}

	if c.EvidenceOut != "" {
		data, err := json.MarshalIndent(orch.Evidence(), "", "  ")
		if err != nil {
			return fmt.Errorf("ygn-brain: failed to marshal evidence pack: %w", err)
		}
		if err := os.WriteFile(c.EvidenceOut, data, 0o644); err != nil {
			return fmt.Errorf("ygn-brain: failed to write evidence pack: %w", err)
		}
		slog.Info("evidence pack written", "path", c.EvidenceOut, "entries", orch.Evidence().Len())
	}

	return nil
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("ygn-brain"),
		kong.Description("ygn-brain - cognitive control plane for agentic LLM runtimes"),
		kong.UsageOnError(),
	)

	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		os.Exit(1)
	}
	logger.Init(level, os.Stderr, cli.LogFormat)

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

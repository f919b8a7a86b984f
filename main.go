// arsgpt - A terminal chat client for cloud LLM providers.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/arsgpt-tui/internal/chat"
	"github.com/jeranaias/arsgpt-tui/internal/config"
	"github.com/jeranaias/arsgpt-tui/internal/provider"
	"github.com/jeranaias/arsgpt-tui/internal/storage"
	uichat "github.com/jeranaias/arsgpt-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("arsgpt %s (%s)\n", Version, GitCommit)
		return
	}

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			fatalf("resolving config path: %v", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		fatalf("loading config: %v", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		fatalf("creating data directories: %v", err)
	}

	store, err := storage.NewSessionStore(cfg.HistoryDir)
	if err != nil {
		fatalf("opening session store: %v", err)
	}
	creds := storage.NewCredentialStore(cfg.CredentialsFile)

	// Key management runs without a terminal UI
	if args := flag.Args(); len(args) > 0 && args[0] == "keys" {
		if err := runKeys(creds, args[1:]); err != nil {
			fatalf("%v", err)
		}
		return
	}

	runTUI(cfg, store, creds)
}

// runTUI wires the stores, provider client, and orchestrator into the
// Bubble Tea program.
func runTUI(cfg *config.Config, store *storage.SessionStore, creds *storage.CredentialStore) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fatalf("arsgpt requires an interactive terminal (try 'arsgpt keys' for key management)")
	}

	client := provider.NewClient(provider.Config{
		GeminiBaseURL:     cfg.Provider.GeminiBaseURL,
		OpenAIBaseURL:     cfg.Provider.OpenAIBaseURL,
		DeepSeekBaseURL:   cfg.Provider.DeepSeekBaseURL,
		Timeout:           time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
		RequestsPerMinute: cfg.Provider.RequestsPerMinute,
	})

	orc := chat.NewOrchestrator(store, creds, client, chat.Config{
		Timeout:       time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
		GeminiModel:   cfg.Provider.GeminiModel,
		OpenAIModel:   cfg.Provider.OpenAIModel,
		DeepSeekModel: cfg.Provider.DeepSeekModel,
	})

	search := storage.NewHistorySearch(store)

	// Sidebar refresh on external file changes; the app works fine
	// without the watcher.
	watcher, err := storage.WatchHistory(cfg.HistoryDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history watcher disabled: %v\n", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	p := tea.NewProgram(
		uichat.New(orc, store, creds, search, watcher),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fatalf("running arsgpt: %v", err)
	}
}

// =============================================================================
// KEY MANAGEMENT
// =============================================================================

// runKeys handles the "keys" subcommands: list, add, use.
func runKeys(creds *storage.CredentialStore, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		return listKeys(creds)

	case "add":
		if len(args) != 3 {
			return fmt.Errorf("usage: arsgpt keys add <Google|OpenAI|DeepSeek> <api-key>")
		}
		label, err := creds.Add(args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("added %q\n", label)
		return nil

	case "use":
		if len(args) != 2 {
			return fmt.Errorf("usage: arsgpt keys use <label>")
		}
		if err := creds.SetActive(args[1]); err != nil {
			return err
		}
		fmt.Printf("active: %q\n", args[1])
		return nil

	default:
		return fmt.Errorf("unknown keys command %q (want list, add, or use)", args[0])
	}
}

// listKeys prints the registry with masked keys, active entry first.
func listKeys(creds *storage.CredentialStore) error {
	registry, err := creds.List()
	if err != nil {
		return err
	}
	if len(registry) == 0 {
		fmt.Println("no keys configured (arsgpt keys add <Google|OpenAI|DeepSeek> <api-key>)")
		return nil
	}

	labels := make([]string, 0, len(registry))
	for label := range registry {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		cred := registry[label]
		marker := " "
		if cred.IsActive() {
			marker = "*"
		}
		fmt.Printf("%s %-24s %s\n", marker, label, cred.Masked())
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

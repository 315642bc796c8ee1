// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the rhyme server and CLI [DBG] application.

RhymeServe finds rhymes by comparing the phonetic transcriptions of words from their end. Each
dictionary is a frozen, sorted index of (spelling, phonetic, frequency) entries, so a rhyme
lookup is a handful of binary searches. It can operate as a MessagePack IPC server for
integration with text editors, or as a CLI application for testing and debugging.

# Usage

Start the server with default settings:

	rserve

Use a custom data directory and enable debug mode:

	rserve -data /path/to/dicts -d

Run in CLI mode for interactive testing:

	rserve -c -syl 3 -limit 10

The data directory holds dictionary sources, tab separated text files with one
"spelling<TAB>ipa<TAB>frequency" entry per line (de.tsv, en.tsv, ...). Each source is built into
a binary index once and cached next to it as de.rix; the index is rebuilt whenever the source
is newer. Use rhymeidx to build indexes ahead of time.

# Configuration

Runtime configuration is managed through a TOML file:

	[server]
	max_limit = 300
	default_syllables = 2
	max_syllables = 4
	cache_size = 1024

	[index]
	validate = true
	compress = true

	[dict]
	data_dir = "data/"
	sources = ["de"]

An empty sources list enables every dictionary found in the data directory.
The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout, see the server package for every op:

	{"id": "req1", "op": "rhyme", "w": "Haus", "s": 2}

Logs always go to stderr.

# Command Line Flags

	-data string
	    Directory containing the dictionaries (default from config)
	-config string
	    Path to a custom config file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-syl int
	    Syllables to match in CLI mode
	-limit int
	    Words per rhyme group in CLI mode
	-no-filter
	    Disable input filtering for debugging
	-no-cache
	    Never write .rix index files next to the sources
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/bastiangx/rhymeserve/internal/cli"
	"github.com/bastiangx/rhymeserve/internal/logger"
	"github.com/bastiangx/rhymeserve/internal/utils"
	"github.com/bastiangx/rhymeserve/pkg/config"
	"github.com/bastiangx/rhymeserve/pkg/dictionary"
	"github.com/bastiangx/rhymeserve/pkg/server"
	"github.com/bastiangx/rhymeserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "rhymeserve"
	gh      = "https://github.com/bastiangx/rhymeserve"

	loadTimeout = 2 * time.Minute
)

// sigHandler cancels the returned context on the first signal and exits on the second.
func sigHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cancel()
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
	return ctx
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	ctx := sigHandler()
	logger.SetOutput(os.Stderr)

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "", "Directory containing the dictionaries")
	configFile := flag.String("config", "", "Path to a custom config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	syllables := flag.Int("syl", 0, "Syllables to match in CLI mode (default from config)")
	limit := flag.Int("limit", 0, "Words per rhyme group in CLI mode (default from config)")
	noFilter := flag.Bool("no-filter", false, "Disable input filtering (DBG only)")
	noCache := flag.Bool("no-cache", false, "Never write .rix index files next to the sources")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if configPath != "" {
		log.Debugf("Using config file: (%s)", configPath)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Error("Either env is not set or system is not supported")
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	requestedDir := appConfig.Dict.DataDir
	if *dataDir != "" {
		requestedDir = *dataDir
	}
	resolvedDataDir, err := pathResolver.GetDataDir(requestedDir)
	if err != nil {
		log.Fatalf("Failed to resolve data dir:(%v)", err)
	}
	log.Debugf("Using data dir at: %s", resolvedDataDir)

	loader := dictionary.NewLoader(resolvedDataDir, dictionary.LoaderOptions{
		Validate: appConfig.Index.Validate,
		Compress: appConfig.Index.Compress,
		NoCache:  *noCache,
	})
	registry := dictionary.NewRegistry()

	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	stats, err := loader.LoadAll(loadCtx, registry)
	cancel()
	if err != nil {
		for key, value := range pathResolver.DiagnosePathIssues(requestedDir) {
			log.Debug("path diagnostics", key, value)
		}
		log.Fatalf("Failed to load dictionaries: %v", err)
	}
	log.Debug("Dictionaries loaded",
		"loaded", stats.Loaded,
		"built", stats.Built,
		"failed", stats.Failed,
		"entries", stats.Entries)
	selectSources(registry, appConfig.Dict.Sources)

	rhymer, err := suggest.NewRhymer(registry, suggest.Options{
		DefaultSyllables: appConfig.Server.DefaultSyllables,
		MaxSyllables:     appConfig.Server.MaxSyllables,
		MaxLimit:         appConfig.Server.MaxLimit,
		CacheSize:        appConfig.Server.CacheSize,
	})
	if err != nil {
		log.Fatalf("Failed to init rhymer: %v", err)
	}

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		if *syllables == 0 {
			*syllables = appConfig.CLI.DefaultSyllables
		}
		if *limit == 0 {
			*limit = appConfig.CLI.DefaultLimit
		}
		log.Debug("Input info:",
			"syllables", *syllables,
			"limit", *limit,
			"noFilter", *noFilter || appConfig.CLI.NoFilter)

		inputHandler := cli.NewInputHandler(rhymer, os.Stdin, os.Stdout,
			*syllables, appConfig.Server.MaxSyllables, *limit, *noFilter || appConfig.CLI.NoFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(rhymer, loader, appConfig)

	showStartupInfo(resolvedDataDir, registry)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// selectSources disables every loaded dictionary not named in sources. An empty list keeps them all.
func selectSources(reg *dictionary.Registry, sources []string) {
	if len(sources) == 0 {
		return
	}
	for _, src := range reg.List() {
		if !slices.Contains(sources, src.Name) {
			log.Debugf("Disabling dictionary %s (not in config)", src.Name)
			_ = reg.Disable(src.Name)
		}
	}
	for _, name := range sources {
		if _, ok := reg.Get(name); !ok {
			log.Warnf("Configured dictionary %s was not found", name)
		}
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ RhymeServe ] Finds rhymes by how words sound!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process. stdout carries the IPC
// stream, so everything goes to stderr.
func showStartupInfo(dataDir string, reg *dictionary.Registry) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	banner := lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Border(lipgloss.NormalBorder(), true, false).
		Render(" RhymeServe ")
	fmt.Fprintln(os.Stderr, banner)
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("data dir: ( %s )", dataDir)
	for _, src := range reg.Active() {
		log.Infof("dict: %s (%d entries)", src.Name, src.Index.Len())
	}
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}

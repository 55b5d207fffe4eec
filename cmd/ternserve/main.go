// Copyright 2025 The TernServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the ternserve dictionary server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

TernServe provides fast word lookups over a ternary search tree with
frequency ranking: prefix completions, wildcard pattern matching with
'.' and '*', and near-match corrections within a character substitution
budget. It can operate as a MessagePack IPC server for integration with
text editors, or as a CLI application for testing and debugging.

The server mode uses lazy-loaded chunked dictionaries to efficiently handle
large word datasets while maintaining low memory usage. Words are ranked by
frequency and filtered based on configurable thresholds to provide relevant
suggestions. Chunk files arrive in rank order, so the tree is rebalanced
after loading to keep lookup paths short.

# Usage

Start the server with default settings:

	ternserve

Use custom data directory and enable debug mode:

	ternserve -data /path/to/chunks -d

Run in CLI mode for interactive testing:

	ternserve -c -limit 10 -prmin 2

Convert a plain text word list into chunk files:

	ternserve -convert words.txt -data data/

The data directory should contain chunked binary files named dict_0001.bin,
dict_0002.bin, etc. These files are generated from word frequency data and
loaded on-demand based on the configured limits.

# Configuration

Runtime configuration is managed through a TOML file that supports server
parameters, dictionary settings, and CLI defaults:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true

	[dict]
	max_words = 50000
	chunk_size = 10000
	min_frequency_threshold = 20
	near_max_distance = 1
	balance_after_load = true

The config file is automatically created with defaults if it doesn't exist.
Server mode reloads configuration periodically without restart.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Requests
are processed synchronously with microsecond timing information included in
responses.

Send a completion request:

	{"id": "req1", "p": "hel", "l": 20}

Receive suggestions with frequency ranking (the prefix word itself is
never suggested):

	{"id": "req1", "s": [{"w": "hello", "r": 1}, {"w": "help", "r": 2}], "c": 2, "t": 145}

Wildcard and correction requests use their own fields:

	{"id": "req2", "pat": "f*m", "l": 10}
	{"id": "req3", "q": "wrod", "d": 1}

Dictionary management requests allow runtime adjustment of loaded chunks:

	{"id": "dict1", "action": "get_info"}
	{"id": "dict2", "action": "set_size", "chunk_count": 5}

# Command Line Flags

The following flags control application behavior:

	-data string
	    Directory containing binary chunk files (default "data/")
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-convert string
	    Convert a plain text word list into chunk files and exit
	-config string
	    Path to a custom config file
	-limit int
	    Number of suggestions to return (default from config)
	-prmin int
	    Minimum prefix length for suggestions
	-prmax int
	    Maximum prefix length for suggestions
	-dist int
	    Default correction distance for near lookups
	-no-filter
	    Disable input filtering for debugging
	-words int
	    Maximum words to load (0 for all)
	-chunk int
	    Words per chunk for lazy loading

The application automatically resolves data and config paths relative to the
executable location, supporting both development and production deployments.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/ternserve/internal/cli"
	"github.com/bastiangx/ternserve/internal/logger"
	"github.com/bastiangx/ternserve/internal/utils"
	"github.com/bastiangx/ternserve/pkg/config"
	"github.com/bastiangx/ternserve/pkg/dict"
	"github.com/bastiangx/ternserve/pkg/server"
	completion "github.com/bastiangx/ternserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "ternserve"
	gh      = "https://github.com/bastiangx/ternserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	binaryDir := flag.String("data", "data/", "Directory containing the binary files")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	convertFile := flag.String("convert", "", "Convert a plain text word list into chunk files and exit")
	configFile := flag.String("config", "", "Path to a custom config file")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions (1 < n <= prmax)")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	nearDist := flag.Int("dist", defaultConfig.Dict.NearMaxDistance, "Default correction distance for near lookups")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - shows all raw dictionary entries (numbers, symbols, etc)")
	wordLimit := flag.Int("words", defaultConfig.Dict.MaxWords, "Maximum number of words to load (use 0 for all words)")
	chunkSize := flag.Int("chunk", defaultConfig.Dict.ChunkSize, "Number of words per chunk for lazy loading")

	flag.Parse()

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	// Initialize path resolver for robust path handling
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *convertFile != "" {
		if err := convertWordList(*convertFile, *binaryDir, *chunkSize); err != nil {
			log.Fatalf("Conversion failed: %v", err)
		}
		return
	}

	// Pathfinder for bin dir
	resolvedDataDir, err := pathResolver.GetDataDir(*binaryDir)
	if err != nil {
		log.Fatalf("Failed to resolve data dir:(%v)", err)
	}

	log.Debugf("Using data dir at: %s", resolvedDataDir)
	log.Debugf("Init dictionary: maxWords=[%d], chunkSize=[%d]", *wordLimit, *chunkSize)

	dictionary := dict.New()
	loader := dict.NewLoader(resolvedDataDir, *chunkSize, *wordLimit, dictionary, defaultConfig.Dict.BalanceAfterLoad)

	if err := loader.Start(); err != nil {
		log.Fatalf("Failed to start dictionary loader: %v", err)
	}
	log.Debug("Dictionary loader started")

	completer := completion.NewCompleter(dictionary)
	completer.WarmCache()

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	// NOTE: Server interface has vastly different parameters compared to CLI and what it accepts.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"dist", *nearDist,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(completer, *minPrefix, *maxPrefix, *limit, *nearDist, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	var appConfig *config.Config
	var configPath string
	if *configFile != "" {
		appConfig, configPath, err = config.LoadConfigWithPriority(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		configPath, err = pathResolver.GetConfigPath("ternserve-config.toml")
		if err != nil {
			log.Fatalf("Failed to determine config path: (%v)", err)
		}
		appConfig, err = config.InitConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	log.Debugf("Using config file: (%s)", configPath)

	resizer := dict.NewResizer(loader)
	srv := server.NewServer(completer, dictionary, resizer, appConfig, configPath)

	showStartupInfo(resolvedDataDir)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	loader.Stop()
}

// convertWordList builds chunk files out of a plain text word list.
func convertWordList(listPath, outDir string, chunkSize int) error {
	if err := dict.ValidateFileFormat(listPath, dict.FormatText); err != nil {
		return err
	}
	d := dict.New()
	count, err := dict.LoadWordList(listPath, d)
	if err != nil {
		return err
	}
	log.Infof("Loaded %d words from %s", count, listPath)

	chunks, err := dict.BuildChunksFromDictionary(d, outDir, chunkSize)
	if err != nil {
		return err
	}
	log.Infof("Wrote %d chunk files to %s", chunks, outDir)
	return nil
}

// showVersionInfo prints the styled version banner.
func showVersionInfo() {
	banner := logger.Default("")

	styles := log.DefaultStyles()

	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["version"] = lipgloss.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ TernServe ] Serves really fast word lookups!")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataDir string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" TernServe ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("data dir: ( %s )", dataDir)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}

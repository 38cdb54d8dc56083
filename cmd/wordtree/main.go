// Copyright 2025 The WordTree Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs a word/frequency dictionary as a msgpack IPC server, an interactive
CLI or a batch command runner.

The dictionary is a ternary search tree by default; the list, hash and patricia
backends answer identically and can be selected to cross-check it. Words are loaded
from a corpus at startup: a "word frequency" text file, a directory of them, or a
directory of dict_NNNN.bin chunk files. A chunk directory is loaded in whole chunks,
enough to reach -words, and the server can grow or shrink it later with the set_size op.

# Usage

Serve msgpack requests on stdin/stdout:

	wordtree -data corpus.txt

Explore the dictionary interactively:

	wordtree -data corpus.txt -c

Run a command file and write the results:

	wordtree -data corpus.txt -cmd commands.in -out results.out

Commands are one per line. In the interactive CLI they start with ':' (":S cut"),
and any other line is a prefix to complete:

	S word             search, prints the frequency
	A word frequency   add a word unless present
	D word             delete a word
	AC prefix          the three most frequent completions
	dump               print the tree structure (tst backend)
	stats              word and node counts

# Configuration

Settings live in a TOML file, created with defaults on first run:

	[dict]
	backend = "tst"
	data_path = "data"
	max_words = 0

	[server]
	max_limit = 64
	min_prefix = 0
	max_prefix = 60

	[cli]
	default_limit = 3
	color = true

Flags override the file. -save-config writes the dict overrides back to it.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bastiangx/wordtree/internal/cli"
	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/bastiangx/wordtree/pkg/config"
	"github.com/bastiangx/wordtree/pkg/dictionary"
	"github.com/bastiangx/wordtree/pkg/server"
	"github.com/bastiangx/wordtree/pkg/tst"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordtree"
	gh      = "https://github.com/bastiangx/wordtree"
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

func showVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ WordTree ] ternary search tree word dictionary")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// main wires config, corpus loading and the selected mode together.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	version := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	configPath := flag.String("config", "", "Path to a config.toml (default: user config dir)")
	dataPath := flag.String("data", defaults.Dict.DataPath, "Corpus file or directory (empty for an empty dictionary)")
	backend := flag.String("backend", defaults.Dict.Backend, "Dictionary backend: tst, list, hash or patricia")
	maxWords := flag.Int("words", defaults.Dict.MaxWords, "Maximum number of words to load (0 for all)")
	cliMode := flag.Bool("c", false, "Run the interactive CLI")
	cmdFile := flag.String("cmd", "", "Run the commands of this file and exit")
	outFile := flag.String("out", "", "Write -cmd results to this file instead of stdout")
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "Number of completions shown by the CLI")
	noFilter := flag.Bool("no-filter", defaults.CLI.DefaultNoFilter, "Complete every CLI input, including numbers and symbols")
	saveConfig := flag.Bool("save-config", false, "Write -backend, -data and -words into the config file")
	flag.Parse()

	if *version {
		showVersion()
		return
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(activePath))

	// explicitly set flags win over the file
	var backendOverride, dataOverride *string
	var wordsOverride *int
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			dataOverride = dataPath
		case "backend":
			backendOverride = backend
		case "words":
			wordsOverride = maxWords
		case "limit":
			cfg.CLI.DefaultLimit = *limit
		case "no-filter":
			cfg.CLI.DefaultNoFilter = *noFilter
		}
	})
	if *saveConfig {
		if activePath == "" {
			log.Fatal("No config file to save to, pass -config")
		}
		err = cfg.Update(activePath, backendOverride, dataOverride, wordsOverride)
	} else {
		err = cfg.Apply(backendOverride, dataOverride, wordsOverride)
	}
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	configDir := ""
	if activePath != "" {
		configDir = filepath.Dir(activePath)
	}
	dict, chunks, err := loadDictionary(cfg, configDir)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}
	runner := cli.NewRunner(dict, cfg.Dict.Backend, cfg.CLI.DefaultLimit)

	switch {
	case *cmdFile != "":
		if err := runBatch(runner, *cmdFile, *outFile); err != nil {
			log.Fatalf("Batch error: %v", err)
		}
	case *cliMode:
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(runner, os.Stdin, os.Stdout, cfg.CLI)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	default:
		log.Debug("spawning IPC")
		srv := server.NewServer(dict, cfg.Dict.Backend, cfg.Server, os.Stdin, os.Stdout)
		if chunks != nil {
			srv.SetRuntimeLoader(chunks)
		}
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}
}

// loadDictionary builds the configured backend from the configured corpus and
// verifies the structure of a freshly built tree. A directory of chunk files also
// returns the runtime loader that manages them.
func loadDictionary(cfg *config.Config, configDir string) (dictionary.Dictionary, *dictionary.RuntimeLoader, error) {
	kind, err := dictionary.ParseKind(cfg.Dict.Backend)
	if err != nil {
		return nil, nil, err
	}
	dict, err := dictionary.New(kind)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Dict.DataPath == "" {
		log.Warn("No data path specified, running with an empty dictionary...")
		return dict, nil, nil
	}

	path := utils.ResolveDataPath(cfg.Dict.DataPath, configDir)
	log.Debugf("Using corpus at: %s", path)

	chunks, err := loadChunks(dict, cfg, path)
	if err != nil {
		return nil, nil, err
	}
	if chunks == nil {
		loader := dictionary.NewLoader(cfg.Dict.MaxWords, cfg.Dict.MaxWordCountValidation)
		pairs, stats, err := loader.Load(path)
		if err != nil {
			return nil, nil, err
		}
		if stats.Skipped > 0 {
			log.Warnf("Skipped %d malformed corpus entries", stats.Skipped)
		}
		if err := dict.Build(pairs); err != nil {
			log.Warnf("Some corpus entries were rejected: %v", err)
		}
		log.Debug("Dictionary ready", "backend", kind, "files", stats.Files, "words", dict.Len())
	}

	if tree, ok := dict.(*tst.Tree); ok {
		if err := tree.Check(); err != nil {
			return nil, nil, err
		}
		log.Debugf("Tree check passed: %d words in %d nodes", tree.Len(), tree.Nodes())
	}
	return dict, chunks, nil
}

// loadChunks fills dict with the fewest chunks of dir that reach max_words, or all
// of them when max_words is 0. It returns nil when path holds no chunk files.
func loadChunks(dict dictionary.Dictionary, cfg *config.Config, path string) (*dictionary.RuntimeLoader, error) {
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return nil, nil
	}
	rl := dictionary.NewRuntimeLoader(dict, dictionary.NewLoader(0, cfg.Dict.MaxWordCountValidation), path)
	options, err := rl.GetDictionarySizeOptions()
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, nil
	}

	target := len(options)
	if cfg.Dict.MaxWords > 0 {
		for _, opt := range options {
			if opt.WordCount >= cfg.Dict.MaxWords {
				target = opt.ChunkCount
				break
			}
		}
	}
	if err := rl.SetDictionarySize(target); err != nil {
		return nil, err
	}
	log.Debug("Dictionary ready", "backend", cfg.Dict.Backend, "chunks", rl.CurrentChunks(), "words", dict.Len())
	return rl, nil
}

func runBatch(runner *cli.Runner, cmdFile, outFile string) error {
	in, err := os.Open(cmdFile)
	if err != nil {
		return err
	}
	defer in.Close()

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	failed, err := runner.RunBatch(in, out)
	if err != nil {
		return err
	}
	if failed > 0 {
		log.Warnf("%d commands failed", failed)
	}
	return nil
}

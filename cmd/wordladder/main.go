// Copyright 2025 The wordladder Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the word ladder server and CLI application.

wordladder finds every shortest chain of dictionary words between two
words, where each step substitutes, inserts or removes one letter:

	cat-> cot-> cog-> dog
	cat-> cot-> dot-> dog
	Distance: 3

# Usage

Run one query and exit:

	wordladder -dict words.txt cat dog

Time every index and finder combination on a query:

	wordladder -dict words.txt -bench cat dog

Start the MessagePack IPC server (the default mode):

	wordladder -dict words.txt -index cache

Run the interactive prompt:

	wordladder -dict words.txt -c

Export the wildcard buckets, then start from them next time:

	wordladder -dict words.txt -export words.wct
	wordladder -dict words.txt -table words.wct cat dog

Report how far a word reaches:

	wordladder -dict words.txt -analyze cat

# Configuration

Defaults are read from a TOML file, created on first run:

	[dict]
	path = "words.txt"
	lenient = false
	wildcard_table = ""

	[search]
	index = "wildcard"   # lazy, wildcard or cache
	finder = "dual"      # single or dual
	workers = 0          # 0 uses every CPU
	max_depth = 0        # 0 is unbounded
	timeout_ms = 5000

	[server]
	max_word_length = 64
	metrics_addr = ""    # e.g. ":9102" serves Prometheus metrics

	[cli]
	show_number = true
	show_distance = true
	repeat = true

WORDLADDER_DICT, WORDLADDER_INDEX, WORDLADDER_FINDER, WORDLADDER_WORKERS,
WORDLADDER_TIMEOUT_MS and WORDLADDER_METRICS_ADDR override the file, and
flags given on the command line override both.

# IPC Protocol

See package server. In short:

	{"id": "q1", "s": "cat", "e": "dog"}
	{"id": "q1", "p": [["cat","cot","cog","dog"], ["cat","cot","dot","dog"]], "c": 2, "d": 3, "t": 412}
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/bastiangx/wordladder/internal/cli"
	"github.com/bastiangx/wordladder/internal/utils"
	"github.com/bastiangx/wordladder/pkg/config"
	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/bastiangx/wordladder/pkg/metrics"
	"github.com/bastiangx/wordladder/pkg/neighbor"
	"github.com/bastiangx/wordladder/pkg/search"
	"github.com/bastiangx/wordladder/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordladder"
	gh      = "https://github.com/bastiangx/wordladder"
)

// fallback word lists tried when neither flag nor config names one
var defaultDicts = []string{"words.txt", "/usr/share/dict/words"}

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

// main only wires packages together and picks the mode.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the interactive prompt")
	configFile := flag.String("config", "", "Path to config.toml")
	dictPath := flag.String("dict", "", "Word list, one word per line")
	lenient := flag.Bool("lenient", false, "Skip malformed dictionary lines instead of failing")
	indexKind := flag.String("index", "", "Neighbor index: lazy, wildcard or cache")
	finderKind := flag.String("finder", "", "Path finder: single or dual")
	workers := flag.Int("workers", 0, "Goroutines for index builds and layer expansion (0 = all CPUs)")
	maxDepth := flag.Int("max-depth", 0, "Give up beyond this many edits (0 = unbounded)")
	timeout := flag.Duration("timeout", 0, "Per-query timeout, e.g. 2s")
	table := flag.String("table", "", "Build the wildcard index from an exported .wct table")
	export := flag.String("export", "", "Write the wildcard table to this .wct file and exit")
	analyze := flag.String("analyze", "", "Report the component and farthest words of a word and exit")
	bench := flag.Bool("bench", false, "Time the query under every index and finder")
	metricsAddr := flag.String("metrics", "", "Serve Prometheus metrics on this address, e.g. :9102")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config.toml with defaults and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [start end]\n", AppName)
		flag.PrintDefaults()
	}
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

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		path, _ := config.GetDefaultConfigPath()
		fmt.Printf("Wrote default config to %s\n", path)
		os.Exit(0)
	}

	cfg, cfgPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(cfgPath))
	cfg.ApplyEnv()

	// Explicitly set flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dict":
			cfg.Dict.Path = *dictPath
		case "lenient":
			cfg.Dict.Lenient = *lenient
		case "table":
			cfg.Dict.WildcardTable = *table
		case "index":
			cfg.Search.Index = *indexKind
		case "finder":
			cfg.Search.Finder = *finderKind
		case "workers":
			cfg.Search.Workers = *workers
		case "max-depth":
			cfg.Search.MaxDepth = *maxDepth
		case "timeout":
			cfg.Search.TimeoutMs = int(timeout.Milliseconds())
		case "metrics":
			cfg.Server.MetricsAddr = *metricsAddr
		}
	})

	var m *metrics.Metrics
	if cfg.Server.MetricsAddr != "" {
		m = metrics.New(nil)
		shutdown := m.StartServer(cfg.Server.MetricsAddr)
		defer shutdown(context.Background())
	}

	store := loadDictionary(cfg.Dict)
	idx := buildIndex(store, cfg, m)

	finder, kind := newFinder(idx, cfg.Search, m)
	ctx := context.Background()

	switch {
	case *export != "":
		exportTable(idx, *export, cfg.Search.Workers)
	case *analyze != "":
		runAnalyze(ctx, idx, *analyze)
	case flag.NArg() == 2 && *bench:
		runBench(ctx, store, cfg, flag.Arg(0), flag.Arg(1))
	case flag.NArg() == 2:
		runOnce(ctx, finder, store, cfg, flag.Arg(0), flag.Arg(1))
	case flag.NArg() != 0:
		flag.Usage()
		os.Exit(2)
	case *cliMode:
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(idx, finder, os.Stdin, os.Stdout, cli.Options{
			Format: search.FormatOptions{
				Number:   cfg.CLI.ShowNumber,
				Distance: cfg.CLI.ShowDistance,
			},
			Repeat:  cfg.CLI.Repeat,
			Timeout: cfg.Search.Timeout(),
			MaxLen:  cfg.Server.MaxWordLength,
		})
		if err := handler.Start(ctx); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	default:
		log.Debug("spawning IPC")
		srv := server.NewServer(idx, server.Options{
			Finder:        kind,
			FinderOptions: finderOptions(cfg.Search),
			Timeout:       cfg.Search.Timeout(),
			MaxWordLength: cfg.Server.MaxWordLength,
			Metrics:       m,
		})
		showStartupInfo(store, idx, kind)
		if err := srv.Start(ctx); err != nil {
			log.Fatalf("Server error: %v", err)
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
	logger.Print("[ wordladder ] Every shortest word ladder, fast!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

func loadDictionary(cfg config.DictConfig) *dictionary.Store {
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	candidates := defaultDicts
	if cfg.Path != "" {
		candidates = []string{cfg.Path}
	}
	var path string
	for _, c := range candidates {
		if path, err = pathResolver.GetDictPath(c); err == nil {
			break
		}
	}
	if err != nil {
		log.Fatalf("Failed to resolve dictionary %v: %v", candidates, err)
	}

	var opts []dictionary.Option
	// System word lists carry proper nouns and apostrophes.
	if cfg.Lenient || cfg.Path == "" {
		opts = append(opts, dictionary.WithLenient())
	}
	start := time.Now()
	store, err := dictionary.LoadFile(path, opts...)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}
	log.Debugf("Loaded %s words from %s in %s",
		utils.FormatWithCommas(store.Len()), path, utils.FormatDuration(time.Since(start)))
	if stats := store.Stats(); stats["skipped"] > 0 {
		log.Warnf("Skipped %d malformed lines in %s", stats["skipped"], path)
	}
	return store
}

func buildIndex(store *dictionary.Store, cfg *config.Config, m *metrics.Metrics) neighbor.Index {
	kind, err := neighbor.ParseKind(cfg.Search.Index)
	if err != nil {
		log.Fatalf("Invalid index: %v", err)
	}

	var opts []neighbor.Option
	if cfg.Search.Workers > 0 {
		opts = append(opts, neighbor.WithWorkers(cfg.Search.Workers))
	}
	if cfg.Dict.WildcardTable != "" {
		if err := dictionary.ValidateFileFormat(cfg.Dict.WildcardTable, dictionary.FormatTable); err != nil {
			log.Fatalf("Invalid wildcard table: %v", err)
		}
		f, err := os.Open(cfg.Dict.WildcardTable)
		if err != nil {
			log.Fatalf("Failed to open wildcard table: %v", err)
		}
		defer f.Close()
		opts = append(opts, neighbor.WithTable(f))
	}

	start := time.Now()
	idx, err := neighbor.New(kind, store, opts...)
	if err != nil {
		log.Fatalf("Failed to build %s index: %v", kind, err)
	}
	elapsed := time.Since(start)
	m.RecordBuild(kind.String(), store.Len(), elapsed)
	log.Debugf("Built %s index in %s", kind, utils.FormatDuration(elapsed))
	return idx
}

func finderOptions(cfg config.SearchConfig) []search.Option {
	opts := []search.Option{search.WithMaxDepth(cfg.MaxDepth)}
	if cfg.Workers > 0 {
		opts = append(opts, search.WithWorkers(cfg.Workers))
	}
	if log.GetLevel() <= log.DebugLevel {
		opts = append(opts, search.WithObserver(func(e search.LayerEvent) {
			log.Debug("layer", "side", e.Side, "depth", e.Depth, "outer", e.Outer, "searched", e.Searched, "took", e.Elapsed)
		}))
	}
	return opts
}

func newFinder(idx neighbor.Index, cfg config.SearchConfig, m *metrics.Metrics) (search.Finder, search.FinderKind) {
	kind, err := search.ParseFinderKind(cfg.Finder)
	if err != nil {
		log.Fatalf("Invalid finder: %v", err)
	}
	opts := finderOptions(cfg)
	if m != nil {
		opts = append(opts, search.WithObserver(m.ObserveLayer))
	}
	finder, err := search.NewFinder(kind, idx, opts...)
	if err != nil {
		log.Fatalf("Failed to create finder: %v", err)
	}
	return finder, kind
}

func runOnce(ctx context.Context, finder search.Finder, store *dictionary.Store, cfg *config.Config, start, end string) {
	if t := cfg.Search.Timeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	began := time.Now()
	from, err := store.Index(utils.NormalizeWord(start))
	if err != nil {
		log.Fatalf("%q: %v", start, err)
	}
	to, err := store.Index(utils.NormalizeWord(end))
	if err != nil {
		log.Fatalf("%q: %v", end, err)
	}
	paths, err := finder.FindPaths(ctx, from, to)
	elapsed := time.Since(began)

	switch {
	case errors.Is(err, search.ErrNoPath):
		fmt.Printf("No path between %s and %s\n", start, end)
		os.Exit(1)
	case err != nil:
		log.Fatalf("Search failed: %v", err)
	}
	fmt.Print(search.FormatPaths(paths, store, search.FormatOptions{
		Number:   cfg.CLI.ShowNumber,
		Distance: cfg.CLI.ShowDistance,
	}))
	log.Debugf("Took [ %s ]", utils.FormatDuration(elapsed))
}

// runBench builds every index kind and times both finders on one query.
func runBench(ctx context.Context, store *dictionary.Store, cfg *config.Config, start, end string) {
	from, err := store.Index(utils.NormalizeWord(start))
	if err != nil {
		log.Fatalf("%q: %v", start, err)
	}
	to, err := store.Index(utils.NormalizeWord(end))
	if err != nil {
		log.Fatalf("%q: %v", end, err)
	}
	workers := cfg.Search.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	fmt.Printf("%-10s %-8s %12s %12s %8s\n", "index", "finder", "build", "search", "paths")
	for _, kind := range []neighbor.Kind{neighbor.KindLazy, neighbor.KindWildcard, neighbor.KindCached} {
		began := time.Now()
		idx, err := neighbor.New(kind, store, neighbor.WithWorkers(workers))
		if err != nil {
			log.Fatalf("Failed to build %s index: %v", kind, err)
		}
		build := time.Since(began)

		for _, fk := range []search.FinderKind{search.FinderSingle, search.FinderDual} {
			finder, _ := search.NewFinder(fk, idx, search.WithWorkers(workers), search.WithMaxDepth(cfg.Search.MaxDepth))
			began := time.Now()
			paths, err := finder.FindPaths(ctx, from, to)
			took := time.Since(began)
			if err != nil && !errors.Is(err, search.ErrNoPath) {
				log.Fatalf("Search failed: %v", err)
			}
			fmt.Printf("%-10s %-8s %12s %12s %8s\n", kind, fk,
				utils.FormatDuration(build), utils.FormatDuration(took), utils.FormatWithCommas(len(paths)))
		}
	}
}

func runAnalyze(ctx context.Context, idx neighbor.Index, word string) {
	store := idx.Store()
	root, err := store.Index(utils.NormalizeWord(word))
	if err != nil {
		log.Fatalf("%q: %v", word, err)
	}
	d, err := search.Eccentricity(ctx, idx, root)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Printf("%s reaches %s words\n", word, utils.FormatWithCommas(d.Reached))
	fmt.Printf("Eccentricity: %d\n", d.Eccentricity)
	for i, w := range d.Farthest {
		fmt.Printf("%4d. %-24s %s shortest paths\n", i+1, store.Word(w), utils.FormatWithCommas(d.PathCounts[i]))
	}
}

func exportTable(idx neighbor.Index, path string, workers int) {
	var wc *neighbor.Wildcard
	switch v := idx.(type) {
	case *neighbor.Wildcard:
		wc = v
	case *neighbor.Cached:
		wc, _ = v.Inner().(*neighbor.Wildcard)
	}
	if wc == nil {
		var err error
		if wc, err = neighbor.NewWildcard(idx.Store(), max(1, workers)); err != nil {
			log.Fatalf("Failed to build wildcard index: %v", err)
		}
	}

	if err := utils.WriteFileWith(path, wc.WriteTable); err != nil {
		log.Fatalf("Failed to export table: %v", err)
	}
	log.Infof("Wrote %s patterns to %s", utils.FormatWithCommas(wc.Buckets()), path)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(store *dictionary.Store, idx neighbor.Index, finder search.FinderKind) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("words: %s (max length %d)", utils.FormatWithCommas(store.Len()), store.MaxLength())
	log.Infof("index: %s, finder: %s", idx.Kind(), finder)
	if c, ok := idx.(*neighbor.Cached); ok {
		log.Infof("edges: %s", utils.FormatWithCommas(c.Edges()))
	}
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}

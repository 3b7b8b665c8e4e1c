// Package main is the Vitrine CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/vitrine/internal/catalog"
	"github.com/hyperjump/vitrine/internal/cli"
	"github.com/hyperjump/vitrine/internal/config"
	"github.com/hyperjump/vitrine/internal/history"
	"github.com/hyperjump/vitrine/internal/keyword"
	"github.com/hyperjump/vitrine/internal/metrics"
	"github.com/hyperjump/vitrine/internal/modal"
	"github.com/hyperjump/vitrine/internal/models"
	"github.com/hyperjump/vitrine/internal/ranking"
	"github.com/hyperjump/vitrine/internal/search"
	"github.com/hyperjump/vitrine/internal/server"
	"github.com/hyperjump/vitrine/internal/storage"
	"github.com/hyperjump/vitrine/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/vitrine/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "suggest":
		runSuggest()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("vitrine version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("debug", debugMode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if cfg.Catalog.Watch {
		if err := components.Catalog.Watch(ctx); err != nil {
			logger.Fatal("Failed to watch catalog", zap.Error(err))
		}
		logger.Info("watching catalog", zap.String("path", cfg.Catalog.Path))
	}

	srv := server.NewServer(
		components.Engine,
		components.Catalog,
		components.History,
		components.Metrics,
		components.Modals,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// printSearchUsage prints search subcommand usage and query syntax hints.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: vitrine search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Query syntax:
  "exact phrase"          match the phrase as a whole
  category:web            filter by category
  tech:react              filter by technology
  featured:true           only featured items (also live:, github:)
  NOT term                exclude items containing term

Examples:
  vitrine search react dashboard
  vitrine search '"design system" tech:react'
  vitrine search -category mobile -tech "react native" tracker
  vitrine search -json vue
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// buildFacets turns search flags into facet filters. An empty featured value
// leaves the facet unset.
func buildFacets(categories, technologies, featured string) (models.Facets, error) {
	facets := models.Facets{
		Categories:   splitList(categories),
		Technologies: splitList(technologies),
	}
	switch strings.ToLower(strings.TrimSpace(featured)) {
	case "":
	case "true", "yes", "1":
		t := true
		facets.Featured = &t
	case "false", "no", "0":
		f := false
		facets.Featured = &f
	default:
		return models.Facets{}, fmt.Errorf("invalid -featured value %q", featured)
	}
	return facets, nil
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func outputFormat(name string, jsonFlag bool) (cli.OutputFormat, error) {
	if jsonFlag {
		return cli.OutputJSON, nil
	}
	switch name {
	case "json":
		return cli.OutputJSON, nil
	case "text", "":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", name)
	}
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = search the catalog directly)")
	limit := fs.Int("limit", 10, "number of results")
	category := fs.String("category", "", "comma-separated categories to filter by")
	tech := fs.String("tech", "", "comma-separated technologies to filter by")
	featured := fs.String("featured", "", "filter by featured flag (true or false)")
	jsonOut := fs.Bool("json", false, "shorthand for -output json")
	output := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := outputFormat(*output, *jsonOut)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	facets, err := buildFacets(*category, *tech, *featured)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	searchQuery := &models.SearchQuery{Query: queryStr, Filters: facets, Limit: *limit}

	var response *models.SearchResponse
	if *serverURL != "" {
		response, err = searchViaHTTP(*serverURL, searchQuery)
	} else {
		response, err = withComponents(*configPath, func(ctx context.Context, c *Components) (*models.SearchResponse, error) {
			return c.Engine.Search(ctx, searchQuery)
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runSuggest() {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use the catalog directly)")
	jsonOut := fs.Bool("json", false, "print JSON")
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	prefix := buildSearchQuery(fs.Args())
	if prefix == "" {
		fmt.Println("Usage: vitrine suggest [flags] <prefix>")
		os.Exit(1)
	}
	format, _ := outputFormat("", *jsonOut)

	var suggestions []keyword.Suggestion
	var err error
	if *serverURL != "" {
		suggestions, err = suggestViaHTTP(*serverURL, prefix)
	} else {
		suggestions, err = withComponents(*configPath, func(_ context.Context, c *Components) ([]keyword.Suggestion, error) {
			return c.Engine.Suggest(prefix), nil
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Suggest failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSuggestions(os.Stdout, suggestions, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	var status map[string]interface{}
	if err := getJSON(*serverURL+"/health", &status); err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(status)
}

// withComponents loads config, builds components, runs fn, and tears down.
func withComponents[T any](configPath string, fn func(context.Context, *Components) (T, error)) (T, error) {
	var zero T
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return zero, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return zero, fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		return zero, err
	}
	defer components.Close()
	return fn(ctx, components)
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func suggestViaHTTP(serverURL, prefix string) ([]keyword.Suggestion, error) {
	var out struct {
		Suggestions []keyword.Suggestion `json:"suggestions"`
	}
	if err := getJSON(serverURL+"/api/v1/suggestions?q="+url.QueryEscape(prefix), &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

func getJSON(u string, v interface{}) error {
	resp, err := http.Get(u)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Components holds initialized services.
type Components struct {
	Store   storage.KV
	Catalog *catalog.Catalog
	History *history.Manager
	Engine  *search.Engine
	Metrics *metrics.Metrics
	Modals  *modal.Controller
}

func (c *Components) Close() {
	if c.Catalog != nil {
		c.Catalog.Close()
	}
	if c.Engine != nil {
		c.Engine.CancelPending()
	}
	if c.Modals != nil {
		c.Modals.CloseAll()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	storeOpts := cfg.Storage.Options()
	storeOpts.Logger = logger
	store, err := storage.Open(storeOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	c := &Components{Store: store, Metrics: metrics.New()}

	catalogOpts := []catalog.Option{
		catalog.WithLogger(logger),
		catalog.WithReloadDebounce(cfg.Catalog.ReloadDebounce()),
	}
	if items, ok := store.(storage.ItemStore); ok {
		catalogOpts = append(catalogOpts, catalog.WithMirror(items))
	}
	c.Catalog = catalog.New(cfg.Catalog.Path, catalogOpts...)
	if err := c.Catalog.Load(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	c.History = history.NewManager(store,
		history.WithNamespace(cfg.History.Namespace),
		history.WithLimits(cfg.History.RecentLimit, cfg.History.HistoryLimit,
			cfg.History.FrequencyLimit, cfg.History.PopularLimit),
		history.WithLogger(logger),
	)

	c.Engine = search.NewEngine(c.Catalog, ranking.NewRanker(&cfg.Search.Ranking),
		search.WithRecorder(c.History),
		search.WithObserver(c.Metrics),
		search.WithHighlighter(search.NewHighlighter(cfg.Search.HighlightOpen, cfg.Search.HighlightClose)),
		search.WithSuggester(keyword.NewSuggester(
			keyword.WithThreshold(cfg.Search.SuggestionThreshold),
			keyword.WithMaxSuggestions(cfg.Search.MaxSuggestions),
		)),
		search.WithDebounce(cfg.Search.Debounce()),
		search.WithMaxResults(cfg.Search.MaxResults),
		search.WithLogger(logger),
	)
	c.Catalog.OnReload(func([]*models.Item) { c.Engine.Refresh() })

	c.Modals = modal.NewController(
		modal.WithMaxModals(cfg.Modal.MaxModals),
		modal.WithBaseStackIndex(cfg.Modal.BaseStackIndex),
		modal.WithObserver(c.Metrics),
		modal.WithLogger(logger),
	)

	logger.Info("components initialized",
		zap.Int("items", c.Catalog.Len()),
		zap.String("catalog", cfg.Catalog.Path),
	)
	return c, nil
}

func printUsage() {
	fmt.Println(`vitrine - Portfolio catalog search

Usage:
  vitrine server [flags]            Start the HTTP server
  vitrine search [flags] <query>    Search the catalog
  vitrine suggest [flags] <prefix>  Suggest titles, technologies and categories
  vitrine status [flags]            Show server health
  vitrine version                   Show version
  vitrine help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/vitrine/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to search the catalog directly.
  --limit int        Number of results (default: 10)
  --category string  Comma-separated categories
  --tech string      Comma-separated technologies
  --featured string  true or false
  --json             Print JSON
  --output string    Output format: text or json (default: text)

Examples:
  vitrine server
  vitrine search react dashboard
  vitrine search --tech vue --json store
  vitrine suggest reac`)
}

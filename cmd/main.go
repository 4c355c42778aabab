// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lexscan/internal/classifier"
	"lexscan/internal/config"
	"lexscan/internal/delegate"
	"lexscan/internal/detector"
	"lexscan/internal/dictionary"
	"lexscan/internal/formatters"
	csvformatter "lexscan/internal/formatters/csv"
	jsonformatter "lexscan/internal/formatters/json"
	textformatter "lexscan/internal/formatters/text"
	yamlformatter "lexscan/internal/formatters/yaml"
	"lexscan/internal/help"
	"lexscan/internal/observability"
	"lexscan/internal/scanner"
	"lexscan/internal/version"

	"golang.org/x/term"
)

func init() {
	formatters.Register(textformatter.NewFormatter())
	formatters.Register(jsonformatter.NewFormatter())
	formatters.Register(yamlformatter.NewFormatter())
	formatters.Register(csvformatter.NewFormatter())
}

func main() {
	inputFile := flag.String("file", "", "Path to the document to scan (.txt, .md, .docx, .pdf, .pptx)")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	profileName := flag.String("profile", "", "Profile name to use from config file")
	listProfiles := flag.Bool("list-profiles", false, "List available profiles in config file")
	dictionaryFile := flag.String("dictionary", "", "Path to restricted-term dictionary (YAML); built-in list if omitted")
	outputFormat := flag.String("format", "", "Output format: text, json, yaml, csv (default: text)")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	verbose := flag.Bool("verbose", false, "Display detailed information for each finding")
	debug := flag.Bool("debug", false, "Enable debug logging of component operations")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	showSkipped := flag.Bool("show-skipped", false, "Include skipped matches in output with skip reasons")
	enableDelegate := flag.Bool("enable-delegate", false, "Enable the external classification endpoint for ambiguous matches")
	enableReview := flag.Bool("review", false, "Ask the delegate for whole-document advisory notes (implies -enable-delegate)")
	timeoutSeconds := flag.Int("timeout", 0, "Overall scan timeout in seconds (0 means no timeout)")
	showHelp := flag.Bool("help", false, "Show help information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}
	if *showHelp {
		help.NewSystem(*noColor).ShowGeneralHelp()
		return
	}

	path := *configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg := config.LoadConfigOrDefault(path)

	if *listProfiles {
		for _, name := range cfg.ListProfiles() {
			profile := cfg.GetProfile(name)
			fmt.Printf("%s: %s\n", name, profile.Description)
		}
		return
	}

	if *profileName != "" {
		if err := cfg.ApplyProfile(*profileName); err != nil {
			fatal(err)
		}
	}

	// Explicit flags override config
	if *outputFormat != "" {
		cfg.Defaults.Format = *outputFormat
	}
	if *verbose {
		cfg.Defaults.Verbose = true
	}
	if *debug {
		cfg.Defaults.Debug = true
	}
	if *noColor {
		cfg.Defaults.NoColor = true
	}
	if *enableDelegate || *enableReview {
		cfg.Delegate.Enabled = true
	}
	if *enableReview {
		cfg.Delegate.Review = true
	}
	if *dictionaryFile != "" {
		cfg.Dictionary.Path = *dictionaryFile
	}

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "error: -file is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := formatters.ValidateFormat(cfg.Defaults.Format); err != nil {
		fatal(err)
	}

	// Auto-disable colors when stdout is not a terminal
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		cfg.Defaults.NoColor = true
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if *timeoutSeconds > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*timeoutSeconds)*time.Second)
		defer cancel()
	}

	result, err := engine.ScanFile(ctx, *inputFile)
	if err != nil {
		fatal(err)
	}

	formatter, _ := formatters.Get(cfg.Defaults.Format)
	rendered, err := formatter.Format(result, formatters.FormatterOptions{
		Verbose:     cfg.Defaults.Verbose,
		NoColor:     cfg.Defaults.NoColor,
		ShowSkipped: *showSkipped,
		SourcePath:  *inputFile,
	})
	if err != nil {
		fatal(err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(rendered), 0o600); err != nil {
			fatal(fmt.Errorf("write output: %w", err))
		}
	} else {
		fmt.Print(rendered)
		if !strings.HasSuffix(rendered, "\n") {
			fmt.Println()
		}
	}

	if result.Total() > 0 {
		os.Exit(1)
	}
}

// buildEngine wires the dictionary, matcher, classifier tiers, and
// observer from the effective configuration.
func buildEngine(cfg *config.Config) (*scanner.Engine, error) {
	dict := dictionary.Default()
	if cfg.Dictionary.Path != "" {
		loaded, err := dictionary.Load(cfg.Dictionary.Path)
		if err != nil {
			return nil, err
		}
		dict = loaded
	}

	matcher := detector.NewMatcher().
		WithSnippetWindow(cfg.Defaults.SnippetBefore, cfg.Defaults.SnippetAfter).
		WithPageSize(cfg.Defaults.PageSizeChars)

	level := observability.ObservabilityOff
	if cfg.Defaults.Debug {
		level = observability.ObservabilityDebug
	}
	observer := observability.NewStandardObserver(level, os.Stderr)

	classifierOpts := []classifier.Option{
		classifier.WithAllowLists(cfg.ContextSensitive),
		classifier.WithObserver(observer),
	}
	if cfg.Entities.Enabled {
		classifierOpts = append(classifierOpts, classifier.WithRecognizer(classifier.NewProseRecognizer()))
	}

	engineOpts := []scanner.EngineOption{
		scanner.WithDictionary(dict),
		scanner.WithMatcher(matcher),
		scanner.WithObserver(observer),
	}

	if cfg.Delegate.Enabled {
		client, err := delegate.NewClient(delegate.Options{
			BaseURL:   cfg.Delegate.BaseURL,
			Model:     cfg.Delegate.Model,
			APIKeyEnv: cfg.Delegate.APIKeyEnv,
			Timeout:   time.Duration(cfg.Delegate.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		classifierOpts = append(classifierOpts, classifier.WithDelegate(client))
		if cfg.Delegate.Review {
			engineOpts = append(engineOpts, scanner.WithReviewer(client))
		}
	}

	engineOpts = append(engineOpts, scanner.WithClassifier(classifier.New(classifierOpts...)))
	return scanner.NewEngine(engineOpts...), nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

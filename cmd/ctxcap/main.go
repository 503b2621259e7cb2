package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ctxcap/ctxcap/pkg/config"
	"github.com/ctxcap/ctxcap/pkg/contexts"
	"github.com/ctxcap/ctxcap/pkg/openapi"
	"github.com/ctxcap/ctxcap/pkg/overrides"
	"github.com/ctxcap/ctxcap/pkg/policies"
	"github.com/ctxcap/ctxcap/pkg/report"
	"github.com/ctxcap/ctxcap/pkg/triggers"
	"github.com/urfave/cli/v2"
)

var version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "ctxcap",
		Version: version,
		Usage:   "Classify GitHub webhook context paths by attacker capability",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ref",
				Usage: "octokit/openapi-webhooks ref to download (branch, tag or SHA)",
			},
			&cli.StringFlag{
				Name:  "spec-file",
				Usage: "Local OpenAPI webhooks document (skips the download)",
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "Context path root the patterns are built under",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format (csv, json, cli)",
			},
			&cli.StringFlag{
				Name:    "output-file",
				Aliases: []string{"f"},
				Usage:   "Output file path (if not specified, prints to stdout)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file path (.ctxcap.yml)",
			},
			&cli.StringSliceFlag{
				Name:  "overrides",
				Usage: "Additional known-safe context list files",
			},
			&cli.BoolFlag{
				Name:  "no-default-overrides",
				Usage: "Disable the built-in known-safe context list",
			},
			&cli.StringFlag{
				Name:    "policy",
				Aliases: []string{"p"},
				Usage:   "Rego policy file or directory to validate the mapping",
			},
		},
		Action: generate,
		Commands: []*cli.Command{
			{
				Name:  "init-policy",
				Usage: "Create an example policy file",
				Action: func(c *cli.Context) error {
					outputPath := c.Args().First()
					if outputPath == "" {
						outputPath = "policies/example.rego"
					}

					fmt.Printf("Creating example policy file at %s...\n", outputPath)
					if err := policies.CreateExamplePolicy(outputPath); err != nil {
						return fmt.Errorf("failed to create example policy: %w", err)
					}

					fmt.Println("Example policy file created successfully!")
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(c *cli.Context) error {
	startTime := time.Now()

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// CLI flags override config
	if ref := c.String("ref"); ref != "" {
		cfg.Source.Ref = ref
		cfg.Source.File = ""
	}
	if specFile := c.String("spec-file"); specFile != "" {
		cfg.Source.File = specFile
	}
	if root := c.String("root"); root != "" {
		cfg.Root = root
	}
	if format := c.String("output"); format != "" {
		cfg.Output.Format = format
	}
	if file := c.String("output-file"); file != "" {
		cfg.Output.File = file
	}
	if files := c.StringSlice("overrides"); len(files) > 0 {
		cfg.Overrides.Files = append(cfg.Overrides.Files, files...)
	}
	if c.Bool("no-default-overrides") {
		cfg.Overrides.DisableDefault = true
	}

	table, err := cfg.ResolveTriggers()
	if err != nil {
		return err
	}

	// Acquire and parse the OpenAPI document
	var doc *openapi.Document
	source := cfg.Source.Ref
	if cfg.Source.File != "" {
		source = cfg.Source.File
		fmt.Fprintf(os.Stderr, "Loading OpenAPI webhooks document from %s...\n", source)
		doc, err = openapi.LoadFile(cfg.Source.File)
	} else {
		fmt.Fprintf(os.Stderr, "Downloading OpenAPI webhooks document (ref=%s)...\n", source)
		doc, err = openapi.NewClient().FetchDocument(cfg.Source.Ref)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "Resolving references and parsing webhook schemas...")
	byKey, err := doc.WebhookSchemas()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Parsed %d webhook payload schemas.\n", len(byKey))

	eventSchemas, err := triggers.BindSchemas(table, byKey)
	if err != nil {
		return err
	}

	schemasCount := 0
	for _, nodes := range eventSchemas {
		schemasCount += len(nodes)
	}
	fmt.Fprintf(os.Stderr, "Walking %d schemas across %d trigger events...\n", schemasCount, len(eventSchemas))

	mapping := contexts.Aggregate(eventSchemas, cfg.Root)

	// Overrides are applied last; they always win.
	if !cfg.Overrides.DisableDefault {
		mapping.Apply(overrides.Default())
	}
	for _, file := range cfg.Overrides.Files {
		patterns, err := overrides.Load(file)
		if err != nil {
			return err
		}
		mapping.Apply(patterns)
	}

	if policyPath := c.String("policy"); policyPath != "" {
		policyFiles, err := policies.LoadPolicyFiles(policyPath)
		if err != nil {
			return fmt.Errorf("failed to load policy files: %w", err)
		}
		engine := policies.NewPolicyEngine(policyFiles)
		violations, err := engine.EvaluateMapping(mapping)
		if err != nil {
			return err
		}
		if len(violations) > 0 {
			for _, v := range violations {
				fmt.Fprintf(os.Stderr, "policy violation [%s] %s (%s)\n", v.ID, v.Description, v.Pattern)
			}
			return fmt.Errorf("%d policy violations; no output written", len(violations))
		}
	}

	result := report.Result{
		Source:       source,
		GeneratedAt:  startTime,
		Duration:     time.Since(startTime),
		EventsCount:  len(eventSchemas),
		SchemasCount: schemasCount,
		Mapping:      mapping,
		Summary:      report.CalculateSummary(mapping),
	}

	generator := report.NewGenerator(result, cfg.Output.Format, cfg.Output.File)
	if err := generator.Generate(); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if cfg.Output.File != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d patterns to %s in %s\n",
			result.Summary.Total, cfg.Output.File, time.Since(startTime).Round(time.Millisecond))
	}

	return nil
}

/*
Copyright 2025 Hare Krishna Rai

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package report serializes the generated pattern→capability mapping.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ctxcap/ctxcap/pkg/capability"
	"github.com/ctxcap/ctxcap/pkg/contexts"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Result is one finished generation run.
type Result struct {
	Source       string           `json:"source"` // git ref or local file
	GeneratedAt  time.Time        `json:"generatedAt"`
	Duration     time.Duration    `json:"duration"`
	EventsCount  int              `json:"eventsCount"`
	SchemasCount int              `json:"schemasCount"`
	Mapping      contexts.Mapping `json:"-"`
	Summary      Summary          `json:"summary"`
}

// Summary counts patterns per capability.
type Summary struct {
	Fixed      int `json:"fixed"`
	Structured int `json:"structured"`
	Arbitrary  int `json:"arbitrary"`
	Total      int `json:"total"`
}

// CalculateSummary tallies the mapping by capability.
func CalculateSummary(mapping contexts.Mapping) Summary {
	var summary Summary
	for _, c := range mapping {
		switch c {
		case capability.Fixed:
			summary.Fixed++
		case capability.Structured:
			summary.Structured++
		case capability.Arbitrary:
			summary.Arbitrary++
		}
	}
	summary.Total = len(mapping)
	return summary
}

// Generator writes a Result in the requested format.
type Generator struct {
	Result   Result
	Format   string
	FilePath string // empty writes to stdout
}

// NewGenerator creates a report generator.
func NewGenerator(result Result, format, filePath string) *Generator {
	return &Generator{
		Result:   result,
		Format:   format,
		FilePath: filePath,
	}
}

// Generate writes the report in the configured format.
func (g *Generator) Generate() error {
	switch strings.ToLower(g.Format) {
	case "csv":
		return g.withOutput(g.writeCSV)
	case "json":
		return g.withOutput(g.writeJSON)
	case "cli":
		return g.writeCLI()
	default:
		return fmt.Errorf("unsupported report format: %s", g.Format)
	}
}

func (g *Generator) withOutput(write func(io.Writer) error) error {
	if g.FilePath == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(g.FilePath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeCSV emits the canonical artifact: pattern,capability rows sorted by
// pattern, so regenerated files diff cleanly.
func (g *Generator) writeCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	for _, pattern := range g.Result.Mapping.Patterns() {
		if err := writer.Write([]string{pattern, g.Result.Mapping[pattern].String()}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (g *Generator) writeJSON(w io.Writer) error {
	patterns := make(map[string]string, len(g.Result.Mapping))
	for pattern, c := range g.Result.Mapping {
		patterns[pattern] = c.String()
	}

	doc := struct {
		Source      string            `json:"source"`
		GeneratedAt time.Time         `json:"generatedAt"`
		Summary     Summary           `json:"summary"`
		Patterns    map[string]string `json:"patterns"`
	}{
		Source:      g.Result.Source,
		GeneratedAt: g.Result.GeneratedAt,
		Summary:     g.Result.Summary,
		Patterns:    patterns,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// writeCLI prints a human-readable summary instead of the full mapping.
func (g *Generator) writeCLI() error {
	titleStyle := color.New(color.FgHiCyan, color.Bold)
	infoStyle := color.New(color.FgBlue)
	arbitraryStyle := color.New(color.FgHiRed, color.Bold)
	structuredStyle := color.New(color.FgYellow)
	fixedStyle := color.New(color.FgGreen)

	fmt.Println()
	titleStyle.Println("CONTEXT CAPABILITY SUMMARY")
	infoStyle.Printf("Source: %s\n", g.Result.Source)
	infoStyle.Printf("Events: %d  Schemas: %d  Duration: %s\n\n",
		g.Result.EventsCount, g.Result.SchemasCount, g.Result.Duration.Round(time.Millisecond))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Capability", "Patterns"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Append([]string{"arbitrary", fmt.Sprintf("%d", g.Result.Summary.Arbitrary)})
	table.Append([]string{"structured", fmt.Sprintf("%d", g.Result.Summary.Structured)})
	table.Append([]string{"fixed", fmt.Sprintf("%d", g.Result.Summary.Fixed)})
	table.SetFooter([]string{"total", fmt.Sprintf("%d", g.Result.Summary.Total)})
	table.Render()

	// A handful of arbitrary patterns is the part operators actually read:
	// these are the injection candidates.
	fmt.Println()
	arbitraryStyle.Println("Sample attacker-controllable patterns:")
	shown := 0
	for _, pattern := range g.Result.Mapping.Patterns() {
		if g.Result.Mapping[pattern] != capability.Arbitrary {
			continue
		}
		fmt.Printf("  %s\n", pattern)
		shown++
		if shown == 10 {
			break
		}
	}
	if g.Result.Summary.Arbitrary > shown {
		infoStyle.Printf("  ... and %d more\n", g.Result.Summary.Arbitrary-shown)
	}

	fmt.Println()
	fixedStyle.Printf("%d fixed  ", g.Result.Summary.Fixed)
	structuredStyle.Printf("%d structured  ", g.Result.Summary.Structured)
	arbitraryStyle.Printf("%d arbitrary\n", g.Result.Summary.Arbitrary)

	return nil
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"text/tabwriter"

	"lexscan/internal/dictionary"
	"lexscan/internal/formatters"

	"github.com/fatih/color"
)

// System renders CLI help screens.
type System struct {
	colors map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}
	return &System{
		colors: map[string]*color.Color{
			"title":   color.New(color.FgWhite, color.Bold),
			"header":  color.New(color.FgBlue, color.Bold),
			"item":    color.New(color.FgCyan),
			"example": color.New(color.FgMagenta),
		},
	}
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Println("lexscan - Restricted Term Document Scanner")
	fmt.Println("==========================================")
	fmt.Println()
	h.colors["header"].Println("USAGE:")
	fmt.Println("  lexscan -file <path-to-document> [options]")
	fmt.Println()

	h.colors["header"].Println("OPTIONS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  -file\t<path>\tPath to the document to scan: .txt, .md, .docx, .pdf, .pptx (required)")
	fmt.Fprintln(w, "  -config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  -profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  -list-profiles\t\tList available profiles in config file")
	fmt.Fprintln(w, "  -dictionary\t<path>\tPath to restricted-term dictionary (YAML); built-in list if omitted")
	fmt.Fprintln(w, "  -format\t<format>\tOutput format: text, json, yaml, csv (default: text)")
	fmt.Fprintln(w, "  -output\t<path>\tWrite output to a file instead of stdout")
	fmt.Fprintln(w, "  -show-skipped\t\tInclude skipped matches with their skip reasons")
	fmt.Fprintln(w, "  -enable-delegate\t\tConsult the external classifier for ambiguous matches")
	fmt.Fprintln(w, "  -review\t\tAsk the delegate for whole-document advisory notes")
	fmt.Fprintln(w, "  -timeout\t<seconds>\tOverall scan timeout (0 means no timeout)")
	fmt.Fprintln(w, "  -verbose\t\tDisplay detailed information for each finding")
	fmt.Fprintln(w, "  -no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  -version\t\tShow version information")
	w.Flush()
	fmt.Println()

	h.showFormats()
	h.showDictionary()

	h.colors["header"].Println("EXAMPLES:")
	h.colors["example"].Println("  lexscan -file proposal.docx")
	h.colors["example"].Println("  lexscan -file paper.pdf -format json -output findings.json")
	h.colors["example"].Println("  lexscan -file deck.pptx -enable-delegate -show-skipped")
	h.colors["example"].Println("  lexscan -file notes.md -profile offline")
	fmt.Println()
}

// showFormats lists the registered output formats.
func (h *System) showFormats() {
	h.colors["header"].Println("OUTPUT FORMATS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range formatters.List() {
		formatter, _ := formatters.Get(name)
		fmt.Fprintf(w, "  %s\t%s\n", h.colors["item"].Sprint(name), formatter.Description())
	}
	w.Flush()
	fmt.Println()
}

// showDictionary lists the built-in restricted terms.
func (h *System) showDictionary() {
	h.colors["header"].Println("BUILT-IN DICTIONARY:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, term := range dictionary.Default().Terms() {
		fmt.Fprintf(w, "  %s\t", h.colors["item"].Sprint(term.Phrase))
		for i, replacement := range term.Replacements {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, replacement)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	fmt.Println()
}

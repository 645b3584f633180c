// Package main generates a single markdown file documenting every chiptune command.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chiptune-stack/chiptune/cmd/cli/cmd"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func main() {
	var outFile string
	flag.StringVar(&outFile, "out", "./docs/CLI.md", "output file for generated markdown")
	flag.Parse()

	if outFile == "" {
		log.Fatal("error: output file is required")
	}
	if err := writeFile(outFile); err != nil {
		log.Fatalf("error: %s", err)
	}
}

func writeFile(outFile string) error {
	if err := os.MkdirAll(filepath.Dir(outFile), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(filepath.Clean(outFile))
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: error closing file: %v", closeErr)
		}
	}()

	w := bufio.NewWriter(file)
	root := cmd.RootCmd()
	root.DisableAutoGenTag = true

	fmt.Fprintln(w, "# chiptune CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Every command, its flags and examples.")
	fmt.Fprintln(w)
	if err := writeCommand(w, root, 2); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", outFile, err)
	}

	log.Printf("generated CLI documentation in %s", outFile)
	return nil
}

func writeCommand(w io.Writer, c *cobra.Command, level int) error {
	if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
		return nil
	}

	fmt.Fprintf(w, "%s %s\n\n", strings.Repeat("#", level), c.CommandPath())
	if c.Short != "" {
		fmt.Fprintf(w, "%s\n\n", c.Short)
	}
	if c.Long != "" && c.Long != c.Short {
		fmt.Fprintf(w, "%s\n\n", c.Long)
	}
	if c.Example != "" {
		fmt.Fprintf(w, "**Examples:**\n\n```bash\n%s\n```\n\n", c.Example)
	}

	var buf bytes.Buffer
	if err := doc.GenMarkdown(c, &buf); err != nil {
		return fmt.Errorf("generating markdown for %s: %w", c.CommandPath(), err)
	}
	if options := optionsSection(buf.String()); options != "" {
		fmt.Fprintf(w, "%s\n\n", options)
	}

	children := c.Commands()
	sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })
	for _, child := range children {
		if err := writeCommand(w, child, level+1); err != nil {
			return err
		}
	}
	return nil
}

// optionsSection returns the flag tables of a generated page, without the "SEE ALSO" links.
func optionsSection(markdown string) string {
	start := strings.Index(markdown, "### Options")
	if start < 0 {
		return ""
	}
	section := markdown[start:]
	if end := strings.Index(section, "### SEE ALSO"); end > 0 {
		section = section[:end]
	}
	return strings.TrimSpace(section)
}

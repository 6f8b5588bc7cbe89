// Command splitcat prints the chunks of its input, one per line.
//
//	splitcat -length 3 notes.txt
//	echo "hello world" | splitcat -tokenizer words -filters split
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dshills/splitindex/internal/analysis"
	"github.com/dshills/splitindex/pkg/types"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("splitcat: ")

	// A missing .env file is fine
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run parses args, analyzes every input and writes the chunks to out
func run(args []string, stdin io.Reader, out io.Writer) error {
	defaults, err := analysis.SettingsFromEnv()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("splitcat", flag.ContinueOnError)
	config := fs.String("config", "", "YAML analyzer settings file")
	length := fs.Int("length", defaults.Length, "characters per chunk")
	tokenizer := fs.String("tokenizer", defaults.Tokenizer, "tokenizer: split or words")
	filters := fs.String("filters", strings.Join(defaults.Filters, ","), "comma separated filters")
	byteOffsets := fs.Bool("bytes", false, "report UTF-8 byte offsets")
	asJSON := fs.Bool("json", false, "write one JSON object per chunk")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings := defaults
	if *config != "" {
		if settings, err = analysis.LoadSettings(*config); err != nil {
			return err
		}
	}

	// Flags given on the command line override the settings file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "length":
			settings.Length = *length
		case "tokenizer":
			settings.Tokenizer = strings.ToLower(*tokenizer)
		case "filters":
			settings.Filters = parseFilters(*filters)
		}
	})

	analyzer, err := analysis.NewAnalyzer(settings)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	defer func() { _ = w.Flush() }()

	if fs.NArg() == 0 {
		return cat(analyzer, "-", stdin, *byteOffsets, *asJSON, w)
	}
	for _, path := range fs.Args() {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = cat(analyzer, path, f, *byteOffsets, *asJSON, w)
		_ = f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// parseFilters splits a comma separated filter list
func parseFilters(list string) []string {
	var out []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, strings.ToLower(name))
		}
	}
	return out
}

// record is the JSON form of one chunk
type record struct {
	Source string `json:"source"`
	Text   string `json:"text"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

func cat(analyzer *analysis.Analyzer, source string, r io.Reader, byteOffsets, asJSON bool, w io.Writer) error {
	var opts []analysis.TokenizerOption
	if byteOffsets {
		content, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
		r = bytes.NewReader(content)
		opts = append(opts, analysis.WithOffsetCorrector(analysis.ByteOffsets(string(content))))
	}

	stream, err := analyzer.Analyze(r, opts...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	for {
		tok, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
		if asJSON {
			if err := enc.Encode(record{Source: source, Text: tok.Text, Start: tok.Start, End: tok.End}); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(w, format(tok)); err != nil {
			return err
		}
	}
}

// format renders a chunk as start, end and quoted text separated by tabs
func format(tok types.Token) string {
	return fmt.Sprintf("%d\t%d\t%q", tok.Start, tok.End, tok.Text)
}

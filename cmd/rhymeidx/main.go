// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command rhymeidx builds binary rhyme indexes (.rix) from dictionary sources.
//
//	rhymeidx -o data/de.rix de-wiktionary.tsv de-extra.tsv
//	rhymeidx data/en.tsv            # writes data/en.rix
//	rhymeidx -info data/de.rix
//
// Several sources are merged into one index, in the order given.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/rhymeserve/pkg/dictionary"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var labelStyle = lipgloss.NewStyle().Bold(true).Width(10)

func main() {
	output := flag.String("o", "", "Output index file (default: first source with .rix extension)")
	compress := flag.Bool("z", true, "zstd-compress the index")
	validate := flag.Bool("validate", true, "Validate the index after building")
	info := flag.String("info", "", "Print statistics about an existing index and exit")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: rhymeidx [flags] source.tsv [source.tsv ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
	}

	if *info != "" {
		if err := printInfo(*info); err != nil {
			log.Fatalf("Failed to read %s: %v", *info, err)
		}
		return
	}

	sources := flag.Args()
	if len(sources) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	out := *output
	if out == "" {
		out = strings.TrimSuffix(sources[0], filepath.Ext(sources[0])) + dictionary.IndexExt
	}

	start := time.Now()
	idx, stats, err := dictionary.BuildFiles(sources...)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}
	log.Debugf("Built %d entries in %v", idx.Len(), time.Since(start))

	if *validate {
		if err := idx.Validate(); err != nil {
			log.Fatalf("Built index is inconsistent: %v", err)
		}
	}
	if err := dictionary.SaveIndex(out, idx, *compress); err != nil {
		log.Fatalf("Failed to write %s: %v", out, err)
	}

	fi, err := os.Stat(out)
	if err != nil {
		log.Fatalf("Failed to stat %s: %v", out, err)
	}
	printRow("index", out)
	printRow("lines", stats.Lines)
	printRow("entries", idx.Len())
	printRow("rejected", stats.Rejected)
	printRow("size", fmt.Sprintf("%d bytes", fi.Size()))
	printRow("took", time.Since(start).Round(time.Millisecond))
}

func printInfo(path string) error {
	start := time.Now()
	idx, err := dictionary.LoadIndex(path, true)
	if err != nil {
		return err
	}
	format, _ := dictionary.DetectFileFormat(path)
	printRow("index", path)
	printRow("format", format)
	printRow("entries", idx.Len())
	printRow("load", time.Since(start).Round(time.Microsecond))
	return nil
}

func printRow(label string, value any) {
	fmt.Println(labelStyle.Render(label), value)
}

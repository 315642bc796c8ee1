// Package cli handles cmd line input for looking up rhymes interactively, for debugging and
// testing dictionaries
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/rhymeserve/internal/utils"
	"github.com/bastiangx/rhymeserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

const maxWordLength = 64

// InputHandler reads words from the input and prints their rhymes. Lines starting with ':'
// are commands, see :help.
type InputHandler struct {
	rhymer       suggest.IRhymer
	in           io.Reader
	out          io.Writer
	syllables    int
	maxSyllables int
	limit        int
	noFilter     bool
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(rhymer suggest.IRhymer, in io.Reader, out io.Writer, syllables, maxSyllables, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		rhymer:       rhymer,
		in:           in,
		out:          out,
		syllables:    syllables,
		maxSyllables: maxSyllables,
		limit:        limit,
		noFilter:     noFilter,
	}
}

// Start begins the interface loop. It returns nil when the input ends or on :q.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, titleStyle.Render("RhymeServe CLI"))
	fmt.Fprintln(h.out, hintStyle.Render("type a word and press Enter to see its rhymes, :help for commands (Ctrl+C to exit)"))

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, promptStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !h.handleInput(line) {
			return nil
		}
	}
}

// handleInput processes one line, returning false when the user asked to quit
func (h *InputHandler) handleInput(line string) bool {
	h.requestCount++
	if !strings.HasPrefix(line, ":") {
		h.rhyme(line)
		return true
	}

	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "q", "quit", "exit":
		return false
	case "help", "h":
		fmt.Fprint(h.out, helpText)
	case "syl":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > h.maxSyllables {
			log.Errorf("Syllables must be a number between 1 and %d", h.maxSyllables)
			return true
		}
		h.syllables = n
		fmt.Fprintf(h.out, "syllables set to %d\n", n)
	case "limit":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			log.Errorf("Limit must be a positive number")
			return true
		}
		h.limit = n
		fmt.Fprintf(h.out, "limit set to %d\n", n)
	case "suffix":
		if h.accept(arg) {
			h.suffix(arg)
		}
	case "lookup":
		if h.accept(arg) {
			h.lookup(arg)
		}
	case "complete":
		if arg != "" {
			h.complete(arg)
		}
	case "dict":
		h.dictionaries(arg)
	case "stats":
		h.stats()
	default:
		log.Errorf("Unknown command :%s, try :help", cmd)
	}
	return true
}

// accept validates a word unless filtering is off
func (h *InputHandler) accept(word string) bool {
	if word == "" {
		log.Errorf("Missing word")
		return false
	}
	if utf8.RuneCountInString(word) > maxWordLength {
		log.Errorf("Word too long: %s", word)
		return false
	}
	if h.noFilter {
		log.Debug("Input filtering disabled - allowing all inputs")
		return true
	}
	if !utils.IsValidInput(word) {
		log.Warnf("Not a word: '%s' (filtered out)", word)
		return false
	}
	return true
}

func (h *InputHandler) rhyme(word string) {
	if !h.accept(word) {
		return
	}
	start := time.Now()
	res := h.rhymer.Rhyme(word, h.syllables, h.limit)
	log.Debugf("Took %v for '%s'", time.Since(start), word)

	if len(res.Words) == 0 {
		log.Warnf("'%s' is not in any active dictionary", word)
		return
	}
	if res.Empty() {
		log.Warnf("No rhymes found for '%s'", word)
		return
	}
	renderResult(h.out, res)
}

func (h *InputHandler) suffix(suffix string) {
	g := h.rhymer.Suffix(suffix, h.limit)
	if len(g.Words) == 0 {
		log.Warnf("No words end in '%s'", suffix)
		return
	}
	renderGroup(h.out, g)
}

func (h *InputHandler) lookup(word string) {
	words := h.rhymer.Lookup(word)
	if len(words) == 0 {
		log.Warnf("'%s' is not in any active dictionary", word)
		return
	}
	renderWords(h.out, words)
}

func (h *InputHandler) complete(prefix string) {
	suggestions := h.rhymer.Complete(prefix, h.limit)
	if len(suggestions) == 0 {
		log.Warnf("No completions found for prefix: '%s'", prefix)
		return
	}
	for i, s := range suggestions {
		fmt.Fprintf(h.out, "%2d. %-30s (freq: %8s)\n", i+1, wordStyle.Render(s.Word), formatWithCommas(s.Frequency))
	}
}

// dictionaries lists the dictionaries, or toggles one with "on <name>" / "off <name>"
func (h *InputHandler) dictionaries(arg string) {
	reg := h.rhymer.Registry()
	action, name, _ := strings.Cut(arg, " ")
	var err error
	switch action {
	case "":
	case "on":
		err = reg.Enable(strings.TrimSpace(name))
	case "off":
		err = reg.Disable(strings.TrimSpace(name))
	default:
		log.Errorf("Usage: :dict [on|off <name>]")
		return
	}
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	for _, src := range reg.List() {
		state := enabledStyle.Render("on ")
		if !src.Enabled {
			state = disabledStyle.Render("off")
		}
		fmt.Fprintf(h.out, "%s %-16s %10s entries  %s\n", state, src.Name, formatWithCommas(int64(src.Index.Len())), hintStyle.Render(src.Path))
	}
}

func (h *InputHandler) stats() {
	stats := h.rhymer.Stats()
	for _, key := range []string{"sources", "activeSources", "totalWords", "cacheSize", "cacheHits", "cacheMisses"} {
		fmt.Fprintf(h.out, "%-14s %s\n", key, formatWithCommas(int64(stats[key])))
	}
	fmt.Fprintf(h.out, "%-14s %d\n", "requests", h.requestCount)
}

const helpText = `commands:
  <word>            rhymes of word
  :syl <n>          syllables to match
  :limit <n>        words per group
  :suffix <s>       words ending in s
  :lookup <word>    pronunciations of word
  :complete <p>     spellings starting with p
  :dict [on|off n]  list or toggle dictionaries
  :stats            engine statistics
  :q                quit
`

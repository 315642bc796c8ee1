package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bastiangx/rhymeserve/pkg/rhyme"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	groupStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	favoriteStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	wordStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	enabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func renderResult(w io.Writer, res rhyme.SearchResult) {
	var phon []string
	for _, word := range res.Words {
		phon = append(phon, "/"+word.Phonetic+"/")
	}
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render(res.Query), hintStyle.Render(strings.Join(phon, " ")))
	for _, g := range res.Groups {
		renderGroup(w, g)
	}
	for _, g := range res.Extensions {
		renderGroup(w, g)
	}
}

func renderGroup(w io.Writer, g rhyme.WordGroup) {
	header := groupStyle.Render(g.Label)
	if g.Favorite {
		header = favoriteStyle.Render(g.Label + " *")
	}
	fmt.Fprintf(w, "%s %s\n", header, hintStyle.Render(fmt.Sprintf("(%d)", len(g.Words))))
	renderWords(w, g.Words)
}

func renderWords(w io.Writer, words []rhyme.Word) {
	for i, word := range words {
		fmt.Fprintf(w, "  %2d. %-30s %-24s (freq: %8s)\n", i+1, wordStyle.Render(word.Spelling), "/"+word.Phonetic+"/", formatWithCommas(word.Frequency))
	}
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int64) string {
	str := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, str = "-", str[1:]
	}
	if len(str) <= 3 {
		return sign + str
	}
	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return sign + b.String()
}

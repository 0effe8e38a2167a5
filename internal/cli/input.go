// Package cli is the interactive prompt for running ladder queries by hand.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/wordladder/internal/utils"
	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/bastiangx/wordladder/pkg/neighbor"
	"github.com/bastiangx/wordladder/pkg/search"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	wordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

// ErrBadQuery is returned by ParseQuery for lines that are not one or two words.
var ErrBadQuery = errors.New("cli: expected \"start end\" or a single word")

// Options controls the prompt.
type Options struct {
	Format  search.FormatOptions
	Repeat  bool
	Timeout time.Duration
	MaxLen  int
}

// InputHandler reads queries line by line and prints the ladders found.
// A line with two words runs a path query; a line with one word lists its
// neighbors.
type InputHandler struct {
	idx    neighbor.Index
	store  *dictionary.Store
	finder search.Finder
	opts   Options

	in  io.Reader
	out io.Writer

	requestCount int
}

// NewInputHandler creates a handler reading from in and printing results to out.
func NewInputHandler(idx neighbor.Index, finder search.Finder, in io.Reader, out io.Writer, opts Options) *InputHandler {
	return &InputHandler{
		idx:    idx,
		store:  idx.Store(),
		finder: finder,
		opts:   opts,
		in:     in,
		out:    out,
	}
}

// Start begins the prompt loop. It returns nil when input ends, or after the
// first query when Repeat is off.
func (h *InputHandler) Start(ctx context.Context) error {
	log.Print(titleStyle.Render("wordladder CLI"))
	log.Print("type two words and press Enter to see every shortest ladder, or one word for its neighbors (Ctrl+C to exit):")
	reader := bufio.NewReader(h.in)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		h.handleInput(ctx, line)
		if !h.opts.Repeat || err != nil {
			return nil
		}
	}
}

// ParseQuery splits a prompt line into its words. Words may be separated by
// spaces, commas or an arrow ("cat -> dog"). end is empty for one-word lines.
func ParseQuery(line string) (start, end string, err error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '-' || r == '>'
	})
	switch len(fields) {
	case 1:
		return utils.NormalizeWord(fields[0]), "", nil
	case 2:
		return utils.NormalizeWord(fields[0]), utils.NormalizeWord(fields[1]), nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrBadQuery, line)
	}
}

func (h *InputHandler) handleInput(ctx context.Context, line string) {
	h.requestCount++
	start, end, err := ParseQuery(line)
	if err != nil {
		log.Error(err)
		return
	}
	for _, w := range []string{start, end} {
		if w != "" && !utils.IsValidWord(w, h.opts.MaxLen) {
			log.Errorf("Invalid word: %s", w)
			return
		}
	}

	if end == "" {
		h.printNeighbors(start)
		return
	}

	if h.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.Timeout)
		defer cancel()
	}

	log.Debug("Processing path request", "start", start, "end", end)
	began := time.Now()
	paths, err := h.findPaths(ctx, start, end)
	elapsed := time.Since(began)
	log.Debugf("Took [ %s ] for '%s' -> '%s'", utils.FormatDuration(elapsed), start, end)

	switch {
	case errors.Is(err, search.ErrNoPath):
		log.Warnf("No ladder joins '%s' and '%s'", start, end)
	case err != nil:
		log.Error(err)
	default:
		log.Printf("Found %s shortest ladders from %s to %s:",
			utils.FormatWithCommas(len(paths)), wordStyle.Render(start), wordStyle.Render(end))
		fmt.Fprint(h.out, search.FormatPaths(paths, h.store, h.opts.Format))
	}
}

func (h *InputHandler) findPaths(ctx context.Context, start, end string) ([]search.Path, error) {
	from, ok := h.lookup(start)
	if !ok {
		return nil, fmt.Errorf("unknown word %q", start)
	}
	to, ok := h.lookup(end)
	if !ok {
		return nil, fmt.Errorf("unknown word %q", end)
	}
	return h.finder.FindPaths(ctx, from, to)
}

// lookup resolves word, logging close dictionary words when it is missing:
// those one edit away first, then those sharing all but its last letter.
func (h *InputHandler) lookup(word string) (dictionary.WordIndex, bool) {
	i, err := h.store.Index(word)
	if err == nil {
		return i, true
	}
	similar := utils.NewSuggestionFilter(word, 5)
	if similar.Add(neighbor.Near(h.store, word, 5)...) && len(word) > 1 {
		similar.Add(h.store.WithPrefix(word[:len(word)-1], 5)...)
	}
	if len(similar.Words()) > 0 {
		log.Infof("'%s' is not in the dictionary. Did you mean: %s", word, strings.Join(similar.Words(), ", "))
	}
	return 0, false
}

func (h *InputHandler) printNeighbors(word string) {
	i, ok := h.lookup(word)
	if !ok {
		log.Errorf("unknown word %q", word)
		return
	}
	found := h.idx.Neighbors(i)
	log.Printf("Found %d neighbors for '%s':", len(found), wordStyle.Render(word))
	for j, n := range found {
		fmt.Fprintf(h.out, "%2d. %s\n", j+1, h.store.Word(n))
	}
}

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordladder/internal/logger"
	"github.com/bastiangx/wordladder/internal/utils"
	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/bastiangx/wordladder/pkg/metrics"
	"github.com/bastiangx/wordladder/pkg/neighbor"
	"github.com/bastiangx/wordladder/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Options configures a Server.
type Options struct {
	// Finder answers requests that do not name one.
	Finder search.FinderKind
	// FinderOptions are passed to every finder the server builds.
	FinderOptions []search.Option
	// Timeout bounds each path query. 0 disables it.
	Timeout time.Duration
	// MaxWordLength rejects longer query words before lookup. 0 disables it.
	MaxWordLength int
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Server answers ladder queries over a msgpack stream.
type Server struct {
	store   *dictionary.Store
	idx     neighbor.Index
	finders map[search.FinderKind]search.Finder
	opts    Options

	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
	logger *log.Logger

	requestCount int
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(idx neighbor.Index, opts Options) *Server {
	return NewServerIO(idx, os.Stdin, os.Stdout, opts)
}

// NewServerIO creates a server reading requests from r and writing
// responses to w.
func NewServerIO(idx neighbor.Index, r io.Reader, w io.Writer, opts Options) *Server {
	finderOpts := opts.FinderOptions
	if opts.Metrics != nil {
		finderOpts = append(finderOpts[:len(finderOpts):len(finderOpts)], search.WithObserver(opts.Metrics.ObserveLayer))
	}
	return &Server{
		store: idx.Store(),
		idx:   idx,
		finders: map[search.FinderKind]search.Finder{
			search.FinderSingle: search.NewSingleSided(idx, finderOpts...),
			search.FinderDual:   search.NewDualSided(idx, finderOpts...),
		},
		opts:   opts,
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
		logger: logger.New("server"),
	}
}

// Start sends the ready status, then serves requests until the input ends
// or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting Server.")
	s.sendResponse(s.info("", "ready"))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// One value is consumed whole, so a request with mistyped fields
		// cannot desync the stream.
		var raw msgpack.RawMessage
		if err := s.dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return err
		}
		s.requestCount++

		var req request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.logger.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "Invalid msgpack request", CodeBadRequest)
			continue
		}
		s.handleRequest(ctx, req)
	}
}

func (s *Server) handleRequest(ctx context.Context, req request) {
	switch req.Action {
	case "", "path":
		s.handlePath(ctx, req)
	case "neighbors":
		s.handleNeighbors(req)
	case "info":
		s.sendResponse(s.info(req.ID, "ok"))
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), CodeBadRequest)
	}
}

func (s *Server) handlePath(ctx context.Context, req request) {
	kind := s.opts.Finder
	if req.Finder != "" {
		k, err := search.ParseFinderKind(req.Finder)
		if err != nil {
			s.sendError(req.ID, err.Error(), CodeBadRequest)
			return
		}
		kind = k
	}
	startWord, endWord := utils.NormalizeWord(req.Start), utils.NormalizeWord(req.End)
	if !s.validWord(req.ID, "s", startWord) || !s.validWord(req.ID, "e", endWord) {
		return
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	paths, err := search.FindWords(ctx, s.finders[kind], s.store, startWord, endWord)
	elapsed := time.Since(start)

	if err != nil {
		code, result := classify(err)
		s.opts.Metrics.RecordQuery(kind.String(), result, elapsed, 0, 0)
		s.logger.Debugf("Path %s -> %s failed after %v: %v", startWord, endWord, elapsed, err)
		s.sendError(req.ID, err.Error(), code)
		return
	}

	distance := len(paths[0]) - 1
	s.opts.Metrics.RecordQuery(kind.String(), metrics.ResultFound, elapsed, len(paths), distance)
	s.logger.Debugf("Path %s -> %s: %d paths of %d edits in %s", startWord, endWord, len(paths), distance, utils.FormatDuration(elapsed))
	s.sendResponse(PathResponse{
		ID:        req.ID,
		Paths:     paths,
		Count:     len(paths),
		Distance:  distance,
		TimeTaken: elapsed.Microseconds(),
	})
}

// classify maps a search error onto a response code and metrics result.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, dictionary.ErrWordNotFound):
		return CodeNotFound, metrics.ResultNotFound
	case errors.Is(err, search.ErrNoPath):
		return CodeNoPath, metrics.ResultNoPath
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout, metrics.ResultTimeout
	default:
		return CodeInternal, metrics.ResultError
	}
}

func (s *Server) validWord(id, field, word string) bool {
	if word == "" {
		s.sendError(id, fmt.Sprintf("Missing '%s' parameter", field), CodeBadRequest)
		return false
	}
	if !utils.IsValidWord(word, s.opts.MaxWordLength) {
		s.sendError(id, fmt.Sprintf("Invalid word %q", word), CodeBadRequest)
		return false
	}
	return true
}

func (s *Server) handleNeighbors(req request) {
	word := utils.NormalizeWord(req.Word)
	if !s.validWord(req.ID, "w", word) {
		return
	}
	i, err := s.store.Index(word)
	if err != nil {
		s.sendError(req.ID, err.Error(), CodeNotFound)
		return
	}

	found := s.idx.Neighbors(i)
	words := make([]string, len(found))
	for j, n := range found {
		words[j] = s.store.Word(n)
	}
	s.sendResponse(NeighborResponse{
		ID:        req.ID,
		Word:      word,
		Neighbors: words,
		Count:     len(words),
	})
}

func (s *Server) info(id, status string) InfoResponse {
	return InfoResponse{
		ID:        id,
		Status:    status,
		Words:     s.store.Len(),
		MaxLength: s.store.MaxLength(),
		Index:     s.idx.Kind().String(),
		Finder:    s.opts.Finder.String(),
		Requests:  s.requestCount,
	}
}

// sendResponse encodes one msgpack value onto the output stream.
func (s *Server) sendResponse(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(PathError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}

package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/rhymeserve/internal/logger"
	"github.com/bastiangx/rhymeserve/internal/utils"
	"github.com/bastiangx/rhymeserve/pkg/config"
	"github.com/bastiangx/rhymeserve/pkg/dictionary"
	"github.com/bastiangx/rhymeserve/pkg/rhyme"
	"github.com/bastiangx/rhymeserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	maxWordLen = 64

	codeBadRequest = 400
	codeNotFound   = 404
	codeInternal   = 500
)

// Server handles the IPC for rhyme queries
type Server struct {
	rhymer suggest.IRhymer
	loader *dictionary.Loader
	config *config.Config

	dec    *msgpack.Decoder
	out    *bufio.Writer
	enc    *msgpack.Encoder
	logger *log.Logger

	requestCount int
}

// NewServer creates a server using stdin/stdout for IPC. loader may be nil, which disables the
// reload action.
func NewServer(rhymer suggest.IRhymer, loader *dictionary.Loader, cfg *config.Config) *Server {
	return NewServerWithIO(rhymer, loader, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing responses to w
func NewServerWithIO(rhymer suggest.IRhymer, loader *dictionary.Loader, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out := bufio.NewWriter(w)
	return &Server{
		rhymer: rhymer,
		loader: loader,
		config: cfg,
		dec:    msgpack.NewDecoder(bufio.NewReader(r)),
		out:    out,
		enc:    msgpack.NewEncoder(out),
		logger: logger.New("server"),
	}
}

// Start begins listening for IPC requests. It returns nil when the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")
	s.sendResponse(HealthResponse{Status: "ready"})

	for {
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Reading from stdin: %v", err)
			return err
		}
		s.requestCount++
		s.handleRequest(raw)
	}
}

// handleRequest decodes the envelope of one message and dispatches on its op
func (s *Server) handleRequest(raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "Invalid msgpack request", codeBadRequest)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("Request %s (%s) panicked: %v", req.ID, req.Op, r)
			s.sendError(req.ID, "Internal server error", codeInternal)
		}
	}()

	switch req.Op {
	case "rhyme":
		var r RhymeRequest
		if s.decode(raw, &r, req.ID) {
			s.handleRhyme(r)
		}
	case "suffix":
		var r SuffixRequest
		if s.decode(raw, &r, req.ID) {
			s.handleSuffix(r)
		}
	case "lookup":
		var r LookupRequest
		if s.decode(raw, &r, req.ID) {
			s.handleLookup(r)
		}
	case "complete":
		var r CompletionRequest
		if s.decode(raw, &r, req.ID) {
			s.handleComplete(r)
		}
	case "dict":
		var r DictionaryRequest
		if s.decode(raw, &r, req.ID) {
			s.handleDictionary(r)
		}
	case "health":
		s.sendResponse(HealthResponse{ID: req.ID, Status: "ok", Stats: s.rhymer.Stats()})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown op: %q", req.Op), codeBadRequest)
	}
}

func (s *Server) decode(raw msgpack.RawMessage, v any, id string) bool {
	if err := msgpack.Unmarshal(raw, v); err != nil {
		s.logger.Debugf("Malformed %s request: %v", id, err)
		s.sendError(id, "Malformed request: "+err.Error(), codeBadRequest)
		return false
	}
	return true
}

// sendResponse encodes the response and flushes it to the client
func (s *Server) sendResponse(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.logger.Errorf("Marshaling response: %v", err)
		return
	}
	if err := s.out.Flush(); err != nil {
		s.logger.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}

// checkWord validates a word or affix parameter, sending the error itself
func (s *Server) checkWord(id, name, word string) bool {
	switch {
	case word == "":
		s.sendError(id, fmt.Sprintf("Missing '%s' parameter", name), codeBadRequest)
	case utf8.RuneCountInString(word) > maxWordLen:
		s.sendError(id, fmt.Sprintf("'%s' exceeds maximum length of %d characters", name, maxWordLen), codeBadRequest)
	case !utils.IsValidInput(word):
		s.sendError(id, fmt.Sprintf("'%s' is not a word: %q", name, word), codeBadRequest)
	default:
		return true
	}
	return false
}

func (s *Server) limit(requested int) int {
	if requested < 1 || requested > s.config.Server.MaxLimit {
		return s.config.Server.MaxLimit
	}
	return requested
}

func (s *Server) handleRhyme(req RhymeRequest) {
	if !s.checkWord(req.ID, "w", req.Word) {
		return
	}
	if req.Syllables < 0 || req.Syllables > s.config.Server.MaxSyllables {
		s.sendError(req.ID, fmt.Sprintf("Syllables must be between 1 and %d", s.config.Server.MaxSyllables), codeBadRequest)
		return
	}

	start := time.Now()
	res := s.rhymer.Rhyme(req.Word, req.Syllables, s.limit(req.Limit))
	elapsed := time.Since(start)

	response := RhymeResponse{
		ID:         req.ID,
		Query:      res.Query,
		Words:      rankWords(res.Words),
		Groups:     toGroups(res.Groups),
		Extensions: toGroups(res.Extensions),
		TimeTaken:  elapsed.Microseconds(),
	}
	for _, g := range response.Groups {
		response.Count += len(g.Words)
	}
	for _, g := range response.Extensions {
		response.Count += len(g.Words)
	}
	s.logger.Debugf("rhyme %q: %d words in %d groups (%s)", req.Word, response.Count, len(response.Groups), elapsed)
	s.sendResponse(response)
}

func (s *Server) handleSuffix(req SuffixRequest) {
	if !s.checkWord(req.ID, "x", req.Suffix) {
		return
	}
	start := time.Now()
	g := s.rhymer.Suffix(req.Suffix, s.limit(req.Limit))
	elapsed := time.Since(start)

	group := toGroup(g)
	s.sendResponse(SuffixResponse{
		ID:        req.ID,
		Group:     group,
		Count:     len(group.Words),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleLookup(req LookupRequest) {
	if !s.checkWord(req.ID, "w", req.Word) {
		return
	}
	words := rankWords(s.rhymer.Lookup(req.Word))
	if len(words) == 0 {
		s.sendError(req.ID, fmt.Sprintf("Unknown word: %q", req.Word), codeNotFound)
		return
	}
	s.sendResponse(LookupResponse{ID: req.ID, Words: words, Count: len(words)})
}

func (s *Server) handleComplete(req CompletionRequest) {
	if req.Prefix == "" {
		s.sendError(req.ID, "Missing 'p' parameter", codeBadRequest)
		return
	}
	if utf8.RuneCountInString(req.Prefix) > maxWordLen {
		s.sendError(req.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", maxWordLen), codeBadRequest)
		return
	}

	start := time.Now()
	suggestions := s.rhymer.Complete(req.Prefix, s.limit(req.Limit))
	elapsed := time.Since(start)

	ranks := utils.RankList(len(suggestions))
	out := make([]CompletionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		out[i] = CompletionSuggestion{Word: sg.Word, Rank: ranks[i]}
	}
	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleDictionary(req DictionaryRequest) {
	reg := s.rhymer.Registry()
	var err error
	switch req.Action {
	case "list", "":
	case "enable":
		err = reg.Enable(req.Name)
	case "disable":
		err = reg.Disable(req.Name)
	case "reload":
		if s.loader == nil {
			s.sendError(req.ID, "Reload is not available", codeBadRequest)
			return
		}
		err = s.loader.Reload(req.Name, reg)
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown dict action: %q", req.Action), codeBadRequest)
		return
	}
	if err != nil {
		code := codeInternal
		if errors.Is(err, dictionary.ErrUnknownSource) {
			code = codeNotFound
		}
		s.sendError(req.ID, err.Error(), code)
		return
	}

	var infos []DictionaryInfo
	for _, src := range reg.List() {
		infos = append(infos, DictionaryInfo{
			Name:    src.Name,
			Path:    src.Path,
			Entries: src.Index.Len(),
			Enabled: src.Enabled,
		})
	}
	s.sendResponse(DictionaryResponse{ID: req.ID, Status: "ok", Sources: infos})
}

func rankWords(words []rhyme.Word) []RhymeWord {
	ranks := utils.RankList(len(words))
	out := make([]RhymeWord, len(words))
	for i, w := range words {
		out[i] = RhymeWord{Word: w.Spelling, Phonetic: w.Phonetic, Rank: ranks[i], Frequency: w.Frequency}
	}
	return out
}

func toGroup(g rhyme.WordGroup) RhymeGroup {
	return RhymeGroup{
		Label:     g.Label,
		Syllables: g.Syllables,
		Favorite:  g.Favorite,
		Words:     rankWords(g.Words),
	}
}

func toGroups(groups []rhyme.WordGroup) []RhymeGroup {
	out := make([]RhymeGroup, len(groups))
	for i, g := range groups {
		out[i] = toGroup(g)
	}
	return out
}

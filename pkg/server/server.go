package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtree/internal/logger"
	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/bastiangx/wordtree/pkg/config"
	"github.com/bastiangx/wordtree/pkg/dictionary"
	"github.com/bastiangx/wordtree/pkg/wordfreq"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server answers msgpack requests against a dictionary.
type Server struct {
	mu       sync.Mutex
	dict     dictionary.Dictionary
	backend  string
	config   config.ServerConfig
	decoder  *msgpack.Decoder
	writer   *bufio.Writer
	encoder  *msgpack.Encoder
	logger   *log.Logger
	requests int
	chunks   *dictionary.RuntimeLoader
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(dict dictionary.Dictionary, backend string, cfg config.ServerConfig, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		dict:    dict,
		backend: backend,
		config:  cfg,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
		logger:  logger.New("server"),
	}
}

// SetRuntimeLoader enables the set_size and dict_info ops. rl must manage the
// server's dictionary.
func (s *Server) SetRuntimeLoader(rl *dictionary.RuntimeLoader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = rl
}

// Start serves requests until the input ends. A clean end of input returns nil.
func (s *Server) Start() error {
	s.logger.Debug("Starting server", "backend", s.backend, "words", s.dict.Len())

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed", "requests", s.requests)
				return nil
			}
			s.logger.Errorf("Reading request stream: %v", err)
			return fmt.Errorf("failed to read request: %w", err)
		}

		if err := s.handleRequest(raw); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
}

// handleRequest decodes one framed message and writes exactly one response.
func (s *Server) handleRequest(raw msgpack.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++

	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Debugf("Malformed request: %v", err)
		return s.sendError("", fmt.Sprintf("malformed request: %v", err), CodeBadRequest)
	}
	s.logger.Debug("Request", "id", req.ID, "op", req.Op)

	start := time.Now()
	switch req.Op {
	case OpSearch:
		freq, err := s.dict.Search(req.Word)
		if err != nil {
			return s.sendContractError(req, err)
		}
		return s.sendWord(req, freq, freq > 0, start)
	case OpInsert:
		ok, err := s.dict.Insert(req.Word, req.Frequency)
		if err != nil {
			return s.sendContractError(req, err)
		}
		freq, _ := s.dict.Search(req.Word)
		return s.sendWord(req, freq, ok, start)
	case OpDelete:
		ok, err := s.dict.Delete(req.Word)
		if err != nil {
			return s.sendContractError(req, err)
		}
		return s.sendWord(req, 0, ok, start)
	case OpComplete:
		return s.handleComplete(req, start)
	case OpStats:
		return s.sendStats(req)
	case OpSetSize, OpDictInfo:
		return s.handleDictionary(req)
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown op: %q", req.Op), CodeBadRequest)
	}
}

func (s *Server) handleComplete(req Request, start time.Time) error {
	n := utf8.RuneCountInString(req.Prefix)
	if n < s.config.MinPrefix {
		return s.sendError(req.ID, fmt.Sprintf("prefix must be at least %d characters", s.config.MinPrefix), CodeBadRequest)
	}
	if s.config.MaxPrefix > 0 && n > s.config.MaxPrefix {
		return s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d characters", s.config.MaxPrefix), CodeBadRequest)
	}

	limit := req.Limit
	if limit < 1 {
		limit = wordfreq.DefaultLimit
	}
	if s.config.MaxLimit > 0 && limit > s.config.MaxLimit {
		limit = s.config.MaxLimit
	}
	limit = min(limit, math.MaxUint16)

	pairs := s.dict.Top(req.Prefix, limit)
	ranks := utils.CreateRankList(len(pairs))
	suggestions := make([]CompletionSuggestion, len(pairs))
	for i, p := range pairs {
		suggestions[i] = CompletionSuggestion{Word: p.Word, Frequency: p.Frequency, Rank: ranks[i]}
	}

	return s.send(CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *Server) sendWord(req Request, freq int, ok bool, start time.Time) error {
	return s.send(WordResponse{
		ID:        req.ID,
		Status:    "ok",
		Frequency: freq,
		OK:        ok,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

// handleDictionary resizes the dictionary by whole chunks or reports its size.
func (s *Server) handleDictionary(req Request) error {
	if s.chunks == nil {
		return s.sendError(req.ID, "dictionary size is fixed: no chunk files loaded", CodeBadRequest)
	}

	var options []dictionary.DictionarySizeOption
	switch req.Op {
	case OpSetSize:
		if req.ChunkCount < 1 {
			return s.sendError(req.ID, fmt.Sprintf("chunk_count must be at least 1, got %d", req.ChunkCount), CodeBadRequest)
		}
		if err := s.chunks.SetDictionarySize(req.ChunkCount); err != nil {
			return s.sendError(req.ID, err.Error(), CodeInternal)
		}
		s.logger.Info("Dictionary resized", "chunks", s.chunks.CurrentChunks(), "words", s.dict.Len())
	case OpDictInfo:
		var err error
		if options, err = s.chunks.GetDictionarySizeOptions(); err != nil {
			return s.sendError(req.ID, err.Error(), CodeInternal)
		}
	}

	available, err := s.chunks.GetAvailableChunkCount()
	if err != nil {
		return s.sendError(req.ID, err.Error(), CodeInternal)
	}
	return s.send(DictionaryResponse{
		ID:              req.ID,
		Status:          "ok",
		CurrentChunks:   s.chunks.CurrentChunks(),
		AvailableChunks: available,
		Words:           s.dict.Len(),
		Options:         options,
	})
}

func (s *Server) sendStats(req Request) error {
	resp := StatsResponse{
		ID:       req.ID,
		Status:   "ok",
		Backend:  s.backend,
		Words:    s.dict.Len(),
		Requests: s.requests,
	}
	if counter, ok := s.dict.(interface{ Nodes() int }); ok {
		resp.Nodes = counter.Nodes()
	}
	return s.send(resp)
}

// sendContractError reports input the dictionary rejected.
func (s *Server) sendContractError(req Request, err error) error {
	code := CodeInternal
	if errors.Is(err, wordfreq.ErrEmptyWord) ||
		errors.Is(err, wordfreq.ErrInvalidEncoding) ||
		errors.Is(err, wordfreq.ErrInvalidFrequency) {
		code = CodeBadRequest
	}
	return s.sendError(req.ID, err.Error(), code)
}

func (s *Server) sendError(id, message string, code int) error {
	s.logger.Debug("Request failed", "id", id, "error", message, "code", code)
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

// send encodes one response and flushes it so the client sees it before the next read.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return err
	}
	return s.writer.Flush()
}

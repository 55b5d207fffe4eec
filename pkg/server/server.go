package server

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/bastiangx/ternserve/internal/utils"
	"github.com/bastiangx/ternserve/pkg/config"
	"github.com/bastiangx/ternserve/pkg/dict"
	"github.com/bastiangx/ternserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// requests between config reloads and GC nudges
const maintenanceInterval = 100

// Server handles msgpack IPC for dictionary lookups over stdin/stdout.
type Server struct {
	completer    suggest.ICompleter
	dictionary   *dict.Dictionary
	resizer      *dict.Resizer
	cfg          *config.Config
	configPath   string
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	requestCount int
}

// NewServer creates a new lookup server using stdin/stdout for IPC.
func NewServer(completer suggest.ICompleter, d *dict.Dictionary, resizer *dict.Resizer, cfg *config.Config, configPath string) *Server {
	return &Server{
		completer:  completer,
		dictionary: d,
		resizer:    resizer,
		cfg:        cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(os.Stdin),
		encoder:    msgpack.NewEncoder(os.Stdout),
	}
}

// Start begins listening for IPC requests. Returns nil on clean EOF.
func (s *Server) Start() error {
	log.Debug("Starting server")
	s.send(map[string]string{"status": "ready"})

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			continue
		}
		s.handleRequest(req)
		s.maintain()
	}
}

// handleRequest dispatches on the populated request fields.
func (s *Server) handleRequest(req Request) {
	switch {
	case req.Action != "":
		s.handleAction(req)
	case req.Pattern != "":
		s.handleMatch(req)
	case req.Query != "":
		s.handleCorrection(req)
	case req.Prefix != "":
		s.handleComplete(req)
	default:
		s.sendError(req.ID, "no operation selected", 400)
	}
}

// handleAction routes dictionary and word management requests.
func (s *Server) handleAction(req Request) {
	switch req.Action {
	case "get_info", "set_size", "get_options", "get_chunk_count":
		s.handleDictionary(req)
	case "get_word", "has_word", "add_word", "remove_word":
		s.handleWord(req)
	case "health":
		s.send(map[string]string{"id": req.ID, "status": "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleComplete(req Request) {
	prefix := req.Prefix
	if len(prefix) < s.cfg.Server.MinPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix shorter than %d characters", s.cfg.Server.MinPrefix), 400)
		return
	}
	if len(prefix) > s.cfg.Server.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d characters", s.cfg.Server.MaxPrefix), 400)
		return
	}
	if s.cfg.Server.EnableFilter && !utils.IsValidInput(prefix) {
		s.send(CompletionResponse{ID: req.ID, Suggestions: []CompletionSuggestion{}, Count: 0})
		return
	}

	limit := s.clampLimit(req.Limit)

	start := time.Now()
	suggestions := s.completer.Complete(prefix, limit)
	elapsed := time.Since(start)

	s.send(CompletionResponse{
		ID:          req.ID,
		Suggestions: rankSuggestions(suggestions, prefix),
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleMatch(req Request) {
	limit := s.clampLimit(req.Limit)

	start := time.Now()
	matches := s.completer.Match(req.Pattern, limit)
	elapsed := time.Since(start)

	s.send(MatchResponse{
		ID:        req.ID,
		Pattern:   req.Pattern,
		Matches:   rankSuggestions(matches, ""),
		Count:     len(matches),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleCorrection(req Request) {
	distance := s.cfg.Dict.NearMaxDistance
	if req.Distance != nil {
		if *req.Distance < 0 {
			s.sendError(req.ID, "distance must not be negative", 400)
			return
		}
		distance = *req.Distance
	}

	start := time.Now()
	corrected, found := s.completer.Correct(req.Query, distance)
	elapsed := time.Since(start)

	resp := CorrectionResponse{
		ID:        req.ID,
		Input:     req.Query,
		Found:     found,
		TimeTaken: elapsed.Microseconds(),
	}
	if found {
		resp.Corrected = corrected
	}
	s.send(resp)
}

func (s *Server) handleWord(req Request) {
	if req.Word == "" {
		s.sendError(req.ID, "missing 'w' parameter", 400)
		return
	}

	switch req.Action {
	case "get_word":
		freq := s.dictionary.WordFrequency(req.Word)
		s.send(WordResponse{
			ID:        req.ID,
			Status:    "success",
			Word:      req.Word,
			Frequency: freq,
			Exists:    s.dictionary.ContainsWord(req.Word),
		})
	case "has_word":
		s.send(WordResponse{
			ID:     req.ID,
			Status: "success",
			Word:   req.Word,
			Exists: s.dictionary.ContainsWord(req.Word),
		})
	case "add_word":
		freq := req.Frequency
		if freq < 1 {
			freq = 1
		}
		if err := s.dictionary.SetWord(req.Word, freq); err != nil {
			s.sendError(req.ID, err.Error(), 422)
			return
		}
		s.send(WordResponse{ID: req.ID, Status: "success", Word: req.Word, Frequency: freq, Exists: true})
	case "remove_word":
		removed := s.dictionary.DeleteWord(req.Word)
		s.send(WordResponse{ID: req.ID, Status: "success", Word: req.Word, Exists: removed})
	}
}

func (s *Server) handleDictionary(req Request) {
	if s.resizer == nil {
		s.sendError(req.ID, "dictionary management unavailable", 503)
		return
	}

	switch req.Action {
	case "get_info", "get_chunk_count":
		available, err := s.resizer.AvailableChunkCount()
		if err != nil {
			s.send(DictionaryResponse{ID: req.ID, Status: "error", Error: err.Error()})
			return
		}
		s.send(DictionaryResponse{
			ID:              req.ID,
			Status:          "success",
			CurrentChunks:   s.resizer.LoadedChunkCount(),
			AvailableChunks: available,
			TotalWords:      s.dictionary.Count(),
		})
	case "set_size":
		if req.ChunkCount == nil {
			s.send(DictionaryResponse{ID: req.ID, Status: "error", Error: "missing chunk_count"})
			return
		}
		if err := s.resizer.SetSize(*req.ChunkCount); err != nil {
			s.send(DictionaryResponse{ID: req.ID, Status: "error", Error: err.Error()})
			return
		}
		s.send(DictionaryResponse{
			ID:            req.ID,
			Status:        "success",
			CurrentChunks: *req.ChunkCount,
			TotalWords:    s.dictionary.Count(),
		})
	case "get_options":
		options, err := s.resizer.SizeOptions()
		if err != nil {
			s.send(DictionaryResponse{ID: req.ID, Status: "error", Error: err.Error()})
			return
		}
		out := make([]DictionarySizeOption, 0, len(options))
		for _, opt := range options {
			out = append(out, DictionarySizeOption{
				ChunkCount: opt.ChunkCount,
				WordCount:  opt.WordCount,
				SizeLabel:  opt.SizeLabel,
			})
		}
		s.send(DictionaryResponse{ID: req.ID, Status: "success", Options: out})
	}
}

// clampLimit applies the configured ceiling and a sane default.
func (s *Server) clampLimit(limit int) int {
	if limit < 1 {
		limit = s.cfg.CLI.DefaultLimit
	}
	if limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}
	return limit
}

// maintain reloads config and nudges GC every maintenanceInterval requests.
func (s *Server) maintain() {
	s.requestCount++
	if s.requestCount%maintenanceInterval != 0 {
		return
	}
	if s.configPath != "" {
		if reloaded, err := config.LoadConfig(s.configPath); err == nil {
			s.cfg = reloaded
			log.Debugf("Reloaded config from %s", s.configPath)
		} else {
			log.Warnf("Config reload failed: %v", err)
		}
	}
	runtime.GC()
}

// send encodes one response onto stdout.
func (s *Server) send(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError reports a failed request.
func (s *Server) sendError(id, message string, code int) {
	s.send(RequestError{ID: id, Error: message, Code: code})
}

// rankSuggestions converts ranked suggestions into wire entries,
// dropping duplicates and the input word itself.
func rankSuggestions(suggestions []suggest.Suggestion, input string) []CompletionSuggestion {
	filter := utils.NewSuggestionFilter(input)
	out := make([]CompletionSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if !filter.ShouldInclude(s.Word) {
			continue
		}
		out = append(out, CompletionSuggestion{Word: s.Word, Rank: uint16(len(out) + 1)})
	}
	return out
}

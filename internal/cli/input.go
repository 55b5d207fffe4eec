// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/ternserve/internal/utils"
	completion "github.com/bastiangx/ternserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler processes user input from stdin, providing suggestions.
// Plain input runs prefix completion; input containing '.' or '*' runs
// a wildcard match; input starting with '~' runs a correction lookup,
// optionally followed by a distance ("~wrod 2"). Flags control minimum
// and maximum prefix length, suggestion limits, and filtering options.
type InputHandler struct {
	completer       completion.ICompleter
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	nearDistance    int
	requestCount    int
	noFilter        bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer completion.ICompleter, minLength, maxLength, limit, nearDistance int, noFilter bool) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		nearDistance:    nearDistance,
		noFilter:        noFilter,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to the handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("TernServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type something and press Enter to see the suggestions (Ctrl+C to exit):")
	log.Print("prefix -> completions | with . or * -> wildcard match | ~word [dist] -> correction")

	for {
		log.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		h.handleInput(input)
	}
}

// handleInput dispatches a single line to the right lookup mode,
// validates its length and content, and prints the ranked results.
func (h *InputHandler) handleInput(input string) {
	h.requestCount++

	if strings.HasPrefix(input, "~") {
		h.handleCorrection(strings.TrimPrefix(input, "~"))
		return
	}

	if len(input) < h.minPrefixLength {
		log.Errorf("Prefix too short: %s", input)
		return
	}
	if len(input) > h.maxPrefixLength {
		log.Errorf("Prefix too long: %s", input)
		return
	}

	if strings.ContainsAny(input, ".*") {
		h.handleMatch(input)
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidInput(input) {
			log.Infof("No results found for prefix: '%s'", input)
			return
		}
	} else {
		log.Debug("Input filtering disabled - indexed all entries")
	}

	start := time.Now()
	log.Debug("Processing request for", "prefix", input)

	suggestions := h.completer.Complete(input, h.suggestLimit)

	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, input)

	h.printSuggestions(suggestions, input)
}

// handleMatch runs the wildcard pattern lookup.
func (h *InputHandler) handleMatch(pattern string) {
	start := time.Now()
	suggestions := h.completer.Match(pattern, h.suggestLimit)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for pattern '%s'", elapsed, pattern)

	h.printSuggestions(suggestions, pattern)
}

// handleCorrection parses "word" or "word dist" and runs a near lookup.
func (h *InputHandler) handleCorrection(args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		log.Error("Usage: ~word [distance]")
		return
	}
	word := fields[0]
	distance := h.nearDistance
	if len(fields) > 1 {
		parsed, err := strconv.Atoi(fields[1])
		if err != nil || parsed < 0 {
			log.Errorf("Bad distance %q, using default %d", fields[1], distance)
		} else {
			distance = parsed
		}
	}

	start := time.Now()
	corrected, ok := h.completer.Correct(word, distance)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for correction '%s'", elapsed, word)

	if !ok {
		log.Warnf("No correction found for '%s' within distance %d", word, distance)
		return
	}
	log.Printf("Correction for '%s': \033[38;5;75m%s\033[0m", word, corrected)
}

// printSuggestions renders one ranked result list.
func (h *InputHandler) printSuggestions(suggestions []completion.Suggestion, query string) {
	if len(suggestions) == 0 {
		log.Warnf("No suggestions found for '%s'", query)
		return
	}

	log.Printf("Found %d suggestions for '%s':", len(suggestions), query)
	for i, s := range suggestions {
		fmtFreq := utils.FormatWithCommas(s.Frequency)
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Word)
		log.Printf("%2d. %-40s (freq: %8s)", i+1, clWord, fmtFreq)
	}
}

// Package cleaner finds links in message text and strips tracking parameters
// from their query strings.
//
// Everything here is a pure function of its input plus the immutable
// tracking.Set handed to New, so a Cleaner can be shared by any number of
// goroutines.
package cleaner

import (
	"fmt"

	botpkg "github.com/liuran001/LinkCleanBot/bot"
	"github.com/liuran001/LinkCleanBot/bot/tracking"
)

// Cleaner removes tracking parameters from URLs.
type Cleaner struct {
	params tracking.Set
	logger botpkg.Logger
}

// Result describes one pass over a message.
type Result struct {
	// Found counts scheme-prefixed candidates, valid or not.
	Found int
	// Valid counts candidates that passed validation.
	Valid int
	// Cleaned holds the URLs that changed, in order of appearance.
	Cleaned []string
}

// New creates a Cleaner for the given parameter set. logger may be nil.
func New(params tracking.Set, logger botpkg.Logger) *Cleaner {
	return &Cleaner{params: params, logger: logger}
}

// Params returns the tracking parameter set in use.
func (c *Cleaner) Params() tracking.Set {
	return c.params
}

// Clean returns rawURL without tracking query parameters.
// When the URL cannot be decomposed or rebuilt the original string is returned.
func (c *Cleaner) Clean(rawURL string) (cleaned string) {
	defer func() {
		if r := recover(); r != nil {
			c.logFallback(rawURL, fmt.Errorf("panic: %v", r))
			cleaned = rawURL
		}
	}()

	out, err := c.clean(rawURL)
	if err != nil {
		c.logFallback(rawURL, err)
		return rawURL
	}
	return out
}

func (c *Cleaner) clean(rawURL string) (string, error) {
	parts, err := Split(rawURL)
	if err != nil {
		return "", fmt.Errorf("split url: %w", err)
	}
	kept := ParseQuery(parts.RawQuery).Filter(func(key string) bool {
		return !c.params.Contains(key)
	})
	parts.RawQuery = kept.Encode()
	return parts.String(), nil
}

func (c *Cleaner) logFallback(rawURL string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn("url clean failed, keeping original", "url", rawURL, "error", err)
}

// Analyze runs detection, trimming, validation and cleaning over text.
func (c *Cleaner) Analyze(text string) Result {
	candidates := Detect(text)
	result := Result{Found: len(candidates)}
	for _, candidate := range candidates {
		candidate = TrimTrailing(candidate)
		if !IsValid(candidate) {
			continue
		}
		result.Valid++
		if cleaned := c.Clean(candidate); cleaned != candidate {
			result.Cleaned = append(result.Cleaned, cleaned)
		}
	}
	return result
}

// Process returns the cleaned form of every link in text that carried tracking
// parameters. Links that come out unchanged are left out; repeated links are not
// merged.
func (c *Cleaner) Process(text string) []string {
	return c.Analyze(text).Cleaned
}

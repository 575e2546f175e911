package index

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/registry"
)

// Analyzer splits text into index terms.
type Analyzer interface {
	Tokens(text string) []string
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(text string) []string

// Tokens implements Analyzer.
func (f AnalyzerFunc) Tokens(text string) []string { return f(text) }

const standardAnalyzerName = "retrieval_standard"

type bleveAnalyzer struct {
	a analysis.Analyzer
}

// NewBleveAnalyzer builds an analyzer from the bleve unicode tokenizer
// followed by tokenFilters (registered bleve token filter names). With no
// filters the terms are lowercased.
func NewBleveAnalyzer(tokenFilters ...string) (Analyzer, error) {
	if len(tokenFilters) == 0 {
		tokenFilters = []string{lowercase.Name}
	}

	cache := registry.NewCache()
	a, err := cache.DefineAnalyzer(standardAnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": tokenFilters,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to define analyzer: %w", err)
	}
	return &bleveAnalyzer{a: a}, nil
}

// Tokens implements Analyzer.
func (b *bleveAnalyzer) Tokens(text string) []string {
	stream := b.a.Analyze([]byte(text))
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		if len(tok.Term) > 0 {
			out = append(out, string(tok.Term))
		}
	}
	return out
}

var standardAnalyzer = sync.OnceValues(func() (Analyzer, error) {
	return NewBleveAnalyzer()
})

// StandardAnalyzer returns the shared unicode + lowercase analyzer.
func StandardAnalyzer() Analyzer {
	a, err := standardAnalyzer()
	if err != nil {
		// the components are compiled in, so this only fails on a broken build
		panic(err)
	}
	return a
}

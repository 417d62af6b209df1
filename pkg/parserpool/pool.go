// Package parserpool provides a pool of gnparser instances for
// concurrent parsing of scientific plant names. This is a pure
// package - parsing is computation, not I/O.
package parserpool

import (
	"runtime"
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool provides a pool of gnparser instances for concurrent parsing.
// The corpus holds plant names only, so a single botanical pool is
// enough.
type Pool interface {
	// Parse parses a scientific name string. It retrieves a parser
	// from the pool, parses the name, and returns the parser to the
	// pool. Safe for concurrent use.
	Parse(nameString string) parsed.Parsed

	// Genus returns the genus of a scientfic name derived from its
	// canonical form, or an empty string when the name does not parse.
	Genus(nameString string) string

	// Close shuts down the parser pool and releases resources.
	// After calling Close, the pool should not be used.
	Close()
}

type poolImpl struct {
	ch       chan gnparser.GNparser
	poolSize int
}

// NewPool creates a new parser pool with the specified number of
// workers. If jobsNum is 0, it defaults to runtime.NumCPU().
func NewPool(jobsNum int) Pool {
	poolSize := jobsNum
	if poolSize == 0 {
		poolSize = runtime.NumCPU()
	}

	cfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Botanical),
	)
	ch := gnparser.NewPool(cfg, poolSize)

	return &poolImpl{
		ch:       ch,
		poolSize: poolSize,
	}
}

func (p *poolImpl) Parse(nameString string) parsed.Parsed {
	// Get a parser from the pool (blocks if all parsers are busy).
	parser := <-p.ch
	result := parser.ParseName(nameString)
	p.ch <- parser
	return result
}

func (p *poolImpl) Genus(nameString string) string {
	result := p.Parse(nameString)
	if !result.Parsed || result.Canonical == nil {
		return ""
	}
	genus, _, _ := strings.Cut(result.Canonical.Simple, " ")
	return genus
}

func (p *poolImpl) Close() {
	if p.ch != nil {
		close(p.ch)
		// Drain the channel.
		for range p.ch {
		}
	}
}

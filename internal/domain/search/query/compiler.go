package query

import (
	"time"
	_ "time/tzdata" // zone database for distroless images

	"github.com/kailas-cloud/unisearch/internal/domain/index"
	"github.com/kailas-cloud/unisearch/internal/domain/language"
)

// DefaultTimeZone is the zone assumed for open-at instants without an offset.
const DefaultTimeZone = "Europe/Helsinki"

// Options configure a Compiler.
type Options struct {
	// DefaultLanguage names sort fields when the request has no defined language.
	DefaultLanguage language.Code
	// TimeZone is the reference zone for open-at filters.
	TimeZone *time.Location
	// ReservableResourceFilter enables the mustHaveReservableResource filter.
	ReservableResourceFilter bool
}

// DefaultOptions returns Finnish, Europe/Helsinki and the reservable filter disabled.
func DefaultOptions() Options {
	loc, err := time.LoadLocation(DefaultTimeZone)
	if err != nil {
		loc = time.UTC
	}
	return Options{
		DefaultLanguage: language.Default,
		TimeZone:        loc,
	}
}

// Params are the compiler inputs for one search.
type Params struct {
	Index     index.Index
	Languages []language.Code
	Text      string
	Ontology  string
	Filters   Filters
	Sort      SortPreference
	From      *int
	Size      *int
}

// Compiler turns search parameters into engine documents. It holds no per-request
// state and is safe for concurrent use.
type Compiler struct {
	opts Options
}

// New creates a Compiler. Zero option fields take their defaults.
func New(opts Options) *Compiler {
	def := DefaultOptions()
	if !opts.DefaultLanguage.IsDefined() {
		opts.DefaultLanguage = def.DefaultLanguage
	}
	if opts.TimeZone == nil {
		opts.TimeZone = def.TimeZone
	}
	return &Compiler{opts: opts}
}

// Options returns the effective options.
func (c *Compiler) Options() Options { return c.opts }

// Build assembles the search document for p: text query, then filters, then sort,
// with pagination fields in front.
func (c *Compiler) Build(p Params) Document {
	idx := p.Index
	if idx == "" {
		idx = index.Default
	}

	q := CompileText(idx, p.Languages, p.Text, p.Ontology)
	q = AttachFilters(q, CompileFilters(p.Filters, FilterOptions{
		TimeZone:           c.opts.TimeZone,
		ReservableResource: c.opts.ReservableResourceFilter,
	}))

	lang := language.Primary(p.Languages, c.opts.DefaultLanguage)

	return Document{
		From:  p.From,
		Size:  p.Size,
		Query: Query{Bool: q},
		Sort:  CompileSort(idx, lang, p.Sort),
	}
}

// Package pipeline wires the corpus stages together: load article
// files, extract metadata and normalize bodies per article, then
// assemble the wide corpus table. Per-article stages run on a bounded
// worker pool; results are re-sorted by id before assembly so output
// order always reflects input order, not completion order.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/presscorpus/presscorpus/pkg/corpus"
	"github.com/presscorpus/presscorpus/pkg/domain"
	"github.com/presscorpus/presscorpus/pkg/loader"
	"github.com/presscorpus/presscorpus/pkg/metadata"
	"github.com/presscorpus/presscorpus/pkg/normalize"
)

// Config holds pipeline parameters
type Config struct {
	Dir           string
	Extension     string
	Locale        domain.Locale
	FrenchOutlets []string // outlet names tagged "fr", normalized on use
	MaxWorkers    int
}

// Result is the output of one batch run
type Result struct {
	Table   *corpus.Table
	Records []domain.ArticleRecord
	Report  domain.Report
}

// Pipeline runs the batch extraction flow
type Pipeline struct {
	cfg       Config
	loader    *loader.Loader
	extractor *metadata.Extractor
}

// New creates a pipeline for the given configuration
func New(cfg Config) (*Pipeline, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("input directory is required")
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	extractor, err := metadata.New(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("create metadata extractor: %w", err)
	}

	return &Pipeline{
		cfg:       cfg,
		loader:    loader.New(cfg.Extension),
		extractor: extractor,
	}, nil
}

// Run executes the full batch: load, extract, normalize, assemble.
// Recoverable problems land on the result's report; fatal problems
// (unreadable input, one-hot or join violations) abort with an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	articles, loadIssues, err := p.loader.Load(p.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}

	result := &Result{}
	result.Report.Issues = append(result.Report.Issues, loadIssues...)

	records, issues, err := p.extractAll(ctx, articles)
	if err != nil {
		return nil, err
	}
	result.Records = records
	result.Report.Issues = append(result.Report.Issues, issues...)

	french := make([]string, 0, len(p.cfg.FrenchOutlets))
	for _, outlet := range p.cfg.FrenchOutlets {
		french = append(french, metadata.Label(outlet))
	}

	table, err := corpus.Build(records, french)
	if err != nil {
		return nil, fmt.Errorf("assemble corpus table: %w", err)
	}
	table.SortByDate()
	result.Table = table

	lgr.Printf("[INFO] assembled corpus table: %d rows, %d outlet columns, %d issues",
		len(table.Rows), len(table.Features), len(result.Report.Issues))
	return result, nil
}

// extractAll runs metadata extraction and body normalization for each
// article on a bounded worker pool. Articles are independent, so the
// stages parallelize; per-index result slots keep completion order out
// of the output, and an explicit sort by id guards the assembly input.
func (p *Pipeline) extractAll(ctx context.Context, articles []domain.RawArticle) ([]domain.ArticleRecord, []domain.Issue, error) {
	records := make([]domain.ArticleRecord, len(articles))
	issues := make([][]domain.Issue, len(articles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxWorkers)
	for i, raw := range articles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records[i], issues[i] = p.extractOne(raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("extract articles: %w", err)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	var flat []domain.Issue
	for _, list := range issues {
		flat = append(flat, list...)
	}
	return records, flat, nil
}

// extractOne builds the record for a single article, retaining null
// date or source on parse failures so row counts stay aligned
func (p *Pipeline) extractOne(raw domain.RawArticle) (domain.ArticleRecord, []domain.Issue) {
	rec := domain.ArticleRecord{ID: raw.Position, File: raw.File}
	var issues []domain.Issue

	if date, err := p.extractor.Date(raw); err != nil {
		lgr.Printf("[WARN] %v, keeping null date", err)
		issues = append(issues, domain.Issue{Position: raw.Position, File: raw.File, Stage: domain.StageDate, Reason: err.Error()})
	} else {
		rec.Date = &date
	}

	if source, err := p.extractor.Source(raw); err != nil {
		lgr.Printf("[WARN] %v, keeping null source", err)
		issues = append(issues, domain.Issue{Position: raw.Position, File: raw.File, Stage: domain.StageSource, Reason: err.Error()})
	} else {
		rec.Source = source
	}

	rec.Text = normalize.Body(raw)
	return rec, issues
}

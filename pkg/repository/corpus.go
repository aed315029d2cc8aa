package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"

	"github.com/presscorpus/presscorpus/pkg/corpus"
	"github.com/presscorpus/presscorpus/pkg/domain"
)

// RunMeta describes one pipeline run
type RunMeta struct {
	InputDir string
	Locale   domain.Locale
}

// runSQL represents a run for SQL operations
type runSQL struct {
	ID           int64     `db:"id"`
	InputDir     string    `db:"input_dir"`
	Locale       string    `db:"locale"`
	FeatureNames labelsSQL `db:"feature_names"`
	ArticleCount int       `db:"article_count"`
	IssueCount   int       `db:"issue_count"`
	CreatedAt    time.Time `db:"created_at"`
}

// articleSQL represents an article row for SQL operations
type articleSQL struct {
	RunID     int64      `db:"run_id"`
	ArticleID int        `db:"article_id"`
	Ord       int        `db:"ord"`
	File      string     `db:"file"`
	Published *time.Time `db:"published"`
	Source    *string    `db:"source"`
	Language  string     `db:"language"`
	Text      string     `db:"text"`
}

// labelsSQL is a JSON array of feature labels for SQL operations
type labelsSQL []string

// Value implements driver.Valuer for database storage
func (l labelsSQL) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *labelsSQL) Scan(value interface{}) error {
	if value == nil {
		*l = labelsSQL{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return json.Unmarshal([]byte("[]"), l)
	}

	return json.Unmarshal(data, l)
}

// SaveRun stores one run: the assembled table, the per-article source
// metadata and the issue report, all in a single transaction. Lock
// errors are retried with backoff, anything else aborts.
func (r *Repository) SaveRun(ctx context.Context, meta RunMeta, records []domain.ArticleRecord, table *corpus.Table, report *domain.Report) (int64, error) {
	byID := make(map[int]domain.ArticleRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	var runID int64
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	err := retrier.Do(ctx, func() error {
		id, err := r.saveRunTx(ctx, meta, byID, table, report)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: err}
		}
		runID = id
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	return runID, nil
}

func (r *Repository) saveRunTx(ctx context.Context, meta RunMeta, byID map[int]domain.ArticleRecord,
	table *corpus.Table, report *domain.Report) (int64, error) {

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (input_dir, locale, feature_names, article_count, issue_count) VALUES (?, ?, ?, ?, ?)`,
		meta.InputDir, string(meta.Locale), labelsSQL(table.Features), len(table.Rows), len(report.Issues))
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for ord, row := range table.Rows {
		rec := byID[row.ID]
		a := articleSQL{
			RunID:     runID,
			ArticleID: row.ID,
			Ord:       ord,
			File:      rec.File,
			Published: row.Date,
			Language:  row.Language,
			Text:      row.Text,
		}
		if rec.Source != "" {
			a.Source = &rec.Source
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO articles (run_id, article_id, ord, file, published, source, language, text)
			VALUES (:run_id, :article_id, :ord, :file, :published, :source, :language, :text)`, a); err != nil {
			return 0, fmt.Errorf("insert article %d: %w", row.ID, err)
		}

		for i, name := range table.Features {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO features (run_id, article_id, name, value) VALUES (?, ?, ?, ?)`,
				runID, row.ID, name, row.Values[i]); err != nil {
				return 0, fmt.Errorf("insert feature %q for article %d: %w", name, row.ID, err)
			}
		}
	}

	for _, issue := range report.Issues {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO issues (run_id, position, file, stage, reason) VALUES (?, ?, ?, ?, ?)`,
			runID, issue.Position, issue.File, string(issue.Stage), issue.Reason); err != nil {
			return 0, fmt.Errorf("insert issue for %q: %w", issue.File, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// LoadTable reconstructs a saved corpus table in its stored row order
func (r *Repository) LoadTable(ctx context.Context, runID int64) (*corpus.Table, error) {
	var run runSQL
	if err := r.db.GetContext(ctx, &run, `SELECT * FROM runs WHERE id = ?`, runID); err != nil {
		return nil, fmt.Errorf("get run %d: %w", runID, err)
	}

	var articles []articleSQL
	if err := r.db.SelectContext(ctx, &articles,
		`SELECT * FROM articles WHERE run_id = ? ORDER BY ord`, runID); err != nil {
		return nil, fmt.Errorf("get articles for run %d: %w", runID, err)
	}

	table := &corpus.Table{Features: run.FeatureNames, Rows: make([]corpus.Row, 0, len(articles))}
	for _, a := range articles {
		values := make([]float64, len(table.Features))
		rows, err := r.featureValues(ctx, runID, a.ArticleID)
		if err != nil {
			return nil, err
		}
		for i, name := range table.Features {
			values[i] = rows[name]
		}
		table.Rows = append(table.Rows, corpus.Row{
			ID:       a.ArticleID,
			Date:     a.Published,
			Text:     a.Text,
			Language: a.Language,
			Values:   values,
		})
	}
	return table, nil
}

// featureValues loads the feature map of one article
func (r *Repository) featureValues(ctx context.Context, runID int64, articleID int) (map[string]float64, error) {
	var rows []struct {
		Name  string  `db:"name"`
		Value float64 `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT name, value FROM features WHERE run_id = ? AND article_id = ?`, runID, articleID); err != nil {
		return nil, fmt.Errorf("get features for article %d: %w", articleID, err)
	}

	values := make(map[string]float64, len(rows))
	for _, row := range rows {
		values[row.Name] = row.Value
	}
	return values, nil
}

// GetIssues returns the issue report of a run in insertion order
func (r *Repository) GetIssues(ctx context.Context, runID int64) ([]domain.Issue, error) {
	var rows []struct {
		Position int    `db:"position"`
		File     string `db:"file"`
		Stage    string `db:"stage"`
		Reason   string `db:"reason"`
	}
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT position, file, stage, reason FROM issues WHERE run_id = ? ORDER BY id`, runID); err != nil {
		return nil, fmt.Errorf("get issues for run %d: %w", runID, err)
	}

	issues := make([]domain.Issue, len(rows))
	for i, row := range rows {
		issues[i] = domain.Issue{Position: row.Position, File: row.File, Stage: domain.IssueStage(row.Stage), Reason: row.Reason}
	}
	return issues, nil
}

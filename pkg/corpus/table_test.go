package corpus

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presscorpus/presscorpus/pkg/domain"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuild(t *testing.T) {
	records := []domain.ArticleRecord{
		{ID: 1, Date: date(2020, 1, 12), Source: "Le_Soir", Text: "hello world"},
		{ID: 2, Date: date(2021, 3, 5), Source: "De_Tijd", Text: "test"},
		{ID: 3, Date: date(2019, 12, 20), Source: "Metro_FR", Text: "economie"},
	}

	table, err := Build(records, []string{"Le_Soir", "Metro_FR"})
	require.NoError(t, err)

	// columns in first-seen order
	assert.Equal(t, []string{"Le_Soir", "De_Tijd", "Metro_FR"}, table.Features)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []float64{1, 0, 0}, table.Rows[0].Values)
	assert.Equal(t, []float64{0, 1, 0}, table.Rows[1].Values)
	assert.Equal(t, []float64{0, 0, 1}, table.Rows[2].Values)

	assert.Equal(t, "fr", table.Rows[0].Language)
	assert.Equal(t, "nl", table.Rows[1].Language)
	assert.Equal(t, "fr", table.Rows[2].Language)
}

func TestBuild_OneHotProperty(t *testing.T) {
	rnd := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test data
	outlets := []string{"Le_Soir", "De_Tijd", "Metro_FR", "De_Standaard", "La_Libre"}

	for run := 0; run < 50; run++ {
		var records []domain.ArticleRecord
		n := 1 + rnd.Intn(40)
		for i := 0; i < n; i++ {
			records = append(records, domain.ArticleRecord{
				ID:     i + 1,
				Date:   date(2020, time.Month(1+rnd.Intn(12)), 1+rnd.Intn(28)),
				Source: outlets[rnd.Intn(len(outlets))],
				Text:   "text",
			})
		}

		table, err := Build(records, nil)
		require.NoError(t, err)
		require.Len(t, table.Rows, n)

		for _, row := range table.Rows {
			sum := 0.0
			for _, v := range row.Values {
				sum += v
			}
			assert.Equal(t, 1.0, sum, "row %d must be one-hot", row.ID)
		}
	}
}

func TestBuild_CollidingLabels(t *testing.T) {
	// labels differing only in case produce ambiguous columns
	records := []domain.ArticleRecord{
		{ID: 1, Source: "Le_Soir", Text: "a"},
		{ID: 2, Source: "le_soir", Text: "b"},
	}

	_, err := Build(records, nil)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestBuild_NullSourceExempt(t *testing.T) {
	records := []domain.ArticleRecord{
		{ID: 1, Date: date(2020, 1, 1), Source: "Le_Soir", Text: "a"},
		{ID: 2, Date: date(2020, 1, 2), Source: "", Text: "b"}, // reported upstream, kept
	}

	table, err := Build(records, []string{"Le_Soir"})
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []float64{1}, table.Rows[0].Values)
	assert.Equal(t, []float64{0}, table.Rows[1].Values)
	// outside the French set by policy, not by detection
	assert.Equal(t, "nl", table.Rows[1].Language)
}

func TestBuild_DuplicateID(t *testing.T) {
	records := []domain.ArticleRecord{
		{ID: 1, Source: "Le_Soir", Text: "a"},
		{ID: 1, Source: "De_Tijd", Text: "b"},
	}

	_, err := Build(records, nil)
	require.Error(t, err)

	var joinErr *JoinError
	require.ErrorAs(t, err, &joinErr)
	assert.Equal(t, 1, joinErr.ID)
}

func TestDeriveLanguage_Deterministic(t *testing.T) {
	records := []domain.ArticleRecord{
		{ID: 1, Source: "Le_Soir", Text: "a"},
		{ID: 2, Source: "De_Tijd", Text: "b"},
		{ID: 3, Source: "Metro_FR", Text: "c"},
	}

	first, err := Build(records, []string{"Le_Soir", "Metro_FR"})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Build(records, []string{"Le_Soir", "Metro_FR"})
		require.NoError(t, err)
		for j := range first.Rows {
			assert.Equal(t, first.Rows[j].Language, again.Rows[j].Language)
		}
	}
}

func TestTable_SortByDate(t *testing.T) {
	records := []domain.ArticleRecord{
		{ID: 1, Date: date(2020, 1, 12), Source: "Le_Soir", Text: "a"},
		{ID: 2, Date: date(2021, 3, 5), Source: "De_Tijd", Text: "b"},
		{ID: 3, Date: date(2019, 12, 20), Source: "Metro_FR", Text: "c"},
		{ID: 4, Date: nil, Source: "Le_Soir", Text: "d"},
	}

	table, err := Build(records, nil)
	require.NoError(t, err)
	table.SortByDate()

	ids := []int{table.Rows[0].ID, table.Rows[1].ID, table.Rows[2].ID, table.Rows[3].ID}
	assert.Equal(t, []int{3, 1, 2, 4}, ids, "chronological order, null date last")
}

func TestTable_WithFeatures(t *testing.T) {
	records := []domain.ArticleRecord{
		{ID: 1, Date: date(2020, 1, 12), Source: "Le_Soir", Text: "a"},
		{ID: 2, Date: date(2021, 3, 5), Source: "De_Tijd", Text: "b"},
	}

	table, err := Build(records, []string{"Le_Soir"})
	require.NoError(t, err)

	scored, err := table.WithFeatures([]string{"economy", "politics"}, map[int][]float64{
		1: {0.7, 0.1},
		2: {0.2, 0.9},
	})
	require.NoError(t, err)

	// id, date, text and language survive the replacement untouched
	assert.Equal(t, []string{"economy", "politics"}, scored.Features)
	for i := range table.Rows {
		assert.Equal(t, table.Rows[i].ID, scored.Rows[i].ID)
		assert.Equal(t, table.Rows[i].Date, scored.Rows[i].Date)
		assert.Equal(t, table.Rows[i].Text, scored.Rows[i].Text)
		assert.Equal(t, table.Rows[i].Language, scored.Rows[i].Language)
	}
	assert.Equal(t, []float64{0.7, 0.1}, scored.Rows[0].Values)

	// original table not mutated
	assert.Equal(t, []string{"Le_Soir", "De_Tijd"}, table.Features)
}

func TestTable_WithFeatures_Errors(t *testing.T) {
	table, err := Build([]domain.ArticleRecord{{ID: 1, Source: "Le_Soir", Text: "a"}}, nil)
	require.NoError(t, err)

	_, err = table.WithFeatures([]string{"economy"}, map[int][]float64{})
	var joinErr *JoinError
	require.ErrorAs(t, err, &joinErr)

	_, err = table.WithFeatures([]string{"economy"}, map[int][]float64{1: {0.1, 0.2}})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

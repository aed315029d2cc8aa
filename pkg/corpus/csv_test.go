package corpus

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presscorpus/presscorpus/pkg/domain"
)

func TestTable_WriteCSV(t *testing.T) {
	records := []domain.ArticleRecord{
		{ID: 1, Date: date(2020, 1, 12), Source: "Le_Soir", Text: "hello world"},
		{ID: 2, Date: nil, Source: "De_Tijd", Text: "test"},
	}
	table, err := Build(records, []string{"Le_Soir"})
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, table.WriteCSV(&sb))

	rows, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "date", "text", "language", "Le_Soir", "De_Tijd"}, rows[0])
	assert.Equal(t, []string{"1", "2020-01-12", "hello world", "fr", "1", "0"}, rows[1])
	// null date renders empty
	assert.Equal(t, []string{"2", "", "test", "nl", "0", "1"}, rows[2])
}

func TestTable_SaveCSV(t *testing.T) {
	table, err := Build([]domain.ArticleRecord{{ID: 1, Date: date(2021, 6, 30), Source: "Le_Soir", Text: "a"}}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "corpus.csv")
	require.NoError(t, table.SaveCSV(path))

	data, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Contains(t, string(data), "2021-06-30")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presscorpus/presscorpus/pkg/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
input:
  dir: /data/articles
  extension: rtf
  locale: dutch
language:
  french_outlets:
    - Le Soir
    - Metro FR
pipeline:
  max_workers: 8
output:
  csv: /data/corpus.csv
database:
  dsn: "file:corpus.db?mode=rwc"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/articles", cfg.Input.Dir)
	assert.Equal(t, "rtf", cfg.Input.Extension)
	assert.Equal(t, domain.LocaleDutch, cfg.Locale())
	assert.Equal(t, []string{"Le Soir", "Metro FR"}, cfg.Language.FrenchOutlets)
	assert.Equal(t, 8, cfg.Pipeline.MaxWorkers)
	assert.Equal(t, "/data/corpus.csv", cfg.Output.CSV)
	assert.Equal(t, "file:corpus.db?mode=rwc", cfg.Database.DSN)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
input:
  dir: /data/articles
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "rtf", cfg.Input.Extension)
	assert.Equal(t, domain.LocaleEnglish, cfg.Locale())
	assert.Equal(t, 4, cfg.Pipeline.MaxWorkers)
	assert.Equal(t, "corpus.csv", cfg.Output.CSV)
	assert.Empty(t, cfg.Database.DSN, "persistence off by default")
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Empty(t, cfg.Language.FrenchOutlets, "no outlet partition is assumed")
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("ARTICLES_DIR", "/from/env")
	path := writeConfig(t, `
input:
  dir: ${ARTICLES_DIR}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Input.Dir)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing dir", "output:\n  csv: out.csv\n", "input.dir is required"},
		{"bad locale", "input:\n  dir: /d\n  locale: german\n", "unsupported locale"},
		{"negative workers", "input:\n  dir: /d\npipeline:\n  max_workers: -1\n", "max_workers"},
		{"empty outlet", "input:\n  dir: /d\nlanguage:\n  french_outlets: [\"\"]\n", "empty names"},
		{"duplicate outlet", "input:\n  dir: /d\nlanguage:\n  french_outlets: [Le Soir, Le Soir]\n", "twice"},
		{"invalid yaml", "input: [broken\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "rtf", cfg.Input.Extension)
	assert.Equal(t, domain.LocaleEnglish, cfg.Locale())
	assert.Empty(t, cfg.Input.Dir)
}

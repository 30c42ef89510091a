package engine_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beyond-expertise/backend/internal/catalog"
	"github.com/beyond-expertise/backend/internal/config"
	"github.com/beyond-expertise/backend/internal/engine"
	"github.com/beyond-expertise/backend/internal/filter"
	"github.com/beyond-expertise/backend/internal/search"
	"github.com/beyond-expertise/backend/internal/textnorm"
)

const powerBI = `{
	"titre": "Power BI Initiation",
	"objectifs": ["Créer des tableaux de bord interactifs"],
	"prerequis": [],
	"niveau": "Débutant",
	"modalite": "À distance",
	"duree": "3 jours",
	"tarif": "1200 €",
	"certifiant": true
}`

const registry = `[
	{"ID": 35475, "titre": "Data Analyst RNCP", "NOMENCLATURE_EUROPE_INTITULE": "Niveau 6", "ACTIVITES_VISEES": "Analyse de données"}
]`

func newTestEngine(t *testing.T, catalogDir, registryPath, cachePath string) *engine.Engine {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	entry := logger.WithField("test", true)

	cfg := &config.Config{
		Catalog: config.CatalogConfig{Dir: catalogDir, RegistryPath: registryPath},
		Index:   config.IndexConfig{CachePath: cachePath, MinNGram: 3, MaxNGram: 6, SearchTopK: 10},
		Match:   config.MatchConfig{MinScore: 2},
	}
	loader := catalog.NewLoader(catalogDir, registryPath, entry)
	return engine.NewEngine(cfg, entry, loader, textnorm.New(nil, nil))
}

func setupSources(t *testing.T) (catalogDir, registryPath, cachePath string) {
	t.Helper()
	catalogDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(catalogDir, "power-bi-initiation.json"), []byte(powerBI), 0644))

	registryPath = filepath.Join(t.TempDir(), "rncp.json")
	require.NoError(t, os.WriteFile(registryPath, []byte(registry), 0644))

	cachePath = filepath.Join(t.TempDir(), "cache", "index.gob")
	return catalogDir, registryPath, cachePath
}

func TestEngineStartAndSearch(t *testing.T) {
	catalogDir, registryPath, cachePath := setupSources(t)
	eng := newTestEngine(t, catalogDir, registryPath, cachePath)
	require.NoError(t, eng.Start())

	stats := eng.Stats()
	assert.Equal(t, 2, stats.Courses)
	assert.Equal(t, 1, stats.Internal)
	assert.Equal(t, 1, stats.External)
	assert.False(t, stats.CacheHit)
	assert.NotEmpty(t, stats.Fingerprint)

	results, err := eng.Search("tableau de bord", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "power-bi-initiation", results[0].Course.ID)
}

func TestEngineUsesCacheOnRestart(t *testing.T) {
	catalogDir, registryPath, cachePath := setupSources(t)

	first := newTestEngine(t, catalogDir, registryPath, cachePath)
	require.NoError(t, first.Start())
	require.FileExists(t, cachePath)

	second := newTestEngine(t, catalogDir, registryPath, cachePath)
	require.NoError(t, second.Start())
	assert.True(t, second.Stats().CacheHit)

	want, err := first.Search("tableau de bord", 5)
	require.NoError(t, err)
	got, err := second.Search("tableau de bord", 5)
	require.NoError(t, err)
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].Course.ID, got[i].Course.ID)
		assert.InDelta(t, want[i].Score, got[i].Score, 1e-9)
	}
}

func TestEngineStaleCacheIsRebuilt(t *testing.T) {
	catalogDir, registryPath, cachePath := setupSources(t)

	first := newTestEngine(t, catalogDir, registryPath, cachePath)
	require.NoError(t, first.Start())

	// Corpus changed since the cache was written.
	require.NoError(t, os.WriteFile(filepath.Join(catalogDir, "excel.json"), []byte(`{"titre": "Excel Perfectionnement", "objectifs": ["Exploiter les tableaux croisés"]}`), 0644))

	second := newTestEngine(t, catalogDir, registryPath, cachePath)
	require.NoError(t, second.Start())
	assert.False(t, second.Stats().CacheHit)
	assert.Equal(t, 3, second.Stats().Courses)
}

func TestEngineCorruptCacheFallsBackToBuild(t *testing.T) {
	catalogDir, registryPath, cachePath := setupSources(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cachePath), 0755))
	require.NoError(t, os.WriteFile(cachePath, []byte("garbage"), 0644))

	eng := newTestEngine(t, catalogDir, registryPath, cachePath)
	require.NoError(t, eng.Start())

	assert.False(t, eng.Stats().CacheHit)
	results, err := eng.Search("tableau de bord", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestEngineReload(t *testing.T) {
	catalogDir, registryPath, cachePath := setupSources(t)
	eng := newTestEngine(t, catalogDir, registryPath, cachePath)
	require.NoError(t, eng.Start())

	// Unchanged corpus: no-op.
	require.NoError(t, eng.Reload(false))
	assert.Equal(t, 0, eng.Stats().Reloads)

	// New file: the swap happens and the course becomes searchable.
	require.NoError(t, os.WriteFile(filepath.Join(catalogDir, "gestion.json"), []byte(`{"titre": "Gestion de projet", "objectifs": ["Piloter un projet agile avec Scrum"]}`), 0644))
	require.NoError(t, eng.Reload(false))
	assert.Equal(t, 1, eng.Stats().Reloads)
	assert.Equal(t, 3, eng.Stats().Courses)

	results, err := eng.Search("projet agile", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "gestion", results[0].Course.ID)

	// Force rebuilds even without changes.
	require.NoError(t, eng.Reload(true))
	assert.Equal(t, 2, eng.Stats().Reloads)
}

func TestEngineMisuseBeforeStart(t *testing.T) {
	catalogDir, registryPath, cachePath := setupSources(t)
	eng := newTestEngine(t, catalogDir, registryPath, cachePath)

	_, err := eng.Search("tableau", 5)
	assert.ErrorIs(t, err, search.ErrNotFitted)
	assert.Empty(t, eng.MatchProfile("devenir analyste", "excel", "débutant", 1))
	assert.Empty(t, eng.Filter(filter.Criteria{}))
}

func TestEngineMatchAndFilterPassThrough(t *testing.T) {
	catalogDir, registryPath, cachePath := setupSources(t)
	eng := newTestEngine(t, catalogDir, registryPath, cachePath)
	require.NoError(t, eng.Start())

	matched := eng.MatchProfile("tableaux de bord", "", "débutant", 2)
	require.NotEmpty(t, matched)
	assert.Equal(t, "power-bi-initiation", matched[0].Course.ID)

	certifying := true
	filtered := eng.Filter(filter.Criteria{Certifying: &certifying})
	assert.Len(t, filtered, 2)
}

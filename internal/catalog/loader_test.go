package catalog_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beyond-expertise/backend/internal/catalog"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("test", true)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const powerBI = `{
	"titre": "Power BI Initiation",
	"objectifs": ["Créer des tableaux de bord interactifs"],
	"prerequis": [],
	"programme": ["Découverte de Power BI"],
	"niveau": "Débutant",
	"modalite": "À distance",
	"duree": "3 jours",
	"tarif": "1200 €",
	"lieu": "Paris",
	"certifiant": true
}`

const registry = `[
	{"ID": 35475, "titre": "Data Analyst RNCP", "NOMENCLATURE_EUROPE_INTITULE": "Niveau 6", "TYPE_EMPLOI_ACCESSIBLES": "Data analyst", "ACTIVITES_VISEES": "Analyse de données"},
	{"titre": "Développeur Web RNCP", "CAPACITES_ATTESTEES": "Développement front et back"},
	{"ID": 99, "NOMENCLATURE_EUROPE_INTITULE": "Niveau 5"},
	"not-an-object"
]`

func setupSources(t *testing.T) (dir, registryPath string) {
	t.Helper()
	dir = t.TempDir()
	writeFile(t, dir, "power-bi-initiation.json", powerBI)
	writeFile(t, dir, "broken.json", "{not json")
	writeFile(t, dir, "untitled.json", `{"objectifs": ["sans titre"]}`)

	registryPath = filepath.Join(t.TempDir(), "rncp.json")
	require.NoError(t, os.WriteFile(registryPath, []byte(registry), 0644))
	return dir, registryPath
}

func TestLoaderSkipsBadRecords(t *testing.T) {
	dir, registryPath := setupSources(t)
	loader := catalog.NewLoader(dir, registryPath, testLogger())

	corpus := loader.Load()

	// 1 valid internal file; 2 valid registry entries out of 4.
	require.Len(t, corpus.Courses, 3)

	internal, external := corpus.BySource()
	require.Len(t, internal, 1)
	require.Len(t, external, 2)

	course := internal[0]
	assert.Equal(t, "power-bi-initiation", course.ID)
	assert.Equal(t, "Power BI Initiation", course.Title)
	assert.Equal(t, catalog.SourceInternal, course.Source)
	assert.Equal(t, "À distance", course.Modality)
	assert.Equal(t, "3 jours", course.Duration)
	assert.Contains(t, course.SearchText, "Power BI Initiation")
	assert.Contains(t, course.SearchText, "tableaux de bord")

	assert.Equal(t, "35475", external[0].ID)
	assert.Equal(t, "Niveau 6", external[0].Level)
	assert.Contains(t, external[0].SearchText, "Analyse de données")
	assert.Contains(t, external[1].SearchText, "Développement front et back")
}

func TestLoaderFallbackIDIsDeterministic(t *testing.T) {
	dir, registryPath := setupSources(t)
	loader := catalog.NewLoader(dir, registryPath, testLogger())

	first := loader.Load()
	second := loader.Load()

	_, firstExternal := first.BySource()
	_, secondExternal := second.BySource()
	require.Len(t, firstExternal, 2)

	// The entry without an ID gets a title-derived fallback, stable
	// across reloads of an unmodified corpus.
	assert.Contains(t, firstExternal[1].ID, "rncp-")
	assert.Equal(t, firstExternal[1].ID, secondExternal[1].ID)
}

func TestLoaderIdempotentReload(t *testing.T) {
	dir, registryPath := setupSources(t)
	loader := catalog.NewLoader(dir, registryPath, testLogger())

	first := loader.Load()
	second := loader.Load()

	ids := func(c *catalog.Corpus) []string {
		var out []string
		for _, course := range c.Courses {
			out = append(out, course.ID)
		}
		return out
	}
	assert.ElementsMatch(t, ids(first), ids(second))
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestLoaderFingerprintTracksContent(t *testing.T) {
	dir, registryPath := setupSources(t)
	loader := catalog.NewLoader(dir, registryPath, testLogger())

	before := loader.Load()
	writeFile(t, dir, "excel-avance.json", `{"titre": "Excel Avancé"}`)
	after := loader.Load()

	assert.NotEqual(t, before.Fingerprint, after.Fingerprint)
	assert.Len(t, after.Courses, 4)
}

func TestLoaderMissingSourcesYieldEmptyCorpus(t *testing.T) {
	loader := catalog.NewLoader(
		filepath.Join(t.TempDir(), "absent"),
		filepath.Join(t.TempDir(), "absent.json"),
		testLogger(),
	)

	corpus := loader.Load()

	assert.Empty(t, corpus.Courses)
	assert.NotEmpty(t, corpus.Fingerprint)
}

func TestCourseIsCertifying(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name   string
		course catalog.Course
		want   bool
	}{
		{"external without flag", catalog.Course{Source: catalog.SourceExternal}, true},
		{"external with explicit false", catalog.Course{Source: catalog.SourceExternal, Certifying: &no}, true},
		{"internal with true", catalog.Course{Source: catalog.SourceInternal, Certifying: &yes}, true},
		{"internal with false", catalog.Course{Source: catalog.SourceInternal, Certifying: &no}, false},
		{"internal without flag", catalog.Course{Source: catalog.SourceInternal}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.course.IsCertifying())
		})
	}
}

func TestDisplayFallback(t *testing.T) {
	assert.Equal(t, "non spécifié", catalog.Display(""))
	assert.Equal(t, "non spécifié", catalog.Display("   "))
	assert.Equal(t, "3 jours", catalog.Display("3 jours"))
}

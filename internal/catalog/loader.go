package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Corpus is the full in-memory course set after a load, plus a content
// fingerprint identifying exactly which bytes produced it.
type Corpus struct {
	Courses     []*Course
	Fingerprint string
}

// BySource partitions the corpus, internal courses first.
func (c *Corpus) BySource() (internal, external []*Course) {
	for _, course := range c.Courses {
		if course.Source == SourceInternal {
			internal = append(internal, course)
		} else {
			external = append(external, course)
		}
	}
	return internal, external
}

// Loader reads course records from the internal catalog directory
// (one JSON object per file) and the RNCP registry (one JSON array).
type Loader struct {
	CatalogDir   string
	RegistryPath string
	Logger       *logrus.Entry
}

func NewLoader(catalogDir, registryPath string, logger *logrus.Entry) *Loader {
	return &Loader{
		CatalogDir:   catalogDir,
		RegistryPath: registryPath,
		Logger:       logger,
	}
}

// internalRecord mirrors the internal catalog file schema. Some files use
// accented key variants, both spellings are accepted.
type internalRecord struct {
	Titre       string   `json:"titre"`
	Objectifs   []string `json:"objectifs"`
	Prerequis   []string `json:"prerequis"`
	Programme   []string `json:"programme"`
	Public      []string `json:"public"`
	Lien        string   `json:"lien"`
	Niveau      string   `json:"niveau"`
	Lieu        string   `json:"lieu"`
	Duree       string   `json:"duree"`
	DureeAcc    string   `json:"durée"`
	Tarif       string   `json:"tarif"`
	Modalite    string   `json:"modalite"`
	ModaliteAcc string   `json:"modalité"`
	Certifiant  *bool    `json:"certifiant"`
}

// registryRecord mirrors the RNCP registry entry schema.
type registryRecord struct {
	ID           any    `json:"ID"`
	Titre        string `json:"titre"`
	Nomenclature string `json:"NOMENCLATURE_EUROPE_INTITULE"`
	Emplois      string `json:"TYPE_EMPLOI_ACCESSIBLES"`
	Activites    string `json:"ACTIVITES_VISEES"`
	Capacites    string `json:"CAPACITES_ATTESTEES"`
	Lien         string `json:"LIEN_URL_DESCRIPTION"`
}

// Load reads both sources into a fresh corpus. Unreadable or malformed
// records are logged and skipped; missing sources contribute nothing.
// Load never fails: the worst outcome is an empty corpus.
func (l *Loader) Load() *Corpus {
	digest := sha256.New()
	var courses []*Course

	courses = append(courses, l.loadInternal(digest)...)
	courses = append(courses, l.loadRegistry(digest)...)

	corpus := &Corpus{
		Courses:     courses,
		Fingerprint: hex.EncodeToString(digest.Sum(nil)),
	}
	l.Logger.WithFields(logrus.Fields{
		"courses":     len(corpus.Courses),
		"fingerprint": corpus.Fingerprint[:12],
	}).Info("Corpus loaded")
	return corpus
}

func (l *Loader) loadInternal(digest hash.Hash) []*Course {
	pattern := filepath.Join(l.CatalogDir, "*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		l.Logger.WithError(err).Warnf("Invalid catalog pattern %s", pattern)
		return nil
	}
	sort.Strings(files)

	var courses []*Course
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			l.Logger.WithError(err).Warnf("Skipping unreadable file %s", file)
			continue
		}
		digest.Write([]byte(file))
		digest.Write(data)

		var rec internalRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			l.Logger.WithError(err).Warnf("Skipping malformed file %s", file)
			continue
		}
		if strings.TrimSpace(rec.Titre) == "" {
			l.Logger.Warnf("Skipping %s: missing titre", file)
			continue
		}

		course := &Course{
			ID:            strings.TrimSuffix(filepath.Base(file), ".json"),
			Title:         rec.Titre,
			Source:        SourceInternal,
			Objectives:    rec.Objectifs,
			Prerequisites: rec.Prerequis,
			Programme:     rec.Programme,
			Audience:      rec.Public,
			Level:         rec.Niveau,
			Modality:      firstNonEmpty(rec.Modalite, rec.ModaliteAcc),
			Duration:      firstNonEmpty(rec.Duree, rec.DureeAcc),
			Price:         rec.Tarif,
			Location:      rec.Lieu,
			Link:          rec.Lien,
			Certifying:    rec.Certifiant,
		}
		course.buildSearchText()
		courses = append(courses, course)
	}
	return courses
}

func (l *Loader) loadRegistry(digest hash.Hash) []*Course {
	data, err := os.ReadFile(l.RegistryPath)
	if err != nil {
		if !os.IsNotExist(err) {
			l.Logger.WithError(err).Warnf("Skipping unreadable registry %s", l.RegistryPath)
		}
		return nil
	}
	digest.Write([]byte(l.RegistryPath))
	digest.Write(data)

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		l.Logger.WithError(err).Warnf("Skipping malformed registry %s", l.RegistryPath)
		return nil
	}

	var courses []*Course
	for i, raw := range entries {
		var rec registryRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			l.Logger.WithError(err).Warnf("Skipping registry entry %d", i)
			continue
		}
		if strings.TrimSpace(rec.Titre) == "" {
			l.Logger.Warnf("Skipping registry entry %d: missing titre", i)
			continue
		}

		course := &Course{
			ID:           registryID(rec.ID, rec.Titre),
			Title:        rec.Titre,
			Source:       SourceExternal,
			Level:        rec.Nomenclature,
			Careers:      rec.Emplois,
			Link:         rec.Lien,
			activities:   rec.Activites,
			competencies: rec.Capacites,
		}
		course.buildSearchText()
		courses = append(courses, course)
	}
	return courses
}

// registryID normalizes the registry's loosely-typed ID field. Entries
// without one get a deterministic fallback hashed from the title, so an
// unmodified corpus keeps its IDs across reloads.
func registryID(id any, title string) string {
	switch v := id.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	h := fnv.New32a()
	h.Write([]byte(title))
	return fmt.Sprintf("rncp-%d", h.Sum32())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

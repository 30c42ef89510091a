// Package engine wires the loader, normalizer and index into one
// orchestrator safe to share across concurrent request handlers.
package engine

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/beyond-expertise/backend/internal/catalog"
	"github.com/beyond-expertise/backend/internal/config"
	"github.com/beyond-expertise/backend/internal/filter"
	"github.com/beyond-expertise/backend/internal/match"
	"github.com/beyond-expertise/backend/internal/search"
	"github.com/beyond-expertise/backend/internal/textnorm"
)

// snapshot is an immutable corpus+index pair. Reload builds a new one
// and swaps the pointer, so in-flight reads never observe a partially
// rebuilt state.
type snapshot struct {
	corpus *catalog.Corpus
	index  *search.Index
}

// Engine owns the retrieval core. All collaborators are injected at
// construction, there is no package-level state.
type Engine struct {
	Config     *config.Config
	Logger     *logrus.Entry
	Loader     *catalog.Loader
	Normalizer *textnorm.Normalizer
	Matcher    *match.Matcher

	mu    sync.RWMutex
	snap  *snapshot
	stats Stats
}

// Stats describes the current snapshot.
type Stats struct {
	Courses     int       `json:"courses"`
	Internal    int       `json:"internal"`
	External    int       `json:"external"`
	Indexed     int       `json:"indexed"`
	Fingerprint string    `json:"fingerprint"`
	LoadedAt    time.Time `json:"loaded_at"`
	Reloads     int       `json:"reloads"`
	CacheHit    bool      `json:"cache_hit"`
}

func NewEngine(cfg *config.Config, logger *logrus.Entry, loader *catalog.Loader, normalizer *textnorm.Normalizer) *Engine {
	return &Engine{
		Config:     cfg,
		Logger:     logger,
		Loader:     loader,
		Normalizer: normalizer,
		Matcher:    match.New(logger),
	}
}

// Start loads the corpus and installs the first snapshot, reusing the
// persisted index when its fingerprint still matches the corpus. A
// broken or stale cache is never fatal: it falls back to a full build.
func (e *Engine) Start() error {
	corpus := e.Loader.Load()

	var index *search.Index
	cacheHit := false
	if path := e.Config.Index.CachePath; path != "" {
		cached, err := search.LoadCache(path, e.Normalizer)
		switch {
		case err != nil:
			e.Logger.WithError(err).Warn("Index cache unusable, rebuilding")
		case cached.Fingerprint != corpus.Fingerprint:
			e.Logger.Info("Index cache stale, rebuilding")
		default:
			index = cached
			cacheHit = true
		}
	}

	if index == nil {
		index = e.buildIndex(corpus)
		e.persist(index)
	}

	e.install(corpus, index, cacheHit, false)
	return nil
}

// Reload re-reads the corpus and swaps in a fresh snapshot. When force
// is false and the fingerprint is unchanged, the current snapshot stays.
func (e *Engine) Reload(force bool) error {
	corpus := e.Loader.Load()

	e.mu.RLock()
	current := e.snap
	e.mu.RUnlock()
	if !force && current != nil && current.corpus.Fingerprint == corpus.Fingerprint {
		e.Logger.Debug("Corpus unchanged, keeping current index")
		return nil
	}

	index := e.buildIndex(corpus)
	e.persist(index)
	e.install(corpus, index, false, true)
	return nil
}

func (e *Engine) buildIndex(corpus *catalog.Corpus) *search.Index {
	started := time.Now()
	index := search.Build(corpus, e.Normalizer, e.Config.Index.MinNGram, e.Config.Index.MaxNGram)
	e.Logger.WithFields(logrus.Fields{
		"indexed":  len(index.Meta),
		"duration": time.Since(started).String(),
	}).Info("Index built")
	return index
}

func (e *Engine) persist(index *search.Index) {
	path := e.Config.Index.CachePath
	if path == "" {
		return
	}
	if err := index.Save(path); err != nil {
		e.Logger.WithError(err).Warnf("Failed to persist index to %s", path)
	}
}

func (e *Engine) install(corpus *catalog.Corpus, index *search.Index, cacheHit, isReload bool) {
	internal, external := corpus.BySource()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap = &snapshot{corpus: corpus, index: index}
	reloads := e.stats.Reloads
	if isReload {
		reloads++
	}
	e.stats = Stats{
		Courses:     len(corpus.Courses),
		Internal:    len(internal),
		External:    len(external),
		Indexed:     len(index.Meta),
		Fingerprint: corpus.Fingerprint,
		LoadedAt:    time.Now(),
		Reloads:     reloads,
		CacheHit:    cacheHit,
	}
}

// Search runs a free-text similarity query against the current index.
// Calling it before Start is a contract violation (ErrNotFitted).
func (e *Engine) Search(query string, k int) ([]search.Match, error) {
	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()
	if snap == nil {
		return nil, search.ErrNotFitted
	}
	return snap.index.Search(query, k)
}

// MatchProfile scores the corpus against a user profile.
func (e *Engine) MatchProfile(objective, knowledge, level string, minScore int) []match.Scored {
	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()
	if snap == nil {
		return nil
	}
	return e.Matcher.Match(snap.corpus.Courses, objective, knowledge, level, minScore)
}

// Filter applies structured criteria to the corpus.
func (e *Engine) Filter(criteria filter.Criteria) []*catalog.Course {
	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()
	if snap == nil {
		return nil
	}
	return filter.Apply(snap.corpus.Courses, criteria)
}

// Stats returns a copy of the current snapshot statistics.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

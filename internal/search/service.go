// Package search serves site search from Elasticsearch, falling back to
// database ILIKE queries when the cluster is disabled or failing.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/circuitbreaker"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50

	syncTimeout = 10 * time.Second
)

// ErrUnknownType is returned for a type filter other than product, news or career.
var ErrUnknownType = errors.New("unknown search type")

var searchTypes = []string{models.SearchTypeProduct, models.SearchTypeNews, models.SearchTypeCareer}

// Fallback searches one table of publicly visible rows.
type Fallback interface {
	SearchPublic(ctx context.Context, term string, limit int) ([]models.SearchHit, error)
}

// Service answers site search queries and keeps the index in sync.
type Service struct {
	index     *Index
	breaker   *circuitbreaker.Breaker
	fallbacks map[string]Fallback
	logger    logger.Logger
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewService creates the search service. index may be nil.
func NewService(index *Index, fallbacks map[string]Fallback, log logger.Logger) *Service {
	s := &Service{
		index:     index,
		fallbacks: fallbacks,
		logger:    log,
		now:       time.Now,
	}
	// Repeated cluster failures route queries to the database without
	// waiting on Elasticsearch timeouts.
	s.breaker = circuitbreaker.New(circuitbreaker.Config{
		OnStateChange: func(from, to circuitbreaker.State) {
			s.logger.Warn("Search circuit breaker changed state",
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	return s
}

// Enabled reports whether an Elasticsearch index backs the service.
func (s *Service) Enabled() bool {
	return s.index != nil
}

// ValidType reports whether t is empty or a searchable type.
func ValidType(t string) bool {
	return t == "" || t == models.SearchTypeProduct || t == models.SearchTypeNews || t == models.SearchTypeCareer
}

// Search returns up to limit hits for term, optionally restricted to one type.
func (s *Service) Search(ctx context.Context, term, docType string, limit int) ([]models.SearchHit, error) {
	if !ValidType(docType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, docType)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	term = strings.TrimSpace(term)
	if term == "" {
		return []models.SearchHit{}, nil
	}

	if s.index != nil {
		var hits []models.SearchHit
		err := s.breaker.Execute(func() error {
			var queryErr error
			hits, queryErr = s.index.Query(ctx, term, docType, limit)
			return queryErr
		})
		switch {
		case err == nil:
			return hits, nil
		case errors.Is(err, circuitbreaker.ErrOpen):
			logger.FromContext(ctx).Debug("Search circuit open, using database fallback")
		default:
			logger.FromContext(ctx).Warn("Elasticsearch search failed, using database fallback",
				logger.String("index", s.index.Name()),
				logger.Error(err),
			)
		}
	}

	return s.searchDatabase(ctx, term, docType, limit)
}

func (s *Service) searchDatabase(ctx context.Context, term, docType string, limit int) ([]models.SearchHit, error) {
	hits := []models.SearchHit{}
	for _, t := range searchTypes {
		if docType != "" && docType != t {
			continue
		}
		fallback, ok := s.fallbacks[t]
		if !ok {
			continue
		}

		found, err := fallback.SearchPublic(ctx, term, limit)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", t, err)
		}
		hits = append(hits, found...)
	}

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *Service) sync(doc Document, visible bool) {
	if s.index == nil {
		return
	}

	s.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		var err error
		if visible {
			err = s.index.Put(ctx, doc)
		} else {
			err = s.index.Remove(ctx, doc.key())
		}
		if err != nil {
			s.logger.Warn("Search index sync failed",
				logger.String("document_id", doc.key()),
				logger.Bool("visible", visible),
				logger.Error(err),
			)
		}
	})
}

// SyncProduct indexes p when active and removes it otherwise.
func (s *Service) SyncProduct(p *models.Product) {
	s.sync(ProductDocument(p))
}

// SyncNews indexes n when published and removes it otherwise.
func (s *Service) SyncNews(n *models.News) {
	s.sync(NewsDocument(n))
}

// SyncCareer indexes c when publicly visible and removes it otherwise.
func (s *Service) SyncCareer(c *models.Career) {
	s.sync(CareerDocument(c, models.NewDate(s.now())))
}

// Remove deletes a record's document asynchronously.
func (s *Service) Remove(docType string, id uuid.UUID) {
	s.sync(Document{Type: docType, ID: id.String()}, false)
}

// RemoveAll deletes documents for several records of one type.
func (s *Service) RemoveAll(docType string, ids []uuid.UUID) {
	for _, id := range ids {
		s.Remove(docType, id)
	}
}

// Wait blocks until pending index writes finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Reindex rebuilds the index from the database.
func (s *Service) Reindex(ctx context.Context, products ProductLister, news NewsLister, careers CareerLister) (int, error) {
	if s.index == nil {
		return 0, errors.New("elasticsearch is disabled")
	}

	docs, err := CollectDocuments(ctx, products, news, careers)
	if err != nil {
		return 0, err
	}

	count, err := s.index.Rebuild(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	s.logger.Info("Search index rebuilt",
		logger.String("index", s.index.Name()),
		logger.Int("documents", count),
	)
	return count, nil
}

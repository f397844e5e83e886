package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"type":       map[string]any{"type": "keyword"},
			"id":         map[string]any{"type": "keyword"},
			"slug":       map[string]any{"type": "keyword"},
			"title":      map[string]any{"type": "text"},
			"summary":    map[string]any{"type": "text"},
			"body":       map[string]any{"type": "text"},
			"deadline":   map[string]any{"type": "date", "format": "yyyy-MM-dd"},
			"updated_at": map[string]any{"type": "date"},
		},
	},
}

// Index reads and writes the site content index.
type Index struct {
	client *es.Client
	name   string
	logger logger.Logger
}

// NewIndex returns an index handle, or nil when client is nil.
func NewIndex(client *es.Client, name string, log logger.Logger) *Index {
	if client == nil {
		return nil
	}
	return &Index{client: client, name: name, logger: log}
}

// Name returns the index name.
func (ix *Index) Name() string {
	return ix.name
}

func responseError(res *esapi.Response, action string) error {
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("%s returned error [%d]: %s", action, res.StatusCode, string(body))
}

// Exists reports whether the index exists.
func (ix *Index) Exists(ctx context.Context) (bool, error) {
	res, err := ix.client.Indices.Exists([]string{ix.name}, ix.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.IsError() {
		return false, responseError(res, "index exists")
	}
	return true, nil
}

// Ensure creates the index with its mapping when it does not exist.
func (ix *Index) Ensure(ctx context.Context) error {
	exists, err := ix.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return ix.create(ctx)
}

func (ix *Index) create(ctx context.Context) error {
	body, err := json.Marshal(indexMapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	res, err := ix.client.Indices.Create(ix.name,
		ix.client.Indices.Create.WithBody(bytes.NewReader(body)),
		ix.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res, "create index")
	}

	ix.logger.Info("Search index created", logger.String("index", ix.name))
	return nil
}

func (ix *Index) drop(ctx context.Context) error {
	res, err := ix.client.Indices.Delete([]string{ix.name}, ix.client.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError(res, "delete index")
	}
	return nil
}

// Put indexes or replaces a document.
func (ix *Index) Put(ctx context.Context, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	res, err := ix.client.Index(ix.name, bytes.NewReader(body),
		ix.client.Index.WithDocumentID(doc.key()),
		ix.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res, "index document")
	}
	return nil
}

// Remove deletes a document. A missing document is not an error.
func (ix *Index) Remove(ctx context.Context, docID string) error {
	res, err := ix.client.Delete(ix.name, docID, ix.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError(res, "delete document")
	}
	return nil
}

// Rebuild drops and recreates the index, then bulk-loads docs.
func (ix *Index) Rebuild(ctx context.Context, docs []Document) (int, error) {
	if err := ix.drop(ctx); err != nil {
		return 0, err
	}
	if err := ix.create(ctx); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		meta := map[string]any{"index": map[string]any{"_id": doc.key()}}
		if err := enc.Encode(meta); err != nil {
			return 0, fmt.Errorf("encode bulk action: %w", err)
		}
		if err := enc.Encode(doc); err != nil {
			return 0, fmt.Errorf("encode bulk document: %w", err)
		}
	}

	res, err := ix.client.Bulk(&buf,
		ix.client.Bulk.WithIndex(ix.name),
		ix.client.Bulk.WithRefresh("true"),
		ix.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, responseError(res, "bulk index")
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
	}
	if err = json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return 0, fmt.Errorf("decode bulk response: %w", err)
	}
	if bulkResp.Errors {
		return 0, errors.New("bulk index reported item failures")
	}
	return len(docs), nil
}

// deadlineNotPassed matches documents without a deadline or with one that
// is today or later.
var deadlineNotPassed = map[string]any{
	"bool": map[string]any{
		"should": []any{
			map[string]any{"bool": map[string]any{
				"must_not": map[string]any{"exists": map[string]any{"field": "deadline"}},
			}},
			map[string]any{"range": map[string]any{"deadline": map[string]any{"gte": "now/d"}}},
		},
		"minimum_should_match": 1,
	},
}

func buildQuery(term, docType string, limit int) map[string]any {
	boolQuery := map[string]any{
		"must": []any{
			map[string]any{
				"multi_match": map[string]any{
					"query":     term,
					"fields":    []string{"title^3", "summary^2", "body"},
					"type":      "best_fields",
					"fuzziness": "AUTO",
				},
			},
		},
	}
	filters := []any{deadlineNotPassed}
	if docType != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"type": docType}})
	}
	boolQuery["filter"] = filters

	return map[string]any{
		"size":    limit,
		"query":   map[string]any{"bool": boolQuery},
		"_source": []string{"type", "id", "slug", "title", "summary"},
	}
}

// Query runs a multi_match search over title, summary and body.
func (ix *Index) Query(ctx context.Context, term, docType string, limit int) ([]models.SearchHit, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(term, docType, limit)); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	res, err := ix.client.Search(
		ix.client.Search.WithContext(ctx),
		ix.client.Search.WithIndex(ix.name),
		ix.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError(res, "search")
	}

	var esResponse struct {
		Hits struct {
			Hits []struct {
				Score  float64  `json:"_score"`
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err = json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode elasticsearch response: %w", err)
	}

	hits := make([]models.SearchHit, 0, len(esResponse.Hits.Hits))
	for _, h := range esResponse.Hits.Hits {
		hits = append(hits, models.SearchHit{
			Type:    h.Source.Type,
			ID:      h.Source.ID,
			Slug:    h.Source.Slug,
			Title:   h.Source.Title,
			Summary: h.Source.Summary,
			Score:   h.Score,
		})
	}
	return hits, nil
}

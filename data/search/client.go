// Package search provides the unified movie index client. It speaks to
// OpenSearch, Elasticsearch or Meilisearch behind one interface, picking
// the engine at startup from configuration and health probes.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/sony/gobreaker"

	"github.com/flickfinder/flickfinder/config"
	"github.com/flickfinder/flickfinder/data/search/elastic"
	"github.com/flickfinder/flickfinder/data/search/meili"
	"github.com/flickfinder/flickfinder/data/search/opensearch"
	"github.com/flickfinder/flickfinder/movie"
)

var (
	// ErrUnavailable reports that the index could not serve the request.
	// Callers map it to a service-unavailable response and must not
	// retry internally.
	ErrUnavailable = errors.New("search engine unavailable")

	// ErrEngineNotFound reports an unknown engine name.
	ErrEngineNotFound = errors.New("search engine not found")
)

// Client unified search client with configuration support
type Client struct {
	elasticsearch *elastic.Client
	opensearch    *opensearch.Client
	meilisearch   *meili.Client
	engine        Engine
	index         string
	autoCreate    bool
	breaker       *gobreaker.CircuitBreaker

	indexReady map[string]bool
	readyMu    sync.RWMutex
}

// NewClient creates the unified client from configuration. Engine
// selection prefers the configured default when it is healthy, then
// falls back in priority order OpenSearch, Elasticsearch, Meilisearch.
func NewClient(cfg *config.Search) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("search config is nil")
	}

	var (
		es  *elastic.Client
		os  *opensearch.Client
		ms  *meili.Client
		err error
	)

	if cfg.OpenSearch != nil {
		os, err = opensearch.NewClient(cfg.OpenSearch.Addresses, cfg.OpenSearch.Username, cfg.OpenSearch.Password, cfg.OpenSearch.InsecureSkipTLS)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Elasticsearch != nil {
		es, err = elastic.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Meilisearch != nil {
		ms = meili.NewMeilisearch(cfg.Meilisearch.Host, cfg.Meilisearch.APIKey)
	}

	c := &Client{
		elasticsearch: es,
		opensearch:    os,
		meilisearch:   ms,
		index:         cfg.Index,
		autoCreate:    cfg.AutoCreateIndex,
		indexReady:    make(map[string]bool),
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "search",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	c.setEngine(cfg.DefaultEngine)
	return c, nil
}

// setEngine determines the engine based on availability and config
func (c *Client) setEngine(preferred string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	switch Engine(preferred) {
	case OpenSearch:
		if c.opensearch != nil && c.healthOpenSearch(ctx) == nil {
			c.engine = OpenSearch
			return
		}
	case Elasticsearch:
		if c.elasticsearch != nil && c.healthElasticsearch(ctx) == nil {
			c.engine = Elasticsearch
			return
		}
	case Meilisearch:
		if c.meilisearch != nil && c.healthMeilisearch(ctx) == nil {
			c.engine = Meilisearch
			return
		}
	}

	// Fallback to priority order
	if c.opensearch != nil && c.healthOpenSearch(ctx) == nil {
		c.engine = OpenSearch
	} else if c.elasticsearch != nil && c.healthElasticsearch(ctx) == nil {
		c.engine = Elasticsearch
	} else if c.meilisearch != nil && c.healthMeilisearch(ctx) == nil {
		c.engine = Meilisearch
	}
}

// GetEngine returns primary engine
func (c *Client) GetEngine() Engine {
	return c.engine
}

// IndexName returns the logical collection name in use.
func (c *Client) IndexName() string {
	return c.index
}

// Execute runs the search request against the active engine and returns
// the ranked ID sequence with the authoritative total. All failures,
// including an open breaker, surface as ErrUnavailable.
func (c *Client) Execute(ctx context.Context, req *movie.SearchRequest) (*Result, error) {
	if c.engine == "" {
		return nil, fmt.Errorf("%w: no engine configured", ErrUnavailable)
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (any, error) {
		switch c.engine {
		case Elasticsearch:
			return c.searchElasticsearch(ctx, req)
		case OpenSearch:
			return c.searchOpenSearch(ctx, req)
		case Meilisearch:
			return c.searchMeilisearch(ctx, req)
		default:
			return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, c.engine)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	result := out.(*Result)
	result.Duration = time.Since(start)
	result.Engine = c.engine
	return result, nil
}

// Index upserts one document, replacing any previous version under the
// same ID.
func (c *Client) Index(ctx context.Context, doc movie.Document) error {
	if c.engine == "" {
		return fmt.Errorf("%w: no engine configured", ErrUnavailable)
	}

	if c.autoCreate {
		if err := c.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("failed to ensure index exists: %w", err)
		}
	}

	docID := strconv.FormatInt(doc.ID, 10)
	var err error
	switch c.engine {
	case Elasticsearch:
		err = c.elasticsearch.IndexDocument(ctx, c.index, docID, doc)
	case OpenSearch:
		err = c.opensearch.IndexDocument(ctx, c.index, docID, doc)
	case Meilisearch:
		err = c.meilisearch.IndexDocuments(c.index, []any{doc}, "id")
	default:
		err = fmt.Errorf("%w: %s", ErrEngineNotFound, c.engine)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes one document by ID.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if c.engine == "" {
		return fmt.Errorf("%w: no engine configured", ErrUnavailable)
	}

	docID := strconv.FormatInt(id, 10)
	var err error
	switch c.engine {
	case Elasticsearch:
		err = c.elasticsearch.DeleteDocument(ctx, c.index, docID)
	case OpenSearch:
		err = c.opensearch.DeleteDocument(ctx, c.index, docID)
	case Meilisearch:
		err = c.meilisearch.DeleteDocuments(c.index, docID)
	default:
		err = fmt.Errorf("%w: %s", ErrEngineNotFound, c.engine)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// GetFingerprint looks up the stored content digest for one document.
// The second return reports whether the document exists in the index.
func (c *Client) GetFingerprint(ctx context.Context, id int64) (string, bool, error) {
	var (
		hits []Hit
		err  error
	)

	switch c.engine {
	case Elasticsearch, OpenSearch:
		query := fmt.Sprintf(`{"query":{"term":{"id":%d}},"size":1}`, id)
		hits, _, err = c.rawSearch(ctx, query)
	case Meilisearch:
		params := &meili.SearchParams{Filter: fmt.Sprintf("id = %d", id), Limit: 1}
		var resp *meilisearch.SearchResponse
		resp, err = c.meilisearch.Search(c.index, "", params)
		if err == nil {
			for _, h := range resp.Hits {
				if m, ok := h.(map[string]any); ok {
					hits = append(hits, Hit{Source: m})
				}
			}
		}
	default:
		return "", false, fmt.Errorf("%w: no engine configured", ErrUnavailable)
	}

	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(hits) == 0 {
		return "", false, nil
	}

	fp, _ := hits[0].Source["fingerprint"].(string)
	return fp, true, nil
}

// EnsureIndex creates the movie index with its mapping when it does not
// exist yet. Creation results are cached per engine.
func (c *Client) EnsureIndex(ctx context.Context) error {
	cacheKey := fmt.Sprintf("%s:%s", c.engine, c.index)

	c.readyMu.RLock()
	ready := c.indexReady[cacheKey]
	c.readyMu.RUnlock()
	if ready {
		return nil
	}

	var err error
	switch c.engine {
	case Elasticsearch:
		var exists bool
		exists, err = c.elasticsearch.IndexExists(ctx, c.index)
		if err == nil && !exists {
			err = c.elasticsearch.CreateIndex(ctx, c.index, movieMapping)
		}
	case OpenSearch:
		var exists bool
		exists, err = c.opensearch.IndexExists(ctx, c.index)
		if err == nil && !exists {
			err = c.opensearch.CreateIndex(ctx, c.index, movieMapping)
		}
	case Meilisearch:
		err = c.ensureMeilisearchIndex()
	default:
		err = fmt.Errorf("%w: %s", ErrEngineNotFound, c.engine)
	}
	if err != nil {
		return err
	}

	c.readyMu.Lock()
	c.indexReady[cacheKey] = true
	c.readyMu.Unlock()
	return nil
}

// DeleteIndex drops the movie index. Used by the reindex path before a
// full rebuild.
func (c *Client) DeleteIndex(ctx context.Context) error {
	c.readyMu.Lock()
	c.indexReady = make(map[string]bool)
	c.readyMu.Unlock()

	switch c.engine {
	case Elasticsearch:
		return c.elasticsearch.DeleteIndex(ctx, c.index)
	case OpenSearch:
		return c.opensearch.DeleteIndex(ctx, c.index)
	case Meilisearch:
		return c.meilisearch.DeleteIndex(c.index)
	default:
		return fmt.Errorf("%w: %s", ErrEngineNotFound, c.engine)
	}
}

// Health checks all engines health
func (c *Client) Health(ctx context.Context) map[Engine]error {
	results := make(map[Engine]error)

	if c.elasticsearch != nil {
		results[Elasticsearch] = c.healthElasticsearch(ctx)
	}
	if c.opensearch != nil {
		results[OpenSearch] = c.healthOpenSearch(ctx)
	}
	if c.meilisearch != nil {
		results[Meilisearch] = c.healthMeilisearch(ctx)
	}

	return results
}

// searchElasticsearch performs Elasticsearch search
func (c *Client) searchElasticsearch(ctx context.Context, req *movie.SearchRequest) (*Result, error) {
	query, err := BuildQuery(req)
	if err != nil {
		return nil, err
	}

	hits, total, err := c.rawSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Result{IDs: hitIDs(hits), Total: total}, nil
}

// searchOpenSearch performs OpenSearch search
func (c *Client) searchOpenSearch(ctx context.Context, req *movie.SearchRequest) (*Result, error) {
	query, err := BuildQuery(req)
	if err != nil {
		return nil, err
	}

	hits, total, err := c.rawSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Result{IDs: hitIDs(hits), Total: total}, nil
}

// searchMeilisearch performs Meilisearch search
func (c *Client) searchMeilisearch(ctx context.Context, req *movie.SearchRequest) (*Result, error) {
	params := &meili.SearchParams{
		Offset: int64((req.Page - 1) * req.PageSize),
		Limit:  int64(req.PageSize),
		Sort:   []string{fmt.Sprintf("%s:%s", req.SortField, req.SortOrder)},
	}
	if filter := buildMeiliFilter(req); filter != "" {
		params.Filter = filter
	}

	msResp, err := c.meilisearch.Search(c.index, strings.TrimSpace(req.Text), params)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(msResp.Hits))
	for _, hit := range msResp.Hits {
		hitMap, ok := hit.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := sourceID(hitMap); ok {
			ids = append(ids, id)
		}
	}

	return &Result{IDs: ids, Total: msResp.EstimatedTotalHits}, nil
}

// rawSearch executes a query body against the active ES/OS engine and
// parses the standard hits envelope.
func (c *Client) rawSearch(ctx context.Context, query string) ([]Hit, int64, error) {
	switch c.engine {
	case Elasticsearch:
		resp, err := c.elasticsearch.Search(ctx, c.index, query)
		if err != nil {
			return nil, 0, err
		}
		defer resp.Body.Close()

		if resp.IsError() {
			return nil, 0, fmt.Errorf("elasticsearch returned status: %s", resp.Status())
		}
		return decodeHits(resp.Body)
	case OpenSearch:
		osResp, err := c.opensearch.Search(ctx, c.index, query)
		if err != nil {
			return nil, 0, err
		}

		hits := make([]Hit, len(osResp.Hits.Hits))
		for i, hit := range osResp.Hits.Hits {
			var source map[string]any
			_ = json.Unmarshal(hit.Source, &source)
			hits[i] = Hit{
				ID:     hit.ID,
				Score:  float64(hit.Score),
				Source: source,
			}
		}
		return hits, int64(osResp.Hits.Total.Value), nil
	default:
		return nil, 0, fmt.Errorf("%w: %s", ErrEngineNotFound, c.engine)
	}
}

// decodeHits parses the Elasticsearch hits envelope.
func decodeHits(body io.Reader) ([]Hit, int64, error) {
	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string         `json:"_id"`
				Score  float64        `json:"_score"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(body).Decode(&esResp); err != nil {
		return nil, 0, err
	}

	hits := make([]Hit, len(esResp.Hits.Hits))
	for i, hit := range esResp.Hits.Hits {
		hits[i] = Hit{
			ID:     hit.ID,
			Score:  hit.Score,
			Source: hit.Source,
		}
	}
	return hits, esResp.Hits.Total.Value, nil
}

// hitIDs extracts document IDs in rank order.
func hitIDs(hits []Hit) []int64 {
	ids := make([]int64, 0, len(hits))
	for _, hit := range hits {
		if id, ok := sourceID(hit.Source); ok {
			ids = append(ids, id)
			continue
		}
		if id, err := strconv.ParseInt(hit.ID, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func sourceID(source map[string]any) (int64, bool) {
	switch v := source["id"].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		id, err := v.Int64()
		return id, err == nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

func (c *Client) ensureMeilisearchIndex() error {
	client := c.meilisearch.GetClient()
	if client == nil {
		return errors.New("meilisearch client is nil")
	}

	index := client.Index(c.index)

	filterable := meiliFilterableFields
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		return fmt.Errorf("failed to set filterable attributes: %w", err)
	}

	sortable := meiliSortableFields
	if _, err := index.UpdateSortableAttributes(&sortable); err != nil {
		return fmt.Errorf("failed to set sortable attributes: %w", err)
	}

	return nil
}

// healthElasticsearch checks Elasticsearch health
func (c *Client) healthElasticsearch(ctx context.Context) error {
	if c.elasticsearch == nil {
		return errors.New("elasticsearch client not available")
	}
	client := c.elasticsearch.GetClient()
	if client == nil {
		return errors.New("elasticsearch client is nil")
	}
	res, err := client.Info()
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.Status())
	}
	return nil
}

// healthOpenSearch checks OpenSearch health
func (c *Client) healthOpenSearch(ctx context.Context) error {
	if c.opensearch == nil {
		return errors.New("opensearch client not available")
	}
	_, err := c.opensearch.Health(ctx)
	return err
}

// healthMeilisearch checks Meilisearch health
func (c *Client) healthMeilisearch(ctx context.Context) error {
	if c.meilisearch == nil {
		return errors.New("meilisearch client not available")
	}
	client := c.meilisearch.GetClient()
	if client == nil {
		return errors.New("meilisearch client is nil")
	}
	_, err := client.Health()
	return err
}

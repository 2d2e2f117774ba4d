// Package elastic wraps the Elasticsearch client used by the movie
// index.
package elastic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Client Elasticsearch client
type Client struct {
	client *elasticsearch.Client
}

// NewClient new Elasticsearch client
func NewClient(addresses []string, username, password string) (*Client, error) {
	if len(addresses) == 0 {
		return &Client{client: nil}, nil
	}

	cfg := elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation error: %w", err)
	}

	return &Client{client: es}, nil
}

// Search search from Elasticsearch. The caller owns the response body.
func (c *Client) Search(ctx context.Context, indexName, query string) (*esapi.Response, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("elasticsearch client is nil, cannot perform search")
	}

	res, err := c.client.Search(
		c.client.Search.WithContext(ctx),
		c.client.Search.WithIndex(indexName),
		c.client.Search.WithBody(strings.NewReader(query)),
		c.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// IndexDocument index document to Elasticsearch
func (c *Client) IndexDocument(ctx context.Context, indexName string, documentID string, document any) error {
	if c == nil || c.client == nil {
		return errors.New("elasticsearch client is nil, cannot index documents")
	}

	var b strings.Builder
	enc := json.NewEncoder(&b)
	if err := enc.Encode(document); err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: documentID,
		Body:       strings.NewReader(b.String()),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("elasticsearch indexing error: %w", err)
	}

	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	if res.IsError() {
		return fmt.Errorf("elasticsearch indexing error: %s", res.Status())
	}

	return nil
}

// DeleteDocument delete document from Elasticsearch
func (c *Client) DeleteDocument(ctx context.Context, indexName, documentID string) error {
	if c == nil || c.client == nil {
		return errors.New("elasticsearch client is nil, cannot delete documents")
	}

	req := esapi.DeleteRequest{
		Index:      indexName,
		DocumentID: documentID,
		Refresh:    "true",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return err
	}

	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch deletion error: %s", res.Status())
	}

	return nil
}

// CreateIndex creates an index with the provided mappings. An index that
// already exists is not an error.
func (c *Client) CreateIndex(ctx context.Context, indexName string, mappings string) error {
	if c == nil || c.client == nil {
		return errors.New("elasticsearch client is nil, cannot create index")
	}

	res, err := c.client.Indices.Create(
		indexName,
		c.client.Indices.Create.WithContext(ctx),
		c.client.Indices.Create.WithBody(strings.NewReader(mappings)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch create index error: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("elasticsearch create index error: %s", res.Status())
	}

	return nil
}

// IndexExists checks if an index exists
func (c *Client) IndexExists(ctx context.Context, indexName string) (bool, error) {
	if c == nil || c.client == nil {
		return false, errors.New("elasticsearch client is nil, cannot check index")
	}

	res, err := c.client.Indices.Exists(
		[]string{indexName},
		c.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("elasticsearch index exists error: %w", err)
	}
	defer res.Body.Close()

	return res.StatusCode == 200, nil
}

// DeleteIndex deletes an index. A missing index is not an error.
func (c *Client) DeleteIndex(ctx context.Context, indexName string) error {
	if c == nil || c.client == nil {
		return errors.New("elasticsearch client is nil, cannot delete index")
	}

	res, err := c.client.Indices.Delete(
		[]string{indexName},
		c.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete index error: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch delete index error: %s", res.Status())
	}

	return nil
}

// GetClient get Elasticsearch client
func (c *Client) GetClient() *elasticsearch.Client {
	return c.client
}

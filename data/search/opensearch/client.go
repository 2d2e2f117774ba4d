// Package opensearch wraps the OpenSearch API client used by the movie
// index.
package opensearch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// Client OpenSearch client
type Client struct {
	client *opensearchapi.Client
}

// NewClient creates a new OpenSearch client
func NewClient(addresses []string, username, password string, insecure bool) (*Client, error) {
	if len(addresses) == 0 {
		return &Client{client: nil}, nil
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: insecure,
		},
	}

	client, err := opensearchapi.NewClient(
		opensearchapi.Config{
			Client: opensearch.Config{
				Addresses:  addresses,
				Username:   username,
				Password:   password,
				Transport:  transport,
				MaxRetries: 3,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opensearch client creation error: %w", err)
	}

	return &Client{client: client}, nil
}

// Search performs a search in OpenSearch
func (c *Client) Search(ctx context.Context, indexName, query string) (*opensearchapi.SearchResp, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("opensearch client is nil, cannot perform search")
	}

	searchReq := opensearchapi.SearchReq{
		Indices: []string{indexName},
		Body:    strings.NewReader(query),
	}

	res, err := c.client.Search(ctx, &searchReq)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// IndexDocument indexes a document in OpenSearch
func (c *Client) IndexDocument(ctx context.Context, indexName string, documentID string, document any) error {
	if c == nil || c.client == nil {
		return errors.New("opensearch client is nil, cannot index documents")
	}

	data, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	indexReq := opensearchapi.IndexReq{
		Index:      indexName,
		DocumentID: documentID,
		Body:       strings.NewReader(string(data)),
		Params:     opensearchapi.IndexParams{Refresh: "true"},
	}

	_, err = c.client.Index(ctx, indexReq)
	if err != nil {
		return fmt.Errorf("opensearch indexing error: %w", err)
	}

	return nil
}

// DeleteDocument deletes a document from OpenSearch
func (c *Client) DeleteDocument(ctx context.Context, indexName, documentID string) error {
	if c == nil || c.client == nil {
		return errors.New("opensearch client is nil, cannot delete documents")
	}

	deleteReq := opensearchapi.DocumentDeleteReq{
		Index:      indexName,
		DocumentID: documentID,
		Params:     opensearchapi.DocumentDeleteParams{Refresh: "true"},
	}

	_, err := c.client.Document.Delete(ctx, deleteReq)
	if err != nil {
		return fmt.Errorf("opensearch deletion error: %w", err)
	}

	return nil
}

// CreateIndex creates a new index with optional mappings
func (c *Client) CreateIndex(ctx context.Context, indexName string, mappings string) error {
	if c == nil || c.client == nil {
		return errors.New("opensearch client is nil, cannot create index")
	}

	createReq := opensearchapi.IndicesCreateReq{
		Index: indexName,
	}
	if mappings != "" {
		createReq.Body = strings.NewReader(mappings)
	}

	_, err := c.client.Indices.Create(ctx, createReq)
	if err != nil {
		var opensearchError *opensearch.StructError
		if errors.As(err, &opensearchError) {
			if opensearchError.Err.Type == "resource_already_exists_exception" {
				return nil
			}
		}
		return fmt.Errorf("opensearch create index error: %w", err)
	}

	return nil
}

// IndexExists checks if an index exists
func (c *Client) IndexExists(ctx context.Context, indexName string) (bool, error) {
	if c == nil || c.client == nil {
		return false, errors.New("opensearch client is nil, cannot check index")
	}

	existsReq := opensearchapi.IndicesExistsReq{
		Indices: []string{indexName},
	}

	res, err := c.client.Indices.Exists(ctx, existsReq)
	if err != nil {
		return false, fmt.Errorf("opensearch index exists error: %w", err)
	}

	return res.StatusCode == 200, nil
}

// DeleteIndex deletes an index
func (c *Client) DeleteIndex(ctx context.Context, indexName string) error {
	if c == nil || c.client == nil {
		return errors.New("opensearch client is nil, cannot delete index")
	}

	deleteReq := opensearchapi.IndicesDeleteReq{
		Indices: []string{indexName},
	}

	_, err := c.client.Indices.Delete(ctx, deleteReq)
	if err != nil {
		var opensearchError *opensearch.StructError
		if errors.As(err, &opensearchError) {
			if opensearchError.Err.Type == "index_not_found_exception" {
				return nil
			}
		}
		return fmt.Errorf("opensearch delete index error: %w", err)
	}

	return nil
}

// GetClient returns the OpenSearch client
func (c *Client) GetClient() *opensearchapi.Client {
	return c.client
}

// Health checks cluster health
func (c *Client) Health(ctx context.Context) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("opensearch client is nil, cannot check health")
	}

	healthReq := opensearchapi.ClusterHealthReq{}

	res, err := c.client.Cluster.Health(ctx, &healthReq)
	if err != nil {
		return "", fmt.Errorf("opensearch health check error: %w", err)
	}

	return res.Status, nil
}

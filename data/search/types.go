package search

import "time"

// Engine represents search engine type
type Engine string

const (
	Elasticsearch Engine = "elasticsearch"
	OpenSearch    Engine = "opensearch"
	Meilisearch   Engine = "meilisearch"
)

// Result carries the ranked ID sequence and the authoritative total hit
// count from the index. The total drives pagination math even when the
// page itself carries fewer records.
type Result struct {
	IDs      []int64       `json:"ids"`
	Total    int64         `json:"total"`
	Duration time.Duration `json:"duration"`
	Engine   Engine        `json:"engine"`
}

// Hit represents a raw search result item
type Hit struct {
	ID     string         `json:"id"`
	Score  float64        `json:"score"`
	Source map[string]any `json:"source"`
}

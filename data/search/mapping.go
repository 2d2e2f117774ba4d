package search

// movieMapping defines the movie index schema for Elasticsearch and
// OpenSearch. genres carries a keyword sub-field and original_language
// is a plain keyword, so exact filter clauses work alongside the
// analyzed text fields.
const movieMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"properties": {
			"id": {"type": "long"},
			"title": {"type": "text"},
			"overview": {"type": "text"},
			"genres": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"runtime_mins": {"type": "integer"},
			"release_date": {"type": "date", "format": "yyyy-MM-dd"},
			"original_language": {"type": "keyword"},
			"poster_path": {"type": "keyword"},
			"popularity": {"type": "float"},
			"fingerprint": {"type": "keyword"}
		}
	}
}`

// meiliFilterableFields are declared filterable on the Meilisearch index
// so the same exact-match clauses can be expressed there.
var meiliFilterableFields = []string{"id", "genres", "original_language", "popularity"}

// meiliSortableFields mirror the sortable record fields.
var meiliSortableFields = []string{"popularity", "release_date", "runtime_mins"}

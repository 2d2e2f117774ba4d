package config

import (
	"github.com/spf13/viper"
)

// Ingest holds the ingestion batch configuration.
type Ingest struct {
	// Terms is the set of sampling search terms, one record batch per rune.
	Terms string `json:"terms" yaml:"terms"`
	// PagesPerTerm is how many upstream result pages are fetched per term.
	PagesPerTerm int `json:"pages_per_term" yaml:"pages_per_term"`
}

func getIngestConfig(v *viper.Viper) *Ingest {
	terms := v.GetString("ingest.terms")
	if terms == "" {
		terms = "abcdefghijklmnopqrstuvwxyz"
	}

	pages := v.GetInt("ingest.pages_per_term")
	if pages <= 0 {
		pages = 2
	}

	return &Ingest{
		Terms:        terms,
		PagesPerTerm: pages,
	}
}

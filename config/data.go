package config

import (
	"time"

	"github.com/spf13/viper"
)

// Data holds the configuration for the two stores and the cache.
type Data struct {
	Database *DBNode `yaml:"database" json:"database"`
	Search   *Search `yaml:"search" json:"search"`
	Redis    *Redis  `yaml:"redis" json:"redis"`
}

// DBNode represents a single database node configuration.
type DBNode struct {
	Driver          string        `json:"driver" yaml:"driver"`
	Source          string        `json:"source" yaml:"source"`
	Migrate         bool          `json:"migrate" yaml:"migrate"`
	MaxIdleConn     int           `json:"max_idle_conn" yaml:"max_idle_conn"`
	MaxOpenConn     int           `json:"max_open_conn" yaml:"max_open_conn"`
	ConnMaxLifeTime time.Duration `json:"conn_max_life_time" yaml:"conn_max_life_time"`
}

// Search represents search engine configuration.
type Search struct {
	DefaultEngine   string         `yaml:"default_engine" json:"default_engine"`
	Index           string         `yaml:"index" json:"index"`
	AutoCreateIndex bool           `yaml:"auto_create_index" json:"auto_create_index"`
	OpenSearch      *OpenSearch    `yaml:"opensearch" json:"opensearch"`
	Elasticsearch   *Elasticsearch `yaml:"elasticsearch" json:"elasticsearch"`
	Meilisearch     *Meilisearch   `yaml:"meilisearch" json:"meilisearch"`
}

// OpenSearch opensearch config struct.
type OpenSearch struct {
	Addresses       []string `json:"addresses" yaml:"addresses"`
	Username        string   `json:"username" yaml:"username"`
	Password        string   `json:"password" yaml:"password"`
	InsecureSkipTLS bool     `json:"insecure_skip_tls" yaml:"insecure_skip_tls"`
}

// Elasticsearch elasticsearch config struct.
type Elasticsearch struct {
	Addresses []string `json:"addresses" yaml:"addresses"`
	Username  string   `json:"username" yaml:"username"`
	Password  string   `json:"password" yaml:"password"`
}

// Meilisearch meilisearch config struct.
type Meilisearch struct {
	Host   string `json:"host" yaml:"host"`
	APIKey string `json:"api_key" yaml:"api_key"`
}

// Redis redis config struct.
type Redis struct {
	Addr         string        `json:"addr" yaml:"addr"`
	Username     string        `json:"username" yaml:"username"`
	Password     string        `json:"password" yaml:"password"`
	Db           int           `json:"db" yaml:"db"`
	CacheTTL     time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
}

// getDataConfig reads the data configurations.
func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		Database: getDatabaseConfig(v),
		Search:   getSearchConfig(v),
		Redis:    getRedisConfig(v),
	}
}

// getDatabaseConfig reads database configurations.
func getDatabaseConfig(v *viper.Viper) *DBNode {
	return &DBNode{
		Driver:          v.GetString("data.database.driver"),
		Source:          v.GetString("data.database.source"),
		Migrate:         v.GetBool("data.database.migrate"),
		MaxIdleConn:     v.GetInt("data.database.max_idle_conn"),
		MaxOpenConn:     v.GetInt("data.database.max_open_conn"),
		ConnMaxLifeTime: v.GetDuration("data.database.max_life_time"),
	}
}

// getSearchConfig reads search configurations.
func getSearchConfig(v *viper.Viper) *Search {
	index := v.GetString("data.search.index")
	if index == "" {
		index = "movies"
	}

	engine := v.GetString("data.search.default_engine")
	if engine == "" {
		engine = "opensearch"
	}

	return &Search{
		DefaultEngine:   engine,
		Index:           index,
		AutoCreateIndex: v.GetBool("data.search.auto_create_index"),
		OpenSearch: &OpenSearch{
			Addresses:       v.GetStringSlice("data.opensearch.addresses"),
			Username:        v.GetString("data.opensearch.username"),
			Password:        v.GetString("data.opensearch.password"),
			InsecureSkipTLS: v.GetBool("data.opensearch.insecure_skip_tls"),
		},
		Elasticsearch: &Elasticsearch{
			Addresses: v.GetStringSlice("data.elasticsearch.addresses"),
			Username:  v.GetString("data.elasticsearch.username"),
			Password:  v.GetString("data.elasticsearch.password"),
		},
		Meilisearch: &Meilisearch{
			Host:   v.GetString("data.meilisearch.host"),
			APIKey: v.GetString("data.meilisearch.api_key"),
		},
	}
}

// getRedisConfig reads Redis configurations.
func getRedisConfig(v *viper.Viper) *Redis {
	return &Redis{
		Addr:         v.GetString("data.redis.addr"),
		Username:     v.GetString("data.redis.username"),
		Password:     v.GetString("data.redis.password"),
		Db:           v.GetInt("data.redis.db"),
		CacheTTL:     v.GetDuration("data.redis.cache_ttl"),
		ReadTimeout:  v.GetDuration("data.redis.read_timeout"),
		WriteTimeout: v.GetDuration("data.redis.write_timeout"),
		DialTimeout:  v.GetDuration("data.redis.dial_timeout"),
	}
}

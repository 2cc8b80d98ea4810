package config

// ElasticsearchConfig holds the connection settings for the parking-space
// search index
type ElasticsearchConfig struct {
	URL        string
	Index      string
	Username   string
	Password   string
	MaxRetries int
}

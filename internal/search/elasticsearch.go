package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"epark/internal/config"
	"epark/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchClient indexes parking spaces for text and geo search
type ElasticsearchClient struct {
	client *elasticsearch.Client
	config config.ElasticsearchConfig
}

// spaceDocument is the index representation of a parking space; location
// is a geo_point so searches can filter and sort by distance
type spaceDocument struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Area            string   `json:"area"`
	Address         string   `json:"address"`
	TotalSpaces     int      `json:"total_spaces"`
	AvailableSpaces int      `json:"available_spaces"`
	Amenities       []string `json:"amenities"`
	PricePerHour    int64    `json:"price_per_hour"`
	Status          string   `json:"status"`
	Location        geoPoint `json:"location"`
	UpdatedAt       string   `json:"updated_at"`
}

type geoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SpaceHit is a search result plus its distance from the search origin,
// when the search had one
type SpaceHit struct {
	Space      models.ParkingSpace
	DistanceKm *float64
}

// NewElasticsearchClient creates the search client and ensures the
// spaces index exists
func NewElasticsearchClient(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{
		client: es,
		config: cfg,
	}

	if err := client.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.config.Index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.config.Index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":   map[string]interface{}{"type": "keyword"},
				"name": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256},
					},
				},
				"area":             map[string]interface{}{"type": "keyword"},
				"address":          map[string]interface{}{"type": "text"},
				"total_spaces":     map[string]interface{}{"type": "integer"},
				"available_spaces": map[string]interface{}{"type": "integer"},
				"amenities":        map[string]interface{}{"type": "keyword"},
				"price_per_hour":   map[string]interface{}{"type": "long"},
				"status":           map[string]interface{}{"type": "keyword"},
				"location":         map[string]interface{}{"type": "geo_point"},
				"updated_at":       map[string]interface{}{"type": "date"},
			},
		},
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.config.Index,
		Body:  strings.NewReader(string(mappingJSON)),
	}

	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.config.Index)
	return nil
}

// IndexSpace writes a parking space document into the index
func (c *ElasticsearchClient) IndexSpace(ctx context.Context, space *models.ParkingSpace) error {
	doc := spaceDocument{
		ID:              space.ID,
		Name:            space.Name,
		Area:            space.Area,
		Address:         space.Address,
		TotalSpaces:     space.TotalSpaces,
		AvailableSpaces: space.AvailableSpaces,
		Amenities:       space.Amenities,
		PricePerHour:    space.PricePerHour,
		Status:          space.Status,
		Location:        geoPoint{Lat: space.Latitude, Lon: space.Longitude},
		UpdatedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal space: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.config.Index,
		DocumentID: space.ID,
		Body:       strings.NewReader(string(docJSON)),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index space: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}

	return nil
}

// DeleteSpace removes a parking space document from the index
func (c *ElasticsearchClient) DeleteSpace(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      c.config.Index,
		DocumentID: id,
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete space: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete error: %s", res.String())
	}

	return nil
}

// SearchSpaces searches active spaces by text query, area and optional
// geo radius. When an origin is supplied, results come back sorted
// nearest-first with the distance in km.
func (c *ElasticsearchClient) SearchSpaces(ctx context.Context, req *models.SearchSpacesRequest) ([]SpaceHit, error) {
	from := 0
	pageSize := req.PageSize
	if req.Page > 0 && pageSize > 0 {
		from = (req.Page - 1) * pageSize
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	hasOrigin := req.Lat != 0 || req.Lon != 0

	searchRequest := map[string]interface{}{
		"query": c.buildSearchQuery(req, hasOrigin),
		"sort":  c.buildSortQuery(req, hasOrigin),
		"from":  from,
		"size":  pageSize,
	}

	searchJSON, err := json.Marshal(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	searchReq := esapi.SearchRequest{
		Index: []string{c.config.Index},
		Body:  strings.NewReader(string(searchJSON)),
	}

	res, err := searchReq.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source spaceDocument `json:"_source"`
				Sort   []float64     `json:"sort"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]SpaceHit, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		hits[i] = SpaceHit{Space: models.ParkingSpace{
			ID:              hit.Source.ID,
			Name:            hit.Source.Name,
			Area:            hit.Source.Area,
			Address:         hit.Source.Address,
			TotalSpaces:     hit.Source.TotalSpaces,
			AvailableSpaces: hit.Source.AvailableSpaces,
			Amenities:       hit.Source.Amenities,
			PricePerHour:    hit.Source.PricePerHour,
			Latitude:        hit.Source.Location.Lat,
			Longitude:       hit.Source.Location.Lon,
			Status:          hit.Source.Status,
		}}
		if hasOrigin && len(hit.Sort) > 0 {
			distance := hit.Sort[0]
			hits[i].DistanceKm = &distance
		}
	}

	return hits, nil
}

func (c *ElasticsearchClient) buildSearchQuery(req *models.SearchSpacesRequest, hasOrigin bool) map[string]interface{} {
	mustQueries := []map[string]interface{}{
		{"term": map[string]interface{}{"status": "active"}},
	}

	if req.Query != "" {
		mustQueries = append(mustQueries, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     req.Query,
				"fields":    []string{"name^2", "address", "area"},
				"fuzziness": "AUTO",
			},
		})
	}

	if req.Area != "" {
		mustQueries = append(mustQueries, map[string]interface{}{
			"term": map[string]interface{}{"area": req.Area},
		})
	}

	if hasOrigin && req.RadiusKm > 0 {
		mustQueries = append(mustQueries, map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": fmt.Sprintf("%fkm", req.RadiusKm),
				"location": geoPoint{Lat: req.Lat, Lon: req.Lon},
			},
		})
	}

	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must": mustQueries,
		},
	}
}

func (c *ElasticsearchClient) buildSortQuery(req *models.SearchSpacesRequest, hasOrigin bool) []map[string]interface{} {
	if hasOrigin {
		return []map[string]interface{}{
			{"_geo_distance": map[string]interface{}{
				"location": geoPoint{Lat: req.Lat, Lon: req.Lon},
				"order":    "asc",
				"unit":     "km",
			}},
		}
	}

	if req.Query != "" {
		return []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"id": map[string]interface{}{"order": "asc"}},
		}
	}

	return []map[string]interface{}{
		{"name.keyword": map[string]interface{}{"order": "asc"}},
	}
}

// HealthCheck verifies the cluster is reachable
func (c *ElasticsearchClient) HealthCheck(ctx context.Context) error {
	req := esapi.ClusterHealthRequest{
		WaitForStatus: "yellow",
		Timeout:       10 * time.Second,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("health check error: %s", res.String())
	}

	return nil
}

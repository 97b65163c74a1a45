package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/metrics"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/telemetry"
)

// IndexVideos is the name of the video index
const IndexVideos = "videos"

// Client keeps the external search service's video index in step with the
// store. Ranking and querying stay with the search service.
type Client struct {
	es *elasticsearch.Client
}

// NewClient creates an Elasticsearch client for url and verifies it
// answers.
func NewClient(url string) (*Client, error) {
	if url == "" {
		url = "http://localhost:9200"
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Transport: telemetry.NewInstrumentedTransport(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info: [%s]", res.Status())
	}

	return &Client{es: es}, nil
}

// Ping checks that the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Info(c.es.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	return responseError(res, "pinging cluster")
}

var videoMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":          map[string]interface{}{"type": "keyword"},
			"ownerId":     map[string]interface{}{"type": "keyword"},
			"username":    map[string]interface{}{"type": "keyword"},
			"title":       map[string]interface{}{"type": "text", "analyzer": "standard"},
			"description": map[string]interface{}{"type": "text", "analyzer": "standard"},
			"duration":    map[string]interface{}{"type": "float"},
			"views":       map[string]interface{}{"type": "long"},
			"isPublished": map[string]interface{}{"type": "boolean"},
			"createdAt":   map[string]interface{}{"type": "date"},
			"syncedAt":    map[string]interface{}{"type": "date"},
		},
	},
}

// EnsureIndex creates the video index with its mapping when missing.
func (c *Client) EnsureIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{IndexVideos}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := json.Marshal(videoMapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	res, err = c.es.Indices.Create(IndexVideos,
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()
	return responseError(res, "creating index")
}

// IndexVideo creates or replaces the document of a video.
func (c *Client) IndexVideo(ctx context.Context, doc VideoDoc) error {
	start := time.Now()
	err := c.indexVideo(ctx, doc)
	metrics.RecordSearchSync(IndexVideos, "index", time.Since(start), err)
	return err
}

func (c *Client) indexVideo(ctx context.Context, doc VideoDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal video document: %w", err)
	}

	res, err := c.es.Index(IndexVideos, bytes.NewReader(body),
		c.es.Index.WithDocumentID(doc.ID),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index video: %w", err)
	}
	defer res.Body.Close()
	return responseError(res, "indexing video")
}

// DeleteVideo removes a video document. A missing document is not an error.
func (c *Client) DeleteVideo(ctx context.Context, videoID string) error {
	start := time.Now()
	err := c.deleteVideo(ctx, videoID)
	metrics.RecordSearchSync(IndexVideos, "delete", time.Since(start), err)
	return err
}

func (c *Client) deleteVideo(ctx context.Context, videoID string) error {
	res, err := c.es.Delete(IndexVideos, videoID, c.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError(res, "deleting video")
}

// DeleteStaleVideos removes every document last written before the given
// time, including documents that were never stamped. It returns how many
// documents were deleted.
func (c *Client) DeleteStaleVideos(ctx context.Context, before time.Time) (int, error) {
	start := time.Now()
	n, err := c.deleteStaleVideos(ctx, before)
	metrics.RecordSearchSync(IndexVideos, "prune", time.Since(start), err)
	return n, err
}

func (c *Client) deleteStaleVideos(ctx context.Context, before time.Time) (int, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{"range": map[string]interface{}{
						// The index stores dates at millisecond precision.
						"syncedAt": map[string]interface{}{"lt": before.UTC().Truncate(time.Millisecond).Format(time.RFC3339Nano)},
					}},
					map[string]interface{}{"bool": map[string]interface{}{
						"must_not": map[string]interface{}{"exists": map[string]interface{}{"field": "syncedAt"}},
					}},
				},
				"minimum_should_match": 1,
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal prune query: %w", err)
	}

	res, err := c.es.DeleteByQuery([]string{IndexVideos}, bytes.NewReader(body),
		c.es.DeleteByQuery.WithContext(ctx),
		c.es.DeleteByQuery.WithConflicts("proceed"),
		c.es.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune videos: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res, "pruning videos"); err != nil {
		return 0, err
	}

	var out struct {
		Deleted int `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode prune response: %w", err)
	}
	return out.Deleted, nil
}

func responseError(res *esapi.Response, action string) error {
	if !res.IsError() {
		return nil
	}
	var errResp map[string]interface{}
	if err := json.NewDecoder(io.LimitReader(res.Body, 64<<10)).Decode(&errResp); err != nil {
		return fmt.Errorf("error %s: [%s]", action, res.Status())
	}
	return fmt.Errorf("error %s: [%s] %v", action, res.Status(), errResp["error"])
}

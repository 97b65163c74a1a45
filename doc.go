// Package vidshare documents the vidshare API server, a video sharing
// backend with channels, comments, tweets, playlists, likes and
// subscriptions.
//
// The binaries live under cmd/:
//
//   - cmd/server: the HTTP API
//   - cmd/migrate: schema migration and search reindexing
//   - cmd/seed: development fixtures
//   - cmd/cli: a command line client for the API
//
// The API itself is organized into internal packages:
//
//   - internal/handlers: HTTP request handlers for all API endpoints
//   - internal/service: business rules for every resource
//   - internal/models: data models and database schemas
//   - internal/repository: user and subscription graph reads
//   - internal/auth: password login and JWT issuing
//   - internal/storage: blob uploads to S3 or MinIO
//   - internal/media: duration probing with ffprobe
//   - internal/search: Elasticsearch video index
//   - internal/queue: background search index writes
//   - internal/cache: Redis client and channel stats cache
//   - internal/middleware: auth, rate limiting, logging, metrics and tracing
//   - internal/database: connection and migrations
//
// See the individual package documentation for detailed API reference.
package vidshare

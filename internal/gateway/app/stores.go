package app

import (
	"fmt"
	"log"

	"aiba/internal/gateway/config"
	"aiba/internal/gateway/repository/artifact"
)

// initDocumentStore prefers S3-compatible object storage when configured and
// falls back to process memory otherwise.
func initDocumentStore(cfg *config.Config) (artifact.Store, error) {
	if !cfg.Artifact.Enabled {
		log.Printf("document store: in-memory (no object storage configured)")
		return artifact.NewMemoryStore(), nil
	}
	s3Store, err := artifact.NewS3Store(artifact.S3Config{
		Endpoint:  cfg.Artifact.Endpoint,
		Region:    cfg.Artifact.Region,
		AccessKey: cfg.Artifact.AccessKey,
		SecretKey: cfg.Artifact.SecretKey,
		Bucket:    cfg.Artifact.Bucket,
		UseSSL:    cfg.Artifact.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}
	log.Printf("document store: s3 bucket=%s endpoint=%s", cfg.Artifact.Bucket, cfg.Artifact.Endpoint)
	return s3Store, nil
}

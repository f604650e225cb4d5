// Package archive uploads reconciled snapshots to object storage so every
// run leaves a retrievable JSON copy of the state it produced.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoEnrollSync/GoEnrollSync/internal/db/models"
)

// Config holds the object storage settings for snapshot archiving.
type Config struct {
	// Enabled turns snapshot archiving on.
	Enabled bool `toml:"enabled"`
	// Endpoint is the S3-compatible endpoint host:port.
	Endpoint string `toml:"endpoint"`
	// AccessKey is the access key id.
	AccessKey string `toml:"accessKey"`
	// SecretKey is the secret access key.
	SecretKey string `toml:"secretKey"`
	// Bucket is the target bucket, which must already exist.
	Bucket string `toml:"bucket"`
	// Prefix is prepended to every object key.
	Prefix string `toml:"prefix"`
	// UseSSL enables TLS towards the endpoint.
	UseSSL bool `toml:"useSsl"`
}

// Archiver stores snapshots in an S3-compatible bucket.
type Archiver struct {
	client *minio.Client
	cfg    Config
}

// New creates an archiver. Returns nil without error when archiving is
// disabled, so callers can treat the feature as optional.
func New(cfg Config) (*Archiver, error) {
	if !cfg.Enabled {
		return nil, nil //nolint:nilnil // disabled archiving is not an error
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create object storage client")
	}

	return &Archiver{client: client, cfg: cfg}, nil
}

// Store uploads the snapshot as one JSON object keyed by date and run id.
func (a *Archiver) Store(ctx context.Context, snap models.Snapshot, runID string, at time.Time) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}

	key := path.Join(a.cfg.Prefix, at.UTC().Format("2006-01-02"), runID+".json")

	_, err = a.client.PutObject(
		ctx,
		a.cfg.Bucket,
		key,
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return errors.Wrapf(err, "failed to upload snapshot %s", key)
	}

	log.Info().Str("bucket", a.cfg.Bucket).Str("key", key).Int("bytes", len(payload)).Msg("archived snapshot")

	return nil
}

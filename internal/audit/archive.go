// Package audit archives scoring round-trips to object storage. The raw
// oracle reply is kept verbatim next to the score so format drift can be
// diagnosed after the fact.
package audit

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Record is one archived scoring round-trip.
type Record struct {
	Task      string    `json:"task"`
	Score     int       `json:"score"`
	Raw       string    `json:"rawResponse"`
	Defaulted bool      `json:"defaulted"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

// Archive writes score records as JSON objects into a bucket.
type Archive struct {
	client *minio.Client
	bucket string
}

func NewArchive(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Archive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return &Archive{client: client, bucket: bucket}, nil
}

// Store writes one record. Object keys shard by day so buckets stay listable.
func (a *Archive) Store(ctx context.Context, record Record) error {
	if record.At.IsZero() {
		record.At = time.Now().UTC()
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	key := fmt.Sprintf("scores/%s/%s.json", record.At.Format("2006-01-02"), randomSuffix())
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put audit object %s: %w", key, err)
	}
	return nil
}

// StoreAsync archives in the background; a lost audit record never blocks or
// fails a scoring request.
func (a *Archive) StoreAsync(record Record) {
	if a == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.Store(ctx, record); err != nil {
			log.Printf("audit: %v", err)
		}
	}()
}

func randomSuffix() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

package export

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"

	"github.com/dvloznov/fintrack/internal/store"
)

// Uploader writes CSV snapshots to a GCS bucket under
// exports/<user>/<date>.csv.
type Uploader struct {
	bucket string
	log    zerolog.Logger
}

// NewUploader creates an Uploader targeting the given bucket.
func NewUploader(bucket string, log zerolog.Logger) *Uploader {
	return &Uploader{bucket: bucket, log: log}
}

// Snapshot exports the user's transactions in [start, end] and uploads them.
// Returns the gs:// URI of the written object.
func (u *Uploader) Snapshot(ctx context.Context, st store.Store, userID string, start, end civil.Date) (string, error) {
	transactions, err := st.ListTransactions(ctx, userID, start, end)
	if err != nil {
		return "", fmt.Errorf("export: listing transactions for %s: %w", userID, err)
	}

	data, err := BuildCSV(transactions)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("exports/%s/%s.csv", userID, end.String())
	if err := u.upload(ctx, objectName, data); err != nil {
		return "", err
	}

	uri := fmt.Sprintf("gs://%s/%s", u.bucket, objectName)
	u.log.Info().
		Str("user_id", userID).
		Str("uri", uri).
		Int("transactions", len(transactions)).
		Msg("Exported transaction snapshot")

	return uri, nil
}

// upload writes data to the bucket. Assumes Application Default Credentials
// are configured.
func (u *Uploader) upload(ctx context.Context, objectName string, data []byte) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("export: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "text/csv"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("export: write to GCS object %q: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("export: close GCS writer for %q: %w", objectName, err)
	}

	return nil
}

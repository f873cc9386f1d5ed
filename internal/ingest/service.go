package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"datamart-service/internal/catalog"
	"datamart-service/internal/decode"
	"datamart-service/internal/notify"
	"datamart-service/internal/util"

	"go.uber.org/zap"
)

// ErrNoRows is the batch error for an upload that decoded to zero rows
var ErrNoRows = errors.New("file contained no data rows")

// UploadService drives a bulk upload: decode, normalize, append. Batch
// errors (unsupported type, malformed file, zero rows) abort before any
// catalog mutation.
type UploadService struct {
	decoder   *decode.Decoder
	catalog   *catalog.Store
	publisher *notify.Publisher
	logger    *zap.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(decoder *decode.Decoder, store *catalog.Store, publisher *notify.Publisher) *UploadService {
	return &UploadService{
		decoder:   decoder,
		catalog:   store,
		publisher: publisher,
		logger:    util.NamedLogger("ingest"),
	}
}

// Upload ingests one uploaded file into the catalog and returns the number
// of entries appended
func (s *UploadService) Upload(ctx context.Context, filename string, data []byte) (int, error) {
	_, span := util.StartSpan(ctx, "UploadService.Upload")
	defer span.End()

	ext := filepath.Ext(filename)

	rows, err := s.decoder.Decode(data, ext)
	if err != nil {
		util.UploadsFailedTotal.WithLabelValues("decode").Inc()
		s.logger.Warn("Upload decode failed",
			zap.String("filename", filename),
			zap.Error(err))
		s.publisher.UploadFailed(err)
		return 0, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	if len(rows) == 0 {
		util.UploadsFailedTotal.WithLabelValues("empty").Inc()
		s.publisher.UploadFailed(ErrNoRows)
		return 0, ErrNoRows
	}

	entries := Normalize(rows)
	appended := s.catalog.Append(entries)

	util.UploadsTotal.Inc()
	util.RowsIngestedTotal.Add(float64(len(entries)))

	s.logger.Info("Upload ingested",
		zap.String("filename", filename),
		zap.Int("rows", len(rows)),
		zap.Int("appended", appended))
	s.publisher.UploadSucceeded(appended)

	return appended, nil
}

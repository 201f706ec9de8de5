// backend-go/internal/ingest/service.go
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/service"
	"github.com/orderdesk/backend-go/internal/storage"
)

// processedPrefix is where scanned objects are parked so a rescan does not
// stage them twice.
const processedPrefix = "processed/"

// Service watches a bucket prefix for dropped spreadsheets and stages each
// one for the configured user, then moves the object out of the inbox.
type Service struct {
	store   storage.ObjectStorage
	staging *service.StagingService
	prefix  string
	actor   domain.Actor
}

func NewService(store storage.ObjectStorage, staging *service.StagingService, prefix string, actor domain.Actor) *Service {
	if prefix == "" {
		prefix = "inbox/"
	}
	return &Service{
		store:   store,
		staging: staging,
		prefix:  prefix,
		actor:   actor,
	}
}

// ScanResult reports one scan pass over the inbox.
type ScanResult struct {
	Scanned int      `json:"scanned"`
	Staged  int      `json:"staged"`
	Skipped int      `json:"skipped"`
	Files   []string `json:"files"`
}

// Scan lists the inbox prefix, stages every spreadsheet, and parks each
// handled object under the processed prefix. A failing object is skipped and
// left in place for the next scan.
func (s *Service) Scan(ctx context.Context) (*ScanResult, error) {
	if !s.actor.Valid() {
		return nil, fmt.Errorf("ingest actor is not configured")
	}

	objects, err := s.store.ListObjects(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}

	result := &ScanResult{}
	for _, obj := range objects {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result.Scanned++
		name := path.Base(obj.Key)
		if !strings.EqualFold(path.Ext(name), ".xlsx") {
			result.Skipped++
			continue
		}

		if err := s.ingestObject(ctx, obj.Key, name); err != nil {
			log.Error().Err(err).Str("key", obj.Key).Msg("ingest failed, leaving object in inbox")
			result.Skipped++
			continue
		}

		result.Staged++
		result.Files = append(result.Files, name)
	}

	log.Info().
		Int("scanned", result.Scanned).
		Int("staged", result.Staged).
		Int("skipped", result.Skipped).
		Msg("inbox scan finished")
	return result, nil
}

func (s *Service) ingestObject(ctx context.Context, key, name string) error {
	data, err := s.store.GetObject(ctx, key)
	if err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}

	if _, err := s.staging.Stage(ctx, s.actor, name, bytes.NewReader(data), ""); err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}

	// Park the original so rescans skip it. Copy first, delete after.
	parked := processedPrefix + strings.TrimPrefix(key, s.prefix)
	if err := s.store.PutObject(ctx, parked, data); err != nil {
		return fmt.Errorf("park %s: %w", key, err)
	}
	if err := s.store.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("remove %s from inbox: %w", key, err)
	}
	return nil
}

// backend-go/internal/service/staging.go
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
	"github.com/orderdesk/backend-go/internal/storage"
	"github.com/orderdesk/backend-go/internal/xlsx"
)

// StagingService holds uploaded spreadsheets in the temporary area until the
// user confirms or discards them. Staged files are private to the uploader.
type StagingService struct {
	staged   repository.StagedFileRepository
	malls    repository.MallRepository
	products repository.ProductRepository
	store    storage.ObjectStorage
}

func NewStagingService(
	staged repository.StagedFileRepository,
	malls repository.MallRepository,
	products repository.ProductRepository,
	store storage.ObjectStorage,
) *StagingService {
	return &StagingService{
		staged:   staged,
		malls:    malls,
		products: products,
		store:    store,
	}
}

// Stage parses the workbook, keeps the original bytes in object storage, and
// persists the staged row. The vendor hint is optional; an unknown vendor
// stages fine and is resolved again at confirmation.
func (s *StagingService) Stage(ctx context.Context, actor domain.Actor, fileName string, r io.Reader, mallName string) (*domain.StagedFile, error) {
	if !actor.Valid() {
		return nil, domain.ErrBadRequest
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, domain.ErrBadRequest
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	header, rows, err := xlsx.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}

	var mallID *int64
	mallName = strings.TrimSpace(mallName)
	if mallName != "" {
		mall, err := s.malls.GetByName(ctx, actor.CompanyID, mallName)
		if err != nil {
			return nil, err
		}
		if mall != nil {
			mallID = &mall.ID
		}
	}

	file := &domain.StagedFile{
		ID:           uuid.NewString(),
		CompanyID:    actor.CompanyID,
		UserID:       actor.UserID,
		FileName:     fileName,
		MallID:       mallID,
		MallName:     mallName,
		Table:        domain.TableJSON{Header: header, Rows: rows},
		CodeMap:      domain.StringMap{},
		ProductIDMap: domain.Int64Map{},
	}
	file.ObjectKey = fmt.Sprintf("staged/%d/%s.xlsx", actor.CompanyID, file.ID)

	if err := s.store.PutObject(ctx, file.ObjectKey, raw); err != nil {
		return nil, fmt.Errorf("store original: %w", err)
	}
	if err := s.staged.Create(ctx, file); err != nil {
		return nil, err
	}

	log.Info().
		Str("file_id", file.ID).
		Str("file_name", fileName).
		Int("rows", len(rows)).
		Msg("spreadsheet staged")
	return file, nil
}

// AssignCode records the user's product choice for a free-text name on one
// staged file. Codes present in the catalog also record the durable product
// id; direct-input codes record only the code.
func (s *StagingService) AssignCode(ctx context.Context, actor domain.Actor, fileID, name, code string) (*domain.StagedFile, error) {
	if !actor.Valid() {
		return nil, domain.ErrBadRequest
	}
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if fileID == "" || name == "" || code == "" {
		return nil, domain.ErrBadRequest
	}

	file, err := s.getOwned(ctx, actor, fileID)
	if err != nil {
		return nil, err
	}

	if file.CodeMap == nil {
		file.CodeMap = domain.StringMap{}
	}
	if file.ProductIDMap == nil {
		file.ProductIDMap = domain.Int64Map{}
	}
	file.CodeMap[name] = code

	product, err := s.products.GetByCode(ctx, actor.CompanyID, code)
	if err != nil {
		return nil, err
	}
	if product != nil {
		file.ProductIDMap[name] = product.ID
	} else {
		delete(file.ProductIDMap, name)
	}

	if err := s.staged.UpdateMaps(ctx, file.ID, file.CodeMap, file.ProductIDMap); err != nil {
		return nil, err
	}
	return file, nil
}

// Discard removes a staged file and its stored original.
func (s *StagingService) Discard(ctx context.Context, actor domain.Actor, fileID string) error {
	if !actor.Valid() {
		return domain.ErrBadRequest
	}

	file, err := s.getOwned(ctx, actor, fileID)
	if err != nil {
		return err
	}

	if err := s.staged.Delete(ctx, actor.CompanyID, actor.UserID, file.ID); err != nil {
		return err
	}
	if file.ObjectKey != "" {
		if err := s.store.DeleteObject(ctx, file.ObjectKey); err != nil {
			log.Warn().Err(err).Str("key", file.ObjectKey).Msg("failed to delete staged original")
		}
	}
	return nil
}

// List returns the actor's own staged files.
func (s *StagingService) List(ctx context.Context, actor domain.Actor) ([]domain.StagedFile, error) {
	if !actor.Valid() {
		return nil, domain.ErrBadRequest
	}
	return s.staged.ListByUser(ctx, actor.CompanyID, actor.UserID)
}

func (s *StagingService) getOwned(ctx context.Context, actor domain.Actor, fileID string) (*domain.StagedFile, error) {
	files, err := s.staged.GetByIDs(ctx, actor.CompanyID, []string{fileID})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.ErrNotFound
	}
	if files[0].UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return &files[0], nil
}

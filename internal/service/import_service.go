package service

import (
	"context"
	"fmt"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/infra"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Fixed bucket for imported gallery images; captions are curated later in the
// admin UI, never set by imports.
const imageBucket = "product-images"

// ImportService runs the bulk product import and reconciliation pipeline:
// normalize/dedupe rows, upsert base products, resolve product-number
// references to IDs (including products outside the batch), then derive and
// upsert files, images and relations in dependency order.
//
// The pipeline is deliberately not wrapped in one transaction: each bulk
// upsert is idempotent under its unique key, so a failed run is repaired by
// re-importing the same batch. A mid-batch failure leaves earlier upserts
// committed.
type ImportService interface {
	Run(ctx context.Context, rows []dto.ImportRow) (*dto.ImportSummary, error)
}

type importService struct {
	products  repository.ProductRepository
	files     repository.ProductFileRepository
	images    repository.ProductImageRepository
	relations repository.ProductRelationRepository
	cache     *infra.CatalogCache
}

func NewImportService(
	products repository.ProductRepository,
	files repository.ProductFileRepository,
	images repository.ProductImageRepository,
	relations repository.ProductRelationRepository,
	cache *infra.CatalogCache,
) ImportService {
	return &importService{
		products:  products,
		files:     files,
		images:    images,
		relations: relations,
		cache:     cache,
	}
}

func (s *importService) Run(ctx context.Context, rows []dto.ImportRow) (*dto.ImportSummary, error) {
	normalized, err := normalizeRows(rows)
	if err != nil {
		return nil, err
	}

	summary := &dto.ImportSummary{
		RowsReceived: len(rows),
		RowsImported: len(normalized),
	}
	if len(normalized) == 0 {
		// Batch contained only blank rows: nothing to do, not an error.
		return summary, nil
	}

	// Phase 1: base products MUST be upserted and have IDs back before any
	// dependent record can be derived.
	resolution, err := s.resolveProducts(ctx, normalized)
	if err != nil {
		return nil, err
	}
	summary.Products = len(normalized)

	// Phase 2: dependent collections, each one bulk call, empty ones skipped.
	files := deriveFiles(normalized, resolution)
	if len(files) > 0 {
		if err := s.files.UpsertBatch(ctx, files); err != nil {
			return nil, fmt.Errorf("import: upsert files: %w", err)
		}
	}
	summary.Files = len(files)

	images := deriveImages(normalized, resolution)
	if len(images) > 0 {
		if err := s.images.UpsertBatch(ctx, images); err != nil {
			return nil, fmt.Errorf("import: upsert images: %w", err)
		}
	}
	summary.Images = len(images)

	relations := deriveRelations(normalized, resolution)
	if len(relations) > 0 {
		if err := s.relations.UpsertBatch(ctx, relations); err != nil {
			return nil, fmt.Errorf("import: upsert relations: %w", err)
		}
	}
	summary.Relations = len(relations)

	s.cache.Invalidate(ctx)

	log.Info().
		Int("rows_received", summary.RowsReceived).
		Int("rows_imported", summary.RowsImported).
		Int("files", summary.Files).
		Int("images", summary.Images).
		Int("relations", summary.Relations).
		Msg("import: batch complete")

	return summary, nil
}

// resolveProducts upserts the batch's base products and returns the complete
// product-number → ID mapping for the run: batch members plus any referenced
// numbers that already exist in the store. The map is built once here and
// only read afterwards.
func (s *importService) resolveProducts(ctx context.Context, rows []importRow) (map[string]uuid.UUID, error) {
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		p := model.Product{
			ProductNo:     row.productNo,
			ProductNoNorm: row.norm,
			Name:          row.name,
			ListPrice:     row.listPrice,
			Active:        row.active,
			ThumbnailPath: row.thumbnail,
		}
		products = append(products, p)
	}

	upserted, err := s.products.UpsertBatch(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("import: upsert products: %w", err)
	}

	resolution := make(map[string]uuid.UUID, len(upserted))
	for _, p := range upserted {
		resolution[p.ProductNoNorm] = p.ID
	}

	// Relations may point at products outside this batch. Collect the
	// referenced numbers we cannot resolve yet and look them up in one call.
	missing := make([]string, 0)
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, ref := range append(append([]string{}, row.accessories...), row.spareParts...) {
			norm := normKey(ref)
			if _, ok := resolution[norm]; !ok && !seen[norm] {
				seen[norm] = true
				missing = append(missing, norm)
			}
		}
	}
	if len(missing) > 0 {
		found, err := s.products.FindIDsByNorms(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("import: resolve references: %w", err)
		}
		for norm, id := range found {
			resolution[norm] = id
		}
	}

	return resolution, nil
}

func deriveFiles(rows []importRow, resolution map[string]uuid.UUID) []model.ProductFile {
	var files []model.ProductFile
	for _, row := range rows {
		productID, ok := resolution[row.norm]
		if !ok {
			continue
		}
		for _, path := range row.documents {
			files = append(files, model.ProductFile{
				ProductID: productID,
				Path:      path,
				FileType:  model.FileTypeDocument,
				Title:     fileTitle(path),
			})
		}
	}
	return files
}

func deriveImages(rows []importRow, resolution map[string]uuid.UUID) []model.ProductImage {
	var images []model.ProductImage
	for _, row := range rows {
		productID, ok := resolution[row.norm]
		if !ok {
			continue
		}
		// Sort order restarts at 1 for every product.
		for i, path := range row.images {
			images = append(images, model.ProductImage{
				ProductID:   productID,
				StoragePath: path,
				Bucket:      imageBucket,
				SortOrder:   i + 1,
			})
		}
	}
	return images
}

func deriveRelations(rows []importRow, resolution map[string]uuid.UUID) []model.ProductRelation {
	var relations []model.ProductRelation
	for _, row := range rows {
		productID, ok := resolution[row.norm]
		if !ok {
			continue
		}
		relations = append(relations, deriveRelationKind(productID, row.productNo, row.accessories, model.RelationAccessory, resolution)...)
		relations = append(relations, deriveRelationKind(productID, row.productNo, row.spareParts, model.RelationSparePart, resolution)...)
	}
	return relations
}

// deriveRelationKind emits relation rows for one kind. Unresolvable references
// and self-references are skipped without failing the batch; sort order counts
// only the references that survive.
func deriveRelationKind(productID uuid.UUID, productNo string, refs []string, kind string, resolution map[string]uuid.UUID) []model.ProductRelation {
	var out []model.ProductRelation
	order := 0
	for _, ref := range refs {
		relatedID, ok := resolution[normKey(ref)]
		if !ok {
			log.Warn().
				Str("product_no", productNo).
				Str("reference", ref).
				Str("kind", kind).
				Msg("import: unresolved product reference, relation skipped")
			continue
		}
		if relatedID == productID {
			continue
		}
		order++
		out = append(out, model.ProductRelation{
			ProductID: productID,
			RelatedID: relatedID,
			Kind:      kind,
			SortOrder: order,
		})
	}
	return out
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/infra"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Stubs ───────────────────────────────────────────────────────────────────

// stubProductRepo mimics the upsert contract of the real repository: known
// product numbers keep their IDs, unknown ones get fresh ones.
type stubProductRepo struct {
	repository.ProductRepository

	known       map[string]uuid.UUID // norm → pre-existing ID
	upsertCalls [][]model.Product
	failUpsert  error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{known: make(map[string]uuid.UUID)}
}

func (s *stubProductRepo) UpsertBatch(_ context.Context, products []model.Product) ([]model.Product, error) {
	if s.failUpsert != nil {
		return nil, s.failUpsert
	}
	for i := range products {
		id, ok := s.known[products[i].ProductNoNorm]
		if !ok {
			id = uuid.New()
			s.known[products[i].ProductNoNorm] = id
		}
		products[i].ID = id
	}
	s.upsertCalls = append(s.upsertCalls, products)
	return products, nil
}

func (s *stubProductRepo) FindIDsByNorms(_ context.Context, norms []string) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID)
	for _, n := range norms {
		if id, ok := s.known[n]; ok {
			out[n] = id
		}
	}
	return out, nil
}

type stubFileRepo struct {
	batches [][]model.ProductFile
	fail    error
}

func (s *stubFileRepo) UpsertBatch(_ context.Context, files []model.ProductFile) error {
	if s.fail != nil {
		return s.fail
	}
	s.batches = append(s.batches, files)
	return nil
}

type stubImageRepo struct {
	batches [][]model.ProductImage
}

func (s *stubImageRepo) UpsertBatch(_ context.Context, images []model.ProductImage) error {
	s.batches = append(s.batches, images)
	return nil
}

type stubRelationRepo struct {
	batches [][]model.ProductRelation
}

func (s *stubRelationRepo) UpsertBatch(_ context.Context, relations []model.ProductRelation) error {
	s.batches = append(s.batches, relations)
	return nil
}

type importFixture struct {
	products  *stubProductRepo
	files     *stubFileRepo
	images    *stubImageRepo
	relations *stubRelationRepo
	svc       ImportService
}

func newImportFixture() *importFixture {
	f := &importFixture{
		products:  newStubProductRepo(),
		files:     &stubFileRepo{},
		images:    &stubImageRepo{},
		relations: &stubRelationRepo{},
	}
	f.svc = NewImportService(f.products, f.files, f.images, f.relations, infra.NewCatalogCache(nil))
	return f
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func TestImportRunFullPipeline(t *testing.T) {
	f := newImportFixture()

	summary, err := f.svc.Run(context.Background(), []dto.ImportRow{
		{
			ProductNo:   "PUMP-1",
			Name:        strPtr("Pump"),
			ListPrice:   strPtr("1999.00"),
			Documents:   strPtr("manuals/pump-1.pdf\nmanuals/pump-1-spare.pdf"),
			Images:      strPtr("img/pump-1-a.jpg, img/pump-1-b.jpg"),
			Accessories: strPtr("HOSE-1"),
		},
		{
			ProductNo:  "HOSE-1",
			Name:       strPtr("Hose"),
			SpareParts: strPtr("PUMP-1"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.RowsReceived)
	assert.Equal(t, 2, summary.RowsImported)
	assert.Equal(t, 2, summary.Products)
	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 2, summary.Images)
	assert.Equal(t, 2, summary.Relations)

	pumpID := f.products.known["PUMP-1"]
	hoseID := f.products.known["HOSE-1"]

	require.Len(t, f.files.batches, 1)
	files := f.files.batches[0]
	require.Len(t, files, 2)
	assert.Equal(t, pumpID, files[0].ProductID)
	assert.Equal(t, model.FileTypeDocument, files[0].FileType)
	require.NotNil(t, files[0].Title)
	assert.Equal(t, "pump-1.pdf", *files[0].Title)

	require.Len(t, f.images.batches, 1)
	images := f.images.batches[0]
	require.Len(t, images, 2)
	assert.Equal(t, 1, images[0].SortOrder)
	assert.Equal(t, 2, images[1].SortOrder)
	assert.Equal(t, "product-images", images[0].Bucket)

	require.Len(t, f.relations.batches, 1)
	relations := f.relations.batches[0]
	require.Len(t, relations, 2)
	assert.Equal(t, pumpID, relations[0].ProductID)
	assert.Equal(t, hoseID, relations[0].RelatedID)
	assert.Equal(t, model.RelationAccessory, relations[0].Kind)
	assert.Equal(t, hoseID, relations[1].ProductID)
	assert.Equal(t, pumpID, relations[1].RelatedID)
	assert.Equal(t, model.RelationSparePart, relations[1].Kind)
}

func TestImportRunResolvesOutOfBatchReferences(t *testing.T) {
	f := newImportFixture()
	existingID := uuid.New()
	f.products.known["OLD-1"] = existingID

	summary, err := f.svc.Run(context.Background(), []dto.ImportRow{
		{ProductNo: "NEW-1", Accessories: strPtr("old-1")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Relations)

	relations := f.relations.batches[0]
	require.Len(t, relations, 1)
	assert.Equal(t, existingID, relations[0].RelatedID)
}

func TestImportRunSkipsUnresolvedAndSelfReferences(t *testing.T) {
	f := newImportFixture()

	summary, err := f.svc.Run(context.Background(), []dto.ImportRow{
		{ProductNo: "A-1", Accessories: strPtr("NOPE-404, a-1, B-1")},
		{ProductNo: "B-1"},
	})
	require.NoError(t, err)

	// Unknown reference and the self-reference are dropped; only A-1 → B-1
	// survives and its sort order counts only survivors.
	assert.Equal(t, 1, summary.Relations)
	relations := f.relations.batches[0]
	require.Len(t, relations, 1)
	assert.Equal(t, f.products.known["B-1"], relations[0].RelatedID)
	assert.Equal(t, 1, relations[0].SortOrder)
}

func TestImportRunImageSortOrderRestartsPerProduct(t *testing.T) {
	f := newImportFixture()

	_, err := f.svc.Run(context.Background(), []dto.ImportRow{
		{ProductNo: "A", Images: strPtr("a1.jpg;a2.jpg;a3.jpg")},
		{ProductNo: "B", Images: strPtr("b1.jpg")},
	})
	require.NoError(t, err)

	images := f.images.batches[0]
	require.Len(t, images, 4)
	assert.Equal(t, []int{1, 2, 3}, []int{images[0].SortOrder, images[1].SortOrder, images[2].SortOrder})
	assert.Equal(t, 1, images[3].SortOrder)
}

func TestImportRunRowErrorAbortsBeforeAnyUpsert(t *testing.T) {
	f := newImportFixture()

	_, err := f.svc.Run(context.Background(), []dto.ImportRow{
		{ProductNo: "A-1", Documents: strPtr("a.pdf")},
		{ProductNo: "A-2", ListPrice: strPtr("not-a-price")},
	})
	require.Error(t, err)

	var rowErr *RowValidationError
	require.True(t, errors.As(err, &rowErr))
	assert.Empty(t, f.products.upsertCalls)
	assert.Empty(t, f.files.batches)
}

func TestImportRunEmptyBatchIsNoOp(t *testing.T) {
	f := newImportFixture()

	summary, err := f.svc.Run(context.Background(), []dto.ImportRow{
		{ProductNo: ""},
		{ProductNo: "   "},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.RowsReceived)
	assert.Equal(t, 0, summary.RowsImported)
	assert.Empty(t, f.products.upsertCalls)
}

func TestImportRunPartialProgressOnDependentFailure(t *testing.T) {
	f := newImportFixture()
	f.files.fail = errors.New("disk full")

	_, err := f.svc.Run(context.Background(), []dto.ImportRow{
		{ProductNo: "A", Documents: strPtr("a.pdf"), Images: strPtr("a.jpg")},
	})
	require.Error(t, err)

	// Products were already committed before the file upsert failed; images
	// never ran.
	require.Len(t, f.products.upsertCalls, 1)
	assert.Empty(t, f.images.batches)
}

func TestImportRunCollapsesDuplicateCellTokens(t *testing.T) {
	f := newImportFixture()

	summary, err := f.svc.Run(context.Background(), []dto.ImportRow{
		{
			ProductNo:   "PUMP-1",
			Documents:   strPtr("manual.pdf, manual.pdf"),
			Images:      strPtr("a.jpg;a.jpg"),
			Accessories: strPtr("B-1;b-1"),
		},
		{ProductNo: "B-1"},
	})
	require.NoError(t, err)

	// Each bulk statement must carry one row per conflict key: duplicates in
	// a single INSERT ... ON CONFLICT are rejected by the store.
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 1, summary.Images)
	assert.Equal(t, 1, summary.Relations)

	relations := f.relations.batches[0]
	require.Len(t, relations, 1)
	assert.Equal(t, f.products.known["B-1"], relations[0].RelatedID)
	assert.Equal(t, 1, relations[0].SortOrder)
}

func TestImportRunReimportKeepsIDs(t *testing.T) {
	f := newImportFixture()
	rows := []dto.ImportRow{
		{ProductNo: "A-1", Images: strPtr("a.jpg")},
	}

	_, err := f.svc.Run(context.Background(), rows)
	require.NoError(t, err)
	firstID := f.products.known["A-1"]

	summary, err := f.svc.Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, firstID, f.products.known["A-1"])
	assert.Equal(t, 1, summary.Products)
	assert.Equal(t, 1, summary.Images)
}

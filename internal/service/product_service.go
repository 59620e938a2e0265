package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/infra"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductService covers the catalog read side plus single-product admin
// writes. Bulk changes go through ImportService instead.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo  repository.ProductRepository
	cache *infra.CatalogCache
}

func NewProductService(repo repository.ProductRepository, cache *infra.CatalogCache) ProductService {
	return &productService{repo: repo, cache: cache}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	no := strings.TrimSpace(req.ProductNo)
	p := model.Product{
		ProductNo:     no,
		ProductNoNorm: normKey(no),
		Name:          req.Name,
		ListPrice:     req.ListPrice,
		Active:        true,
		ThumbnailPath: req.ThumbnailPath,
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("product: create: %w", err)
	}
	s.cache.Invalidate(ctx)
	resp := toProductResponse(&p)
	return &resp, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("product: get: %w", err)
	}
	resp := toProductResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	cacheKey := fmt.Sprintf("products:q=%s:active=%s:page=%d:limit=%d",
		filter.Query, filter.Active, filter.Page, filter.Limit)

	var cached dto.ProductListResponse
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("product: list: %w", err)
	}

	resp := dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data = append(resp.Data, toProductResponse(&products[i]))
	}
	if filter.Limit > 0 {
		resp.TotalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}

	s.cache.Set(ctx, cacheKey, &resp)
	return &resp, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("product: update: %w", err)
	}

	if req.Name != nil {
		p.Name = req.Name
	}
	if req.ListPrice != nil {
		p.ListPrice = req.ListPrice
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if req.ThumbnailPath != nil {
		p.ThumbnailPath = req.ThumbnailPath
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("product: update: %w", err)
	}
	s.cache.Invalidate(ctx)
	resp := toProductResponse(p)
	return &resp, nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.ensureExists(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("product: deactivate: %w", err)
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.ensureExists(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Reactivate(ctx, id); err != nil {
		return fmt.Errorf("product: reactivate: %w", err)
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *productService) ensureExists(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("product: lookup: %w", err)
	}
	return nil
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:            p.ID.String(),
		ProductNo:     p.ProductNo,
		Name:          p.Name,
		ListPrice:     p.ListPrice,
		Active:        p.Active,
		ThumbnailPath: p.ThumbnailPath,
	}
	for _, f := range p.Files {
		resp.Files = append(resp.Files, dto.ProductFileResponse{
			Path:     f.Path,
			FileType: f.FileType,
			Title:    f.Title,
		})
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, dto.ProductImageResponse{
			StoragePath: img.StoragePath,
			Bucket:      img.Bucket,
			Caption:     img.Caption,
			SortOrder:   img.SortOrder,
		})
	}
	for _, rel := range p.Relations {
		resp.Relations = append(resp.Relations, dto.ProductRelationResponse{
			RelatedID: rel.RelatedID.String(),
			Kind:      rel.Kind,
			SortOrder: rel.SortOrder,
		})
	}
	return resp
}

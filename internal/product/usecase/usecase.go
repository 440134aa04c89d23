package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danukay/stocktrack-service/internal/model"
	"github.com/danukay/stocktrack-service/internal/pkg/apperrors"
	"github.com/danukay/stocktrack-service/internal/pkg/cache"
	"github.com/danukay/stocktrack-service/internal/pkg/logger"
	"github.com/danukay/stocktrack-service/internal/pkg/search"
	"github.com/danukay/stocktrack-service/internal/product"
	"github.com/danukay/stocktrack-service/internal/product/dto"
)

const (
	productIndex    = "products"
	productCacheTTL = 5 * time.Minute
)

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

// NewProductUseCase wires the product usecase. cache and es may be nil;
// both are read-path accelerators, never sources of truth.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if input.Name == "" || input.SKU == "" {
		return nil, apperrors.Validation("name and sku are required")
	}
	if input.Quantity < 0 {
		return nil, apperrors.Validation("quantity must not be negative")
	}
	if input.Price < 0 {
		return nil, apperrors.Validation("price must not be negative")
	}

	unique, err := uc.repo.IsSKUUnique(ctx, input.OwnerID, input.SKU, "")
	if err != nil {
		return nil, apperrors.Server("check sku", err)
	}
	if !unique {
		return nil, apperrors.Validation("sku already exists")
	}

	now := time.Now()
	p := &model.Product{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OwnerID:   input.OwnerID,
		Name:      input.Name,
		SKU:       input.SKU,
		Category:  input.Category,
		Quantity:  input.Quantity,
		MinStock:  input.MinStock,
		Price:     input.Price,
		Location:  input.Location,
		Status:    model.ClassifyStockStatus(input.Quantity, input.MinStock),
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, apperrors.Server("create product", err)
	}

	go uc.invalidateProductCache(context.Background(), input.OwnerID)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, ownerID, id string) (*model.Product, error) {
	p, err := uc.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, apperrors.Server("get product", err)
	}
	if p == nil {
		return nil, apperrors.NotFound("product not found")
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey := uc.generateCacheKey(filters)

	if uc.cache != nil && cacheKey != "" {
		if val, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var result struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Products, result.Count, nil
			}
		}
	}

	// Text search goes through Elasticsearch when available; any
	// failure falls back to Postgres.
	if filters.SearchQuery != "" && uc.es != nil {
		if items, count, err := uc.searchElastic(ctx, filters); err == nil {
			return items, count, nil
		} else {
			uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperrors.Server("list products", err)
	}

	if uc.cache != nil && cacheKey != "" {
		cacheData := struct {
			Products []model.Product
			Count    int
		}{Products: products, Count: count}
		if data, err := json.Marshal(cacheData); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}

	return products, count, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if input.Name == "" || input.SKU == "" {
		return nil, apperrors.Validation("name and sku are required")
	}
	if input.Price < 0 {
		return nil, apperrors.Validation("price must not be negative")
	}

	p, err := uc.repo.GetByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, apperrors.Server("get product", err)
	}
	if p == nil {
		return nil, apperrors.NotFound("product not found")
	}

	if input.SKU != p.SKU {
		unique, err := uc.repo.IsSKUUnique(ctx, input.OwnerID, input.SKU, p.ID)
		if err != nil {
			return nil, apperrors.Server("check sku", err)
		}
		if !unique {
			return nil, apperrors.Validation("sku already exists")
		}
	}

	p.Name = input.Name
	p.SKU = input.SKU
	p.Category = input.Category
	p.MinStock = input.MinStock
	p.Price = input.Price
	p.Location = input.Location
	p.UpdatedAt = time.Now()
	// Quantity is untouched here; min_stock changes still move the
	// derived status, so recompute the cache.
	p.Status = model.ClassifyStockStatus(p.Quantity, p.MinStock)

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, apperrors.Server("update product", err)
	}

	go uc.invalidateProductCache(context.Background(), input.OwnerID)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, ownerID, id string) error {
	p, err := uc.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return apperrors.Server("get product", err)
	}
	if p == nil {
		return apperrors.NotFound("product not found")
	}

	if err := uc.repo.Delete(ctx, ownerID, id); err != nil {
		return apperrors.Server("delete product", err)
	}

	go uc.invalidateProductCache(context.Background(), ownerID)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productIndex, id); err != nil {
				uc.logger.Error("failed to remove product from index", zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) ListLowStock(ctx context.Context, ownerID string, page, pageSize int) ([]model.Product, int, error) {
	items, count, err := uc.repo.FindLowStock(ctx, ownerID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.Server("list low stock", err)
	}
	return items, count, nil
}

func (uc *productUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	items, count, err := uc.repo.ListMovements(ctx, filters)
	if err != nil {
		return nil, 0, apperrors.Server("list movements", err)
	}
	return items, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"query_string": map[string]interface{}{
							"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
							"fields": []string{"name^3", "sku", "category"},
						},
					},
					{
						"term": map[string]interface{}{
							"owner_id": filters.OwnerID,
						},
					},
				},
			},
		},
		"from": (filters.Page - 1) * filters.PageSize,
	}
	if filters.PageSize > 0 {
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, productIndex, q)
	if err != nil {
		return nil, 0, err
	}

	var products []model.Product
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	const mapping = `{
		"mappings": {
			"properties": {
				"owner_id": { "type": "keyword" },
				"name": { "type": "text" },
				"sku": { "type": "keyword" },
				"category": { "type": "keyword" },
				"price": { "type": "double" },
				"quantity": { "type": "integer" },
				"status": { "type": "keyword" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, productIndex, mapping)

	if err := uc.es.Index(ctx, productIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context, ownerID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPrefix(ctx, "products:"+ownerID+":"); err != nil {
		uc.logger.Error("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("products:%s:%x", filters.OwnerID, md5.Sum(data))
}

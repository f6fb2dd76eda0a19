package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fixly-labs/backend-fixly/internal/common"
)

// ErrNotFound indicates the referenced catalog node does not exist.
var ErrNotFound = errors.New("catalog node not found")

// DeviceType is the root of the catalog hierarchy.
type DeviceType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Brand belongs to exactly one device type.
type Brand struct {
	ID           string `json:"id"`
	DeviceTypeID string `json:"deviceTypeId"`
	Name         string `json:"name"`
}

// Model belongs to exactly one brand.
type Model struct {
	ID      string `json:"id"`
	BrandID string `json:"brandId"`
	Name    string `json:"name"`
}

// ServiceItem is a repair service offered for a device type, with its stored
// base price and SAC reference.
type ServiceItem struct {
	ID           string          `json:"id"`
	DeviceTypeID string          `json:"deviceTypeId"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	TaxRef       string          `json:"taxRef,omitempty"`
}

// Part is a stocked spare part with its stored price and HSN reference.
type Part struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	TaxRef string          `json:"taxRef,omitempty"`
}

// Source provides catalog rows. Implementations: Store (PostgreSQL) and the
// in-memory fakes used by tests.
type Source interface {
	ListDeviceTypes(ctx context.Context) ([]DeviceType, error)
	BrandsByType(ctx context.Context, typeID string) ([]Brand, error)
	ModelsByBrand(ctx context.Context, brandID string) ([]Model, error)
	ServicesByType(ctx context.Context, typeID string) ([]ServiceItem, error)
	SearchParts(ctx context.Context, query string, limit int) ([]Part, error)
	GetBrand(ctx context.Context, id string) (Brand, error)
	GetModel(ctx context.Context, id string) (Model, error)
	GetService(ctx context.Context, id string) (ServiceItem, error)
}

// Service answers hierarchy queries, caching child lists per parent id.
type Service struct {
	source       Source
	cache        *Cache
	partsLimit   int
	maxPartsList int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Source        Source
	Cache         *Cache
	PartsLimit    int
	MaxPartsLimit int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Source == nil {
		return nil, errors.New("catalog: source is required")
	}
	partsLimit := cfg.PartsLimit
	if partsLimit < 1 {
		partsLimit = 20
	}
	maxParts := cfg.MaxPartsLimit
	if maxParts < 1 {
		maxParts = 100
	}
	if partsLimit > maxParts {
		partsLimit = maxParts
	}
	return &Service{
		source:       cfg.Source,
		cache:        cfg.Cache,
		partsLimit:   partsLimit,
		maxPartsList: maxParts,
	}, nil
}

// DeviceTypes returns all device types sorted by name.
func (s *Service) DeviceTypes(ctx context.Context) ([]DeviceType, error) {
	key := "catalog:device-types"
	if s.cache != nil {
		var cached []DeviceType
		ok, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.source.ListDeviceTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list device types: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, rows)
	}
	return rows, nil
}

// BrandsForType returns the brands whose parent is the given device type.
// An empty list is a valid answer, not an error.
func (s *Service) BrandsForType(ctx context.Context, typeID string) ([]Brand, error) {
	typeID = strings.TrimSpace(typeID)
	if typeID == "" {
		return nil, badRequest("typeId", "device type id is required", nil)
	}
	key := "catalog:brands:" + typeID
	if s.cache != nil {
		var cached []Brand
		ok, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.source.BrandsByType(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("brands for type %s: %w", typeID, err)
	}
	if rows == nil {
		rows = []Brand{}
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, rows)
	}
	return rows, nil
}

// ModelsForBrand returns the models whose parent is the given brand.
func (s *Service) ModelsForBrand(ctx context.Context, brandID string) ([]Model, error) {
	brandID = strings.TrimSpace(brandID)
	if brandID == "" {
		return nil, badRequest("brandId", "brand id is required", nil)
	}
	key := "catalog:models:" + brandID
	if s.cache != nil {
		var cached []Model
		ok, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.source.ModelsByBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("models for brand %s: %w", brandID, err)
	}
	if rows == nil {
		rows = []Model{}
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, rows)
	}
	return rows, nil
}

// ServicesForType returns the services offered for the given device type.
func (s *Service) ServicesForType(ctx context.Context, typeID string) ([]ServiceItem, error) {
	typeID = strings.TrimSpace(typeID)
	if typeID == "" {
		return nil, badRequest("typeId", "device type id is required", nil)
	}
	key := "catalog:services:" + typeID
	if s.cache != nil {
		var cached []ServiceItem
		ok, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.source.ServicesByType(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("services for type %s: %w", typeID, err)
	}
	if rows == nil {
		rows = []ServiceItem{}
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, rows)
	}
	return rows, nil
}

// SearchParts looks up stocked parts by name fragment. Part rows are not
// cached; their stored prices change too often to serve stale.
func (s *Service) SearchParts(ctx context.Context, query string, limit int) ([]Part, error) {
	if limit < 1 {
		limit = s.partsLimit
	}
	if limit > s.maxPartsList {
		limit = s.maxPartsList
	}
	rows, err := s.source.SearchParts(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search parts: %w", err)
	}
	if rows == nil {
		rows = []Part{}
	}
	return rows, nil
}

// VerifyChain checks that brand, model, and service (when present) belong to
// the selected device type, the same guarantee the selection state machine
// gives the forms. Empty ids are allowed; a partial chain is valid.
func (s *Service) VerifyChain(ctx context.Context, typeID, brandID, modelID, serviceID string) error {
	typeID = strings.TrimSpace(typeID)
	brandID = strings.TrimSpace(brandID)
	modelID = strings.TrimSpace(modelID)
	serviceID = strings.TrimSpace(serviceID)
	if modelID != "" && brandID == "" {
		return badRequest("brandId", "model selection requires a brand", nil)
	}
	if brandID != "" && typeID == "" {
		return badRequest("typeId", "brand selection requires a device type", nil)
	}
	if serviceID != "" && typeID == "" {
		return badRequest("typeId", "service selection requires a device type", nil)
	}
	if brandID != "" {
		brand, err := s.source.GetBrand(ctx, brandID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return badRequest("brandId", "unknown brand", err)
			}
			return fmt.Errorf("get brand %s: %w", brandID, err)
		}
		if brand.DeviceTypeID != typeID {
			return badRequest("brandId", "brand does not belong to the selected device type", nil)
		}
	}
	if modelID != "" {
		model, err := s.source.GetModel(ctx, modelID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return badRequest("modelId", "unknown model", err)
			}
			return fmt.Errorf("get model %s: %w", modelID, err)
		}
		if model.BrandID != brandID {
			return badRequest("modelId", "model does not belong to the selected brand", nil)
		}
	}
	if serviceID != "" {
		item, err := s.source.GetService(ctx, serviceID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return badRequest("serviceId", "unknown service", err)
			}
			return fmt.Errorf("get service %s: %w", serviceID, err)
		}
		if item.DeviceTypeID != typeID {
			return badRequest("serviceId", "service is not offered for the selected device type", nil)
		}
	}
	return nil
}

func badRequest(field, message string, err error) *common.AppError {
	return &common.AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
		Details: map[string]any{
			"field": field,
		},
	}
}

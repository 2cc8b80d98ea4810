package service

import (
	"context"
	"encoding/json"
	"fmt"

	"epark/internal/cache"
	apperrors "epark/internal/errors"
	"epark/internal/logger"
	"epark/internal/models"
	"epark/internal/repository"
	"epark/internal/search"

	"github.com/google/uuid"
)

const defaultPageSize = 20

type SpaceService struct {
	spaceRepo   *repository.SpaceRepository
	esClient    *search.ElasticsearchClient
	redisClient *cache.RedisClient
}

func NewSpaceService(spaceRepo *repository.SpaceRepository, esClient *search.ElasticsearchClient, redisClient *cache.RedisClient) *SpaceService {
	return &SpaceService{
		spaceRepo:   spaceRepo,
		esClient:    esClient,
		redisClient: redisClient,
	}
}

// Create lists a new parking space for the operator. The QR code printed
// at the lot encodes this value; scanning it leads drivers to the listing.
func (s *SpaceService) Create(ctx context.Context, operatorID string, req *models.CreateSpaceRequest) (*models.CreateSpaceResponse, error) {
	space := &models.ParkingSpace{
		Name:            req.Name,
		Area:            req.Area,
		Address:         req.Address,
		Phone:           req.Phone,
		TotalSpaces:     req.TotalSpaces,
		AvailableSpaces: req.TotalSpaces,
		Amenities:       req.Amenities,
		PricePerHour:    req.PricePerHour,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		QRCode:          "epark:space:" + uuid.New().String(),
		Status:          "active",
		OperatorID:      operatorID,
		ImageURL:        req.ImageURL,
	}

	if err := s.spaceRepo.Create(ctx, space); err != nil {
		return nil, fmt.Errorf("failed to create parking space: %w", err)
	}

	s.index(ctx, space)
	s.redisClient.InvalidateSpacesList(ctx)

	return &models.CreateSpaceResponse{
		ID:     space.ID,
		QRCode: space.QRCode,
	}, nil
}

// Update applies a partial update to the operator's own listing. Capacity
// is fixed at creation; only presentation and pricing fields can change.
func (s *SpaceService) Update(ctx context.Context, operatorID, spaceID string, req *models.UpdateSpaceRequest) error {
	space, err := s.spaceRepo.GetByID(ctx, spaceID)
	if err != nil {
		return fmt.Errorf("failed to get parking space: %w", err)
	}
	if space == nil {
		return fmt.Errorf("parking space: %w", apperrors.ErrNotFound)
	}
	if space.OperatorID != operatorID {
		return apperrors.ErrForbidden
	}

	if req.Name != nil {
		space.Name = *req.Name
	}
	if req.Phone != nil {
		space.Phone = *req.Phone
	}
	if req.Amenities != nil {
		space.Amenities = req.Amenities
	}
	if req.PricePerHour != nil {
		space.PricePerHour = *req.PricePerHour
	}
	if req.Status != nil {
		space.Status = *req.Status
	}
	if req.ImageURL != nil {
		space.ImageURL = req.ImageURL
	}

	if err := s.spaceRepo.Update(ctx, space); err != nil {
		return fmt.Errorf("failed to update parking space: %w", err)
	}

	if space.Status == "active" {
		s.index(ctx, space)
	} else {
		if err := s.esClient.DeleteSpace(ctx, space.ID); err != nil {
			logger.WithContext(ctx).Error("Failed to remove space from search index",
				"error", err, "space_id", space.ID)
		}
	}
	s.redisClient.InvalidateSpacesList(ctx)

	return nil
}

// List returns a page of active spaces as raw JSON, served from the Redis
// cache when warm.
func (s *SpaceService) List(ctx context.Context, page, pageSize int) ([]byte, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}

	if raw, err := s.redisClient.GetSpacesListRaw(ctx, page, pageSize); err == nil {
		return raw, nil
	}

	spaces, err := s.spaceRepo.ListActive(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list parking spaces: %w", err)
	}

	items := make([]models.SpaceResponseItem, len(spaces))
	for i := range spaces {
		items[i] = SpaceResponse(&spaces[i], nil)
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parking spaces: %w", err)
	}

	s.redisClient.SetSpacesList(ctx, page, pageSize, items)

	return raw, nil
}

// Search queries Elasticsearch with optional text, area and geo filters
func (s *SpaceService) Search(ctx context.Context, req *models.SearchSpacesRequest) ([]models.SpaceResponseItem, error) {
	hits, err := s.esClient.SearchSpaces(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search parking spaces: %w", err)
	}

	items := make([]models.SpaceResponseItem, len(hits))
	for i := range hits {
		items[i] = SpaceResponse(&hits[i].Space, hits[i].DistanceKm)
	}
	return items, nil
}

func (s *SpaceService) Get(ctx context.Context, spaceID string) (*models.SpaceResponseItem, error) {
	space, err := s.spaceRepo.GetByID(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get parking space: %w", err)
	}
	if space == nil {
		return nil, fmt.Errorf("parking space: %w", apperrors.ErrNotFound)
	}

	item := SpaceResponse(space, nil)
	return &item, nil
}

// ListByOperator returns all of the operator's own listings, including
// inactive ones
func (s *SpaceService) ListByOperator(ctx context.Context, operatorID string) ([]models.SpaceResponseItem, error) {
	spaces, err := s.spaceRepo.ListByOperator(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list parking spaces: %w", err)
	}

	items := make([]models.SpaceResponseItem, len(spaces))
	for i := range spaces {
		items[i] = SpaceResponse(&spaces[i], nil)
	}
	return items, nil
}

func (s *SpaceService) index(ctx context.Context, space *models.ParkingSpace) {
	if err := s.esClient.IndexSpace(ctx, space); err != nil {
		// Search lags behind but the listing itself is committed; the
		// sync-spaces command repairs the index.
		logger.WithContext(ctx).Error("Failed to index parking space",
			"error", err, "space_id", space.ID)
	}
}

// SpaceResponse formats a space for the API
func SpaceResponse(space *models.ParkingSpace, distanceKm *float64) models.SpaceResponseItem {
	return models.SpaceResponseItem{
		ID:              space.ID,
		Name:            space.Name,
		Area:            space.Area,
		Address:         space.Address,
		TotalSpaces:     space.TotalSpaces,
		AvailableSpaces: space.AvailableSpaces,
		Amenities:       space.Amenities,
		PricePerHour:    models.Naira(space.PricePerHour),
		Latitude:        space.Latitude,
		Longitude:       space.Longitude,
		Status:          space.Status,
		DistanceKm:      distanceKm,
	}
}

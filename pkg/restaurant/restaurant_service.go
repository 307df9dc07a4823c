package restaurant

import (
	"Invoice-Capture/domain"
	"Invoice-Capture/entities"
	"context"

	"github.com/google/uuid"
)

type (
	RestaurantService interface {
		GetRestaurants(ctx context.Context, userID string) ([]domain.Restaurant, error)
		AddRestaurant(ctx context.Context, req domain.CreateRestaurantRequest, userID string) (domain.Restaurant, error)
	}

	restaurantService struct {
		restaurantRepository RestaurantRepository
	}
)

func NewRestaurantService(restaurantRepository RestaurantRepository) RestaurantService {
	return &restaurantService{restaurantRepository: restaurantRepository}
}

func (s *restaurantService) GetRestaurants(ctx context.Context, userID string) ([]domain.Restaurant, error) {
	restaurants, err := s.restaurantRepository.GetRestaurantsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		response = append(response, toResponse(r))
	}
	return response, nil
}

func (s *restaurantService) AddRestaurant(ctx context.Context, req domain.CreateRestaurantRequest, userID string) (domain.Restaurant, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.Restaurant{}, err
	}
	restaurant := &entities.Restaurant{UserID: userUUID, Name: req.Name, Email: req.Email}
	if err := s.restaurantRepository.CreateRestaurant(ctx, restaurant); err != nil {
		return domain.Restaurant{}, err
	}
	return toResponse(restaurant), nil
}

func toResponse(r *entities.Restaurant) domain.Restaurant {
	return domain.Restaurant{ID: domain.WireID(r.ID.String()), Name: r.Name, Email: r.Email}
}

package restaurant

import (
	"Invoice-Capture/entities"
	"context"

	"gorm.io/gorm"
)

type (
	RestaurantRepository interface {
		CreateRestaurant(ctx context.Context, restaurant *entities.Restaurant) error
		GetRestaurantsByUser(ctx context.Context, userID string) ([]*entities.Restaurant, error)
		GetRestaurantForUser(ctx context.Context, id, userID string) (*entities.Restaurant, error)
	}

	restaurantRepository struct {
		db *gorm.DB
	}
)

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) CreateRestaurant(ctx context.Context, restaurant *entities.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

func (r *restaurantRepository) GetRestaurantsByUser(ctx context.Context, userID string) ([]*entities.Restaurant, error) {
	var restaurants []*entities.Restaurant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&restaurants).Error
	return restaurants, err
}

func (r *restaurantRepository) GetRestaurantForUser(ctx context.Context, id, userID string) (*entities.Restaurant, error) {
	var restaurant entities.Restaurant
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

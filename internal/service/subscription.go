package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/types"
)

// SubscriptionService handles the follower relationship between users.
type SubscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new SubscriptionService instance.
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe adds followerID as a follower of followingID and returns the
// followee's profile enriched with their recipes. recipesLimit caps the
// embedded recipe list; 0 means no cap.
func (s *SubscriptionService) Subscribe(ctx context.Context, followerID, followingID uint, recipesLimit int) (*types.SubscriptionProfile, error) {
	if followerID == followingID {
		return nil, Validationf("cannot subscribe to yourself")
	}

	var profile *types.SubscriptionProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		following, err := findUser(tx, followingID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Subscription{}).
			Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return Conflictf("cannot subscribe twice to the same user")
		}

		sub := models.Subscription{FollowerID: followerID, FollowingID: followingID}
		if err := tx.Create(&sub).Error; err != nil {
			return asConflict(err, "cannot subscribe twice to the same user")
		}

		profile, err = s.enrich(tx, following, recipesLimit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Unsubscribe removes the follower relationship. Unsubscribing from a user
// never followed is a conflict.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, followerID, followingID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findUser(tx, followingID); err != nil {
			return err
		}
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return Conflictf("you are not subscribed to this user")
		}
		return nil
	})
}

// List returns the users followerID is subscribed to, ordered by username
// ascending, each enriched with recipes and recipe counts. A limit of 0
// disables paging.
func (s *SubscriptionService) List(ctx context.Context, followerID uint, recipesLimit, limit, offset int) ([]types.SubscriptionProfile, int64, error) {
	tx := s.db.WithContext(ctx)

	followed := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.Subscription{}).
		Select("following_id").
		Where("follower_id = ?", followerID)

	var total int64
	if err := tx.Model(&models.User{}).Where("id IN (?)", followed).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := tx.Model(&models.User{}).Where("id IN (?)", followed).Order("username ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	profiles := make([]types.SubscriptionProfile, 0, len(users))
	for i := range users {
		profile, err := s.enrich(tx, &users[i], recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, total, nil
}

// enrich builds a followee profile with their recipes in compact shape and
// the total recipe count. The profile is rendered from the follower's side,
// so is_subscribed is always true here.
func (s *SubscriptionService) enrich(tx *gorm.DB, following *models.User, recipesLimit int) (*types.SubscriptionProfile, error) {
	var total int64
	if err := tx.Model(&models.Recipe{}).Where("author_id = ?", following.ID).Count(&total).Error; err != nil {
		return nil, err
	}

	q := tx.Where("author_id = ?", following.ID).Order("id DESC")
	if recipesLimit > 0 {
		q = q.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}

	compact := make([]types.RecipeCompact, 0, len(recipes))
	for i := range recipes {
		compact = append(compact, renderCompact(&recipes[i]))
	}

	return &types.SubscriptionProfile{
		UserProfile:  renderProfile(following, true),
		Recipes:      compact,
		RecipesCount: total,
	}, nil
}

func findUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	err := tx.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundf("user %d does not exist", userID)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

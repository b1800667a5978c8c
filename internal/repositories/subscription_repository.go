package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartwebify/internal/models/db_models"
)

type SubscriptionRepository interface {
	Insert(ctx context.Context, sub *db_models.Subscription) error
	Save(ctx context.Context, sub *db_models.Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error)
	FindWithSelections(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error)
	ReplaceSelections(ctx context.Context, subscriptionID uuid.UUID, moduleIDs, subModuleIDs []uuid.UUID) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (s *subscriptionRepository) Insert(ctx context.Context, sub *db_models.Subscription) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *subscriptionRepository) Save(ctx context.Context, sub *db_models.Subscription) error {
	return s.db.WithContext(ctx).Save(sub).Error
}

func (s *subscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := s.db.WithContext(ctx).First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (s *subscriptionRepository) FindWithSelections(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := s.db.WithContext(ctx).
		Preload("Modules.Module").
		Preload("SubModules.SubModule.Module").
		First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// ReplaceSelections swaps both join sets atomically: delete-all then insert,
// so the stored selection always reflects exactly the submitted set.
// Hard deletes, the composite unique indexes must stay reusable.
func (s *subscriptionRepository) ReplaceSelections(ctx context.Context, subscriptionID uuid.UUID, moduleIDs, subModuleIDs []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("subscription_id = ?", subscriptionID).Delete(&db_models.SubscriptionSubModule{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("subscription_id = ?", subscriptionID).Delete(&db_models.SubscriptionModule{}).Error; err != nil {
			return err
		}

		for _, moduleID := range moduleIDs {
			row := db_models.SubscriptionModule{SubscriptionID: subscriptionID, ModuleID: moduleID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, subModuleID := range subModuleIDs {
			row := db_models.SubscriptionSubModule{SubscriptionID: subscriptionID, SubModuleID: subModuleID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

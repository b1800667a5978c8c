package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartwebify/internal/models/db_models"
)

type ModuleRepository interface {
	ListCatalog(ctx context.Context) ([]db_models.Module, error)
	FindByKeys(ctx context.Context, keys []string) ([]db_models.Module, error)
	FindSubModulesByKeys(ctx context.Context, keys []string) ([]db_models.SubModule, error)
	ActiveSubModulesForModules(ctx context.Context, moduleIDs []uuid.UUID) ([]db_models.SubModule, error)
}

type moduleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (m *moduleRepository) ListCatalog(ctx context.Context) ([]db_models.Module, error) {
	var modules []db_models.Module
	err := m.db.WithContext(ctx).
		Preload("SubModules", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, key asc")
		}).
		Order("sort_order asc, key asc").
		Find(&modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

func (m *moduleRepository) FindByKeys(ctx context.Context, keys []string) ([]db_models.Module, error) {
	var modules []db_models.Module
	if len(keys) == 0 {
		return modules, nil
	}
	err := m.db.WithContext(ctx).Where("key IN ?", keys).Find(&modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

func (m *moduleRepository) FindSubModulesByKeys(ctx context.Context, keys []string) ([]db_models.SubModule, error) {
	var subModules []db_models.SubModule
	if len(keys) == 0 {
		return subModules, nil
	}
	err := m.db.WithContext(ctx).Preload("Module").Where("key IN ?", keys).Find(&subModules).Error
	if err != nil {
		return nil, err
	}
	return subModules, nil
}

func (m *moduleRepository) ActiveSubModulesForModules(ctx context.Context, moduleIDs []uuid.UUID) ([]db_models.SubModule, error) {
	var subModules []db_models.SubModule
	if len(moduleIDs) == 0 {
		return subModules, nil
	}
	err := m.db.WithContext(ctx).
		Where("module_id IN ? AND is_active = ?", moduleIDs, true).
		Find(&subModules).Error
	if err != nil {
		return nil, err
	}
	return subModules, nil
}

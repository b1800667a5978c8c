package db_models

import "github.com/google/uuid"

// Module keys form a closed catalog; unknown keys are rejected at the
// request boundary before any database lookup.
const (
	ModuleKeyCalculateur = "MODULE_1"
	ModuleKeyChantier    = "MODULE_2"
)

const SubModuleKeyFerraillage = "FERRAILLAGE"

func KnownModuleKey(key string) bool {
	return key == ModuleKeyCalculateur || key == ModuleKeyChantier
}

func KnownSubModuleKey(key string) bool {
	return key == SubModuleKeyFerraillage
}

type Module struct {
	BaseModel
	Key       string `gorm:"uniqueIndex;size:50"`
	Name      string
	Slug      string `gorm:"size:100"`
	Route     string
	SortOrder int  `gorm:"default:0"`
	IsActive  bool `gorm:"default:true"`

	SubModules []SubModule `gorm:"foreignKey:ModuleID"`
}

// SubModule is a feature flag nested under a parent module; it is only
// effectively enabled when both it and its parent are active.
type SubModule struct {
	BaseModel
	Key       string `gorm:"uniqueIndex;size:50"`
	Name      string
	Slug      string `gorm:"size:100"`
	Route     string
	SortOrder int       `gorm:"default:0"`
	IsActive  bool      `gorm:"default:true"`
	ModuleID  uuid.UUID `gorm:"index"`

	Module Module `gorm:"foreignKey:ModuleID"`
}

// SubscriptionModule links a subscription to an enabled module.
type SubscriptionModule struct {
	BaseModel
	SubscriptionID uuid.UUID `gorm:"uniqueIndex:idx_sub_module,priority:1"`
	ModuleID       uuid.UUID `gorm:"uniqueIndex:idx_sub_module,priority:2"`

	Module Module `gorm:"foreignKey:ModuleID"`
}

// SubscriptionSubModule links a subscription to an enabled sub-module. The
// parent-module-also-enabled invariant is enforced at write time by the
// onboarding workflow, not by schema.
type SubscriptionSubModule struct {
	BaseModel
	SubscriptionID uuid.UUID `gorm:"uniqueIndex:idx_sub_submodule,priority:1"`
	SubModuleID    uuid.UUID `gorm:"uniqueIndex:idx_sub_submodule,priority:2"`

	SubModule SubModule `gorm:"foreignKey:SubModuleID"`
}

package request_models

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"smartwebify/internal/models/db_models"
)

// The closed module catalogs live in db_models; binding tags reference them
// through these validators so the key lists are not duplicated in tags.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("modulekey", func(fl validator.FieldLevel) bool {
		return db_models.KnownModuleKey(fl.Field().String())
	})
	_ = v.RegisterValidation("submodulekey", func(fl validator.FieldLevel) bool {
		return db_models.KnownSubModuleKey(fl.Field().String())
	})
}

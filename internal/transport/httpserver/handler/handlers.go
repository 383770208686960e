package handler

import (
	"reflect"
	"strings"

	familydomain "family-organizer/internal/domain/family"
	identitydomain "family-organizer/internal/domain/identity"
	taskdomain "family-organizer/internal/domain/task"
	"family-organizer/internal/upload"
	"family-organizer/pkg/logger"
	"github.com/go-playground/validator/v10"
)

type Handlers struct {
	Auth     *identitydomain.Service
	Families *familydomain.Service
	Tasks    *taskdomain.Service
	Uploads  *upload.Store

	validate *validator.Validate
	log      logger.Logger
}

func New(auth *identitydomain.Service, families *familydomain.Service, tasks *taskdomain.Service, uploads *upload.Store, log logger.Logger) *Handlers {
	validate := validator.New()
	// Report validation failures under the json field names clients sent.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handlers{
		Auth:     auth,
		Families: families,
		Tasks:    tasks,
		Uploads:  uploads,
		validate: validate,
		log:      log,
	}
}

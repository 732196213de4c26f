package reconciler

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/bloomfeed/profile-api/internal/app/service/eventlog"
)

func newStore(db *gorm.DB) Store { return NewGormStore(db) }

func newEventLogger(s *eventlog.Service) EventLogger { return s }

// Module exposes the reconciler and its gorm-backed store via Fx.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(newEventLogger),
	fx.Provide(NewService),
)

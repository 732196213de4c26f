package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/bloomfeed/profile-api/internal/app/api/server"
	"github.com/bloomfeed/profile-api/internal/app/service/eventlog"
	"github.com/bloomfeed/profile-api/internal/app/service/preferences"
	"github.com/bloomfeed/profile-api/internal/app/service/reconciler"
	"github.com/bloomfeed/profile-api/internal/app/service/statistics"
	"github.com/bloomfeed/profile-api/internal/platform/billing"
	"github.com/bloomfeed/profile-api/internal/platform/db"
	"github.com/bloomfeed/profile-api/pkg/config"
	"github.com/bloomfeed/profile-api/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	billing.Module,
	server.Module,
	eventlog.Module,
	reconciler.Module,
	preferences.Module,
	statistics.Module,
)

package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpgate/internal/identity"
)

func (a *App) initModules() {
	if !a.config.GetBool("modules.identity.enabled") {
		slog.Warn("module identity is disabled, no endpoints registered")
		return
	}

	if err := identity.New(identity.Dependency{
		Config:     a.config,
		Instrument: a.ins,
		UID:        a.uid,
		Bcrypt:     a.bcrypt,
		HMAC:       a.hmac,
		Code:       a.code,
		Clock:      a.clock,
		Validator:  a.validator,
		Router:     a.router,
		DBConn:     a.dbConn,
		CacheConn:  a.cacheConn,
		Messaging:  a.messaging,
		SMS:        a.sms,
		Goroutine:  a.goroutine,
		JWT:        a.jwt,
		Enforcer:   a.casbin,
	}); err != nil {
		slog.Error("failed to init module identity", "error", err)
		os.Exit(1)
	}
}

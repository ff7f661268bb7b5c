// Package cli holds the state shared by the webdock subcommands.
package cli

import (
	"context"

	"github.com/bnema/webdock/internal/bootstrap"
	"github.com/bnema/webdock/internal/cli/styles"
	"github.com/bnema/webdock/internal/domain/build"
)

// App holds CLI dependencies.
type App struct {
	*bootstrap.Services
	Theme     *styles.Theme
	BuildInfo build.Info
}

// NewApp opens the config and workspace store with a quiet logger.
func NewApp() (*App, error) {
	svc, err := bootstrap.NewServices(bootstrap.ServicesOptions{Quiet: true})
	if err != nil {
		return nil, err
	}
	return &App{Services: svc, Theme: styles.NewTheme()}, nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.Services.Ctx()
}

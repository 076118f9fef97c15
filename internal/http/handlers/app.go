package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/catalog"
	"server/internal/infra"
	"server/internal/premium"
)

// Catalog lists storefront products.
type Catalog interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
}

// Premium runs the premium experience sequence.
type Premium interface {
	Process(ctx context.Context, req premium.Request) (*premium.Result, error)
}

// App bundles the collaborators every handler needs.
type App struct {
	Config  *infra.Config
	Logger  zerolog.Logger
	Catalog Catalog
	Premium Premium
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, cat Catalog, prem Premium) *App {
	return &App{Config: cfg, Logger: logger, Catalog: cat, Premium: prem}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes the {success:false, error} envelope the front-end expects.
func (a *App) fail(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]any{"success": false, "error": message})
}

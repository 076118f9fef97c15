package handlers

import (
	"errors"
	"net/http"

	"server/internal/catalog"
)

// ShopifyProducts relays the storefront catalog query.
func (a *App) ShopifyProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.Catalog.ListProducts(r.Context())
	if err != nil {
		evt := a.Logger.Error().Err(err)
		var unavailable *catalog.UnavailableError
		if errors.As(err, &unavailable) {
			evt = evt.Int("upstream_status", unavailable.Status)
		}
		evt.Msg("catalog query failed")
		a.fail(w, http.StatusInternalServerError, "No se pudieron obtener los productos")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "products": products})
}

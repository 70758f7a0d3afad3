package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/withsutham/SE-KPS-68-2/internal/http/respond"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

// Handler serves the read-only menu.
type Handler struct {
	provider Provider
	logger   *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(provider Provider, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{provider: provider, logger: logger}
}

// Routes mounts the catalog endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/services", h.ListServices)
	r.Get("/services/{serviceID}", h.GetService)
	r.Get("/categories", h.ListCategories)
	r.Get("/price-bands", h.ListPriceBands)
	return r
}

// ListServices handles GET /catalog/services?category=&price=&q=
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	band, err := LookupPriceBand(q.Get("price"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	items := Apply(h.provider, Filter{
		Category: q.Get("category"),
		Band:     band,
		Query:    q.Get("q"),
	})
	for i := range items {
		items[i].Icon = IconCapability(items[i].Icon)
	}
	respond.Data(w, http.StatusOK, items)
}

// GetService handles GET /catalog/services/{serviceID}
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "serviceID")
	item, ok := h.provider.Lookup(id)
	if !ok {
		h.logger.Debug("catalog lookup miss", "service_id", id)
		respond.Error(w, http.StatusNotFound, ErrServiceUnknown.Error())
		return
	}
	item.Icon = IconCapability(item.Icon)
	respond.Data(w, http.StatusOK, item)
}

// ListCategories handles GET /catalog/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respond.Data(w, http.StatusOK, Categories())
}

// ListPriceBands handles GET /catalog/price-bands
func (h *Handler) ListPriceBands(w http.ResponseWriter, r *http.Request) {
	respond.Data(w, http.StatusOK, PriceBands())
}

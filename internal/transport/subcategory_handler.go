package transport

import (
	"net/http"

	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/middleware"
	"inventory-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SubcategoryHandler handles HTTP requests for subcategory operations
type SubcategoryHandler struct {
	subcategoryService service.SubcategoryService
	logger             *zap.Logger
}

// NewSubcategoryHandler creates a new SubcategoryHandler
func NewSubcategoryHandler(subcategoryService service.SubcategoryService, logger *zap.Logger) *SubcategoryHandler {
	return &SubcategoryHandler{
		subcategoryService: subcategoryService,
		logger:             logger,
	}
}

// RegisterRoutes registers all subcategory routes
func (h *SubcategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/subcategories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *SubcategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	subcategories, err := h.subcategoryService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, subcategories)
}

func (h *SubcategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	subcategory, err := h.subcategoryService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, subcategory)
}

func (h *SubcategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SubcategoryInput
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	subcategory, err := h.subcategoryService.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Subcategory created",
		zap.Int64("subcategory_id", subcategory.ID),
		zap.Int64("category_id", subcategory.CategoryID),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, subcategory)
}

func (h *SubcategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.SubcategoryInput
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	subcategory, err := h.subcategoryService.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Subcategory updated", zap.Int64("subcategory_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, subcategory)
}

func (h *SubcategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.subcategoryService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Subcategory deleted", zap.Int64("subcategory_id", id))
	middleware.RespondWithNoContent(w)
}

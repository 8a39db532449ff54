package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-shop-api/internal/application/catalog"
	"github.com/go-shop-api/internal/domain"
	"github.com/go-shop-api/internal/pkg/validate"
)

const maxImageUploadBytes = 10 << 20 // 10 MiB

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	svc catalog.Service
}

func NewProductHandler(svc catalog.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	f := parseProductFilter(r)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
	products, total, err := h.svc.ListProducts(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	pages := 1
	if f.PageSize > 0 && total > 0 {
		pages = (total + f.PageSize - 1) / f.PageSize
	}
	writeJSON(w, http.StatusOK, ProductListEnvelope{
		Items: products, Total: total, Page: f.Page, PageSize: f.PageSize, Pages: pages,
	})
}

func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := h.svc.FeaturedProducts(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req domain.UpdateProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.UpdateProduct(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "product deleted"})
}

// UploadImage accepts a multipart form with a single "file" field and attaches
// the uploaded image to the product.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	p, err := h.svc.AddProductImage(r.Context(), id, header.Filename, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func parseProductFilter(r *http.Request) domain.ProductFilter {
	q := r.URL.Query()
	var f domain.ProductFilter

	if v, err := strconv.ParseInt(q.Get("category_id"), 10, 64); err == nil {
		f.CategoryID = &v
	}
	// Inactive products stay hidden unless the caller asks for them.
	active := true
	if v, err := strconv.ParseBool(q.Get("is_active")); err == nil {
		active = v
	}
	f.IsActive = &active
	if v, err := strconv.ParseBool(q.Get("is_featured")); err == nil {
		f.IsFeatured = &v
	}
	if v, err := strconv.ParseBool(q.Get("in_stock")); err == nil {
		f.InStock = &v
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		f.MaxPrice = &v
	}
	f.Search = q.Get("search")
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PageSize, _ = strconv.Atoi(q.Get("page_size"))
	return f
}

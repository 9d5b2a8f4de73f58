package http

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
)

const maxImportBytes = 10 << 20

// ProductsHandler serves the catalog, stock movements and CSV transfer.
type ProductsHandler struct {
	CatalogService *service.CatalogService
}

type ProductList struct {
	Products []domain.Product `json:"products"`
}

type MovementList struct {
	Movements []domain.StockMovement `json:"movements"`
}

type EnrichRequest struct {
	ReleaseID int64 `json:"release_id"`
}

// HandleCreate handles POST /v1/products
//
//	@Summary		Create a product
//	@Description	An initial stock quantity is recorded as an initial movement.
//	@Tags			Catalog
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		service.ProductInput	true	"Product"
//	@Success		201		{object}	domain.Product
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Failure		409		{object}	erpsdk.ErrorResponse	"SKU taken"
//	@Router			/v1/products [post].
func (h *ProductsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.ProductInput
	if !decode(w, r, &in) {
		return
	}

	p, err := h.CatalogService.CreateProduct(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, p)
}

// HandleList handles GET /v1/products
//
//	@Summary	List products
//	@Tags		Catalog
//	@Security	BearerAuth
//	@Produce	json
//	@Param		search		query		string	false	"Matches SKU, title, artist, label, catalog number or barcode"
//	@Param		supplier_id	query		string	false	"Supplier"
//	@Param		low_stock	query		bool	false	"Only products at or below their reorder point"
//	@Param		active		query		bool	false	"Hide archived products"
//	@Param		limit		query		int		false	"Page size"
//	@Param		offset		query		int		false	"Offset"
//	@Success	200			{object}	ProductList
//	@Router		/v1/products [get].
func (h *ProductsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	q := r.URL.Query()
	products, err := h.CatalogService.ListProducts(r.Context(), httpx.TenantID(r.Context()), domain.ProductFilter{
		Search:     q.Get("search"),
		SupplierID: q.Get("supplier_id"),
		LowStock:   boolParam(r, "low_stock"),
		ActiveOnly: boolParam(r, "active"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ProductList{Products: products})
}

// HandleGet handles GET /v1/products/{id}
//
//	@Summary	Get a product
//	@Tags		Catalog
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Product id"
//	@Success	200	{object}	domain.Product
//	@Failure	404	{object}	erpsdk.ErrorResponse
//	@Router		/v1/products/{id} [get].
func (h *ProductsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.CatalogService.GetProduct(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

// HandleUpdate handles PUT /v1/products/{id}
//
//	@Summary		Update a product
//	@Description	Stock is not changed here; use the stock endpoint.
//	@Tags			Catalog
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Product id"
//	@Param			request	body		service.ProductInput	true	"Product"
//	@Success		200		{object}	domain.Product
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Failure		404		{object}	erpsdk.ErrorResponse
//	@Router			/v1/products/{id} [put].
func (h *ProductsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if !decode(w, r, &in) {
		return
	}

	p, err := h.CatalogService.UpdateProduct(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

// HandleArchive handles DELETE /v1/products/{id}
//
//	@Summary		Archive a product
//	@Description	Archived products stay referenced by history but leave the active catalog.
//	@Tags			Catalog
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Product id"
//	@Success		204
//	@Failure		404	{object}	erpsdk.ErrorResponse
//	@Router			/v1/products/{id} [delete].
func (h *ProductsHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	if err := h.CatalogService.ArchiveProduct(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAdjustStock handles POST /v1/products/{id}/stock
//
//	@Summary		Adjust stock
//	@Description	Applies a signed correction and records an adjustment movement. Stock never goes negative.
//	@Tags			Inventory
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Product id"
//	@Param			request	body		service.AdjustStockInput	true	"Adjustment"
//	@Success		201		{object}	domain.StockMovement
//	@Failure		400		{object}	erpsdk.ErrorResponse
//	@Failure		409		{object}	erpsdk.ErrorResponse	"insufficient_stock or busy"
//	@Router			/v1/products/{id}/stock [post].
func (h *ProductsHandler) HandleAdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.AdjustStockInput
	if !decode(w, r, &in) {
		return
	}

	m, err := h.CatalogService.AdjustStock(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, m)
}

// HandleMovements handles GET /v1/products/{id}/movements
//
//	@Summary	Stock movement history
//	@Tags		Inventory
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id		path		string	true	"Product id"
//	@Param		limit	query		int		false	"Most recent first"
//	@Success	200		{object}	MovementList
//	@Router		/v1/products/{id}/movements [get].
func (h *ProductsHandler) HandleMovements(w http.ResponseWriter, r *http.Request) {
	limit, _, err := page(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ms, err := h.CatalogService.ListMovements(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MovementList{Movements: ms})
}

// HandleImport handles POST /v1/products/import
//
//	@Summary		Import products from CSV
//	@Description	Upserts by SKU. Rows that fail validation are reported and skipped.
//	@Tags			Catalog
//	@Security		BearerAuth
//	@Accept			text/csv
//	@Produce		json
//	@Success		200	{object}	domain.ImportReport
//	@Failure		400	{object}	erpsdk.ErrorResponse	"unreadable file or header"
//	@Router			/v1/products/import [post].
func (h *ProductsHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)

	report, err := h.CatalogService.ImportCSV(ctx, httpx.TenantID(ctx), httpx.UserID(ctx), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, report)
}

// HandleExport handles GET /v1/products/export
//
//	@Summary	Export the catalog as CSV
//	@Tags		Catalog
//	@Security	BearerAuth
//	@Produce	text/csv
//	@Success	200	{file}	file
//	@Router		/v1/products/export [get].
func (h *ProductsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.CatalogService.ExportCSV(r.Context(), httpx.TenantID(r.Context()), &buf); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCSV(w, "products.csv", buf.Bytes())
}

// HandleDiscogsRelease handles GET /v1/discogs/releases/{id}
//
//	@Summary	Look up a Discogs release
//	@Tags		Catalog
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"Discogs release id"
//	@Success	200	{object}	discogs.Release
//	@Failure	404	{object}	erpsdk.ErrorResponse
//	@Failure	502	{object}	erpsdk.ErrorResponse
//	@Router		/v1/discogs/releases/{id} [get].
func (h *ProductsHandler) HandleDiscogsRelease(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "release id must be a positive integer")
		return
	}

	rel, err := h.CatalogService.LookupRelease(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rel)
}

// HandleEnrich handles POST /v1/products/{id}/discogs
//
//	@Summary		Fill metadata from Discogs
//	@Description	Without release_id the product barcode is searched.
//	@Tags			Catalog
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Product id"
//	@Param			request	body		EnrichRequest	false	"Release"
//	@Success		200		{object}	domain.Product
//	@Failure		404		{object}	erpsdk.ErrorResponse
//	@Failure		502		{object}	erpsdk.ErrorResponse
//	@Router			/v1/products/{id}/discogs [post].
func (h *ProductsHandler) HandleEnrich(w http.ResponseWriter, r *http.Request) {
	var req EnrichRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	p, err := h.CatalogService.EnrichFromDiscogs(r.Context(), httpx.TenantID(r.Context()), r.PathValue("id"), req.ReleaseID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

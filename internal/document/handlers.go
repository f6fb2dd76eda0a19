package document

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fixly-labs/backend-fixly/internal/common"
	"github.com/fixly-labs/backend-fixly/internal/obs"
	"github.com/fixly-labs/backend-fixly/internal/pricing"
	"github.com/fixly-labs/backend-fixly/internal/tax"
)

// Persister submits a finished draft to durable storage.
type Persister interface {
	Submit(ctx context.Context, doc *Document) (Receipt, error)
}

// Handler exposes draft document endpoints. DefaultTaxCode is applied to
// lines that arrive without a tax code; Currency labels the money fields in
// every view.
type Handler struct {
	Store          *Store
	Persister      Persister
	DefaultTaxCode tax.Code
	Currency       string
}

func (h *Handler) taxCode(value string) tax.Code {
	if strings.TrimSpace(value) == "" && tax.Valid(h.DefaultTaxCode) {
		return h.DefaultTaxCode
	}
	return tax.Parse(value)
}

func (h *Handler) currency() string {
	if strings.TrimSpace(h.Currency) == "" {
		return "INR"
	}
	return h.Currency
}

type createRequest struct {
	Kind string `json:"kind"`
}

// Numeric fields arrive as form text; anything unparseable is priced as zero
// rather than rejected, presentation validation happens before submit.
type lineRequest struct {
	Description string `json:"description"`
	UnitPrice   string `json:"unitPrice"`
	Quantity    string `json:"quantity"`
	Discount    string `json:"discount"`
	TaxCode     string `json:"taxCode"`
	TaxRef      string `json:"taxRef"`
}

type linePatchRequest struct {
	Description *string `json:"description"`
	UnitPrice   *string `json:"unitPrice"`
	Quantity    *string `json:"quantity"`
	Discount    *string `json:"discount"`
	TaxCode     *string `json:"taxCode"`
	TaxRef      *string `json:"taxRef"`
}

type lineView struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	UnitPrice   string `json:"unitPrice"`
	Quantity    string `json:"quantity"`
	Discount    string `json:"discount"`
	TaxCode     string `json:"taxCode"`
	TaxRef      string `json:"taxRef,omitempty"`
	Subtotal    string `json:"subtotal"`
	TaxAmount   string `json:"taxAmount"`
	Total       string `json:"total"`
}

type totalsView struct {
	Currency  string `json:"currency"`
	Quantity  string `json:"quantity"`
	Discount  string `json:"discount"`
	Subtotal  string `json:"subtotal"`
	TaxAmount string `json:"taxAmount"`
	Total     string `json:"total"`
}

type documentView struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Number   string     `json:"number"`
	Currency string     `json:"currency"`
	Lines    []lineView `json:"lines"`
	Totals   totalsView `json:"totals"`
}

// Create handles POST /api/v1/documents.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "document store not configured", nil)
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	kind, err := ParseKind(req.Kind)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "kind must be one of quotation, purchase, sale, expense", nil)
		return
	}
	doc := h.Store.Create(kind)
	common.JSON(w, http.StatusCreated, map[string]any{"data": h.viewOf(doc)})
}

// Get handles GET /api/v1/documents/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.viewOf(doc)})
}

// AddLine handles POST /api/v1/documents/{id}/lines.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "document store not configured", nil)
		return
	}
	var req lineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	id := chi.URLParam(r, "id")
	line, err := h.Store.AddLine(id, LineInput{
		Description: req.Description,
		UnitPrice:   pricing.ParseAmount(req.UnitPrice),
		Qty:         pricing.ParseQuantity(req.Quantity),
		Discount:    pricing.ParseAmount(req.Discount),
		TaxCode:     h.taxCode(req.TaxCode),
		TaxRef:      req.TaxRef,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	doc, err := h.Store.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data":   lineViewOf(line),
		"totals": h.totalsViewOf(doc.Totals()),
	})
}

// UpdateLine handles PATCH /api/v1/documents/{id}/lines/{lineId}.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "document store not configured", nil)
		return
	}
	var req linePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	patch := LinePatch{Description: req.Description, TaxRef: req.TaxRef}
	if req.UnitPrice != nil {
		price := pricing.ParseAmount(*req.UnitPrice)
		patch.UnitPrice = &price
	}
	if req.Quantity != nil {
		qty := pricing.ParseQuantity(*req.Quantity)
		patch.Qty = &qty
	}
	if req.Discount != nil {
		discount := pricing.ParseAmount(*req.Discount)
		patch.Discount = &discount
	}
	if req.TaxCode != nil {
		code := h.taxCode(*req.TaxCode)
		patch.TaxCode = &code
	}
	id := chi.URLParam(r, "id")
	line, err := h.Store.UpdateLine(id, chi.URLParam(r, "lineId"), patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	doc, err := h.Store.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":   lineViewOf(line),
		"totals": h.totalsViewOf(doc.Totals()),
	})
}

// RemoveLine handles DELETE /api/v1/documents/{id}/lines/{lineId}.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "document store not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Store.RemoveLine(id, chi.URLParam(r, "lineId")); err != nil {
		h.writeError(w, err)
		return
	}
	doc, err := h.Store.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"totals": h.totalsViewOf(doc.Totals())})
}

// Totals handles GET /api/v1/documents/{id}/totals.
func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.totalsViewOf(doc.Totals())})
}

// Submit handles POST /api/v1/documents/{id}/submit. A failed submission
// leaves the draft intact so the user can retry without re-entering lines.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.Persister == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "document persister not configured", nil)
		return
	}
	doc, ok := h.load(w, r)
	if !ok {
		return
	}
	receipt, err := h.Persister.Submit(r.Context(), doc)
	if err != nil {
		obs.CountDocumentSubmit(string(doc.Kind), "error")
		if errors.Is(err, ErrEmptyDocument) {
			common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_DOCUMENT", "document has no lines", nil)
			return
		}
		common.JSONError(w, http.StatusBadGateway, "SUBMIT_FAILED", err.Error(), nil)
		return
	}
	obs.CountDocumentSubmit(string(doc.Kind), "ok")
	h.Store.Delete(doc.ID)
	common.JSON(w, http.StatusCreated, map[string]any{"data": receipt})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*Document, bool) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "document store not configured", nil)
		return nil, false
	}
	doc, err := h.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return doc, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "draft document not found", nil)
	case errors.Is(err, ErrLineNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "document line not found", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

func (h *Handler) viewOf(doc *Document) documentView {
	lines := doc.Lines()
	views := make([]lineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, lineViewOf(line))
	}
	return documentView{
		ID:       doc.ID,
		Kind:     string(doc.Kind),
		Number:   doc.Number,
		Currency: h.currency(),
		Lines:    views,
		Totals:   h.totalsViewOf(doc.Totals()),
	}
}

func lineViewOf(line Line) lineView {
	amounts := line.Amounts.Rounded()
	return lineView{
		ID:          line.ID,
		Description: line.Description,
		UnitPrice:   line.UnitPrice.String(),
		Quantity:    line.Qty.String(),
		Discount:    line.Discount.String(),
		TaxCode:     string(line.TaxCode),
		TaxRef:      line.TaxRef,
		Subtotal:    amounts.Subtotal.StringFixed(2),
		TaxAmount:   amounts.TaxAmount.StringFixed(2),
		Total:       amounts.Total.StringFixed(2),
	}
}

func (h *Handler) totalsViewOf(t Totals) totalsView {
	return totalsView{
		Currency:  h.currency(),
		Quantity:  t.Quantity.String(),
		Discount:  t.Discount.StringFixed(2),
		Subtotal:  t.Subtotal.StringFixed(2),
		TaxAmount: t.TaxAmount.StringFixed(2),
		Total:     t.Total.StringFixed(2),
	}
}

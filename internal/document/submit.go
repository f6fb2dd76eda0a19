package document

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEmptyDocument rejects submission of a draft without any lines.
var ErrEmptyDocument = errors.New("document has no lines")

// Receipt reports the identifiers the backend assigned on submission.
type Receipt struct {
	DocumentID int64  `json:"documentId"`
	Number     string `json:"number"`
}

// Submitter persists a finished draft. The draft itself is left untouched so
// the caller can retry after a failure without re-entering data.
type Submitter struct {
	Pool *pgxpool.Pool
}

const insertDocumentSQL = `
INSERT INTO documents (kind, quantity_total, discount_total, subtotal, tax_total, total)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, number`

const insertLineSQL = `
INSERT INTO document_lines (document_id, position, description, unit_price, qty, discount, tax_code, tax_ref, subtotal, tax_amount, total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Submit writes the document and its lines in one transaction and returns
// the number the database assigned. Line amounts are stored rounded, totals
// come from the unrounded fold.
func (s *Submitter) Submit(ctx context.Context, doc *Document) (Receipt, error) {
	if s == nil || s.Pool == nil {
		return Receipt{}, errors.New("document submitter not configured")
	}
	if doc == nil || doc.Len() == 0 {
		return Receipt{}, ErrEmptyDocument
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Receipt{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	totals := doc.Totals()
	var receipt Receipt
	err = tx.QueryRow(ctx, insertDocumentSQL,
		string(doc.Kind),
		totals.Quantity.String(),
		totals.Discount.String(),
		totals.Subtotal.String(),
		totals.TaxAmount.String(),
		totals.Total.String(),
	).Scan(&receipt.DocumentID, &receipt.Number)
	if err != nil {
		return Receipt{}, err
	}

	for i, line := range doc.Lines() {
		amounts := line.Amounts.Rounded()
		if _, err := tx.Exec(ctx, insertLineSQL,
			receipt.DocumentID,
			i,
			line.Description,
			line.UnitPrice.String(),
			line.Qty.String(),
			line.Discount.String(),
			string(line.TaxCode),
			line.TaxRef,
			amounts.Subtotal.String(),
			amounts.TaxAmount.String(),
			amounts.Total.String(),
		); err != nil {
			return Receipt{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

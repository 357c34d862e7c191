// Package billing provides the clinic's sales documents.
//
// Two aggregates live here:
//   - Invoice: a clinic invoice billed to a registered client
//   - WalkInInvoice: an over-the-counter sale to a customer without a client record
//
// Both own their line items, carry a frozen per-line subtotal and a derived total,
// and consume product stock when created. Numbering (INV, WI) and the stock
// movements are orchestrated by the application layer inside one transaction.
package billing

// Package shipment provides the Shipment aggregate: a customer order with its
// lines, its lifecycle status derived from its tasks, soft deletion and ERP
// export bookkeeping.
//
// Key business rules:
//   - A shipment has a number, a customer and at least one line
//   - Every line has a SKU, a name, a positive quantity and a warehouse
//   - The status is never set directly; Rollup derives it from the tasks
//   - A shipment becomes Processed only when every one of its tasks is Processed
//   - Deletion is soft: the row and its history stay for audit
//   - Only processed, live shipments can be marked as exported
package shipment

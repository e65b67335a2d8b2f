// Package labeling contains the Labeling bounded context.
// This context is responsible for shipping-label and packing-slip templates:
// the template document model (paper geometry, positioned elements, fonts),
// default-template resolution per account, and the label jobs produced when
// a template is rendered to a PDF artifact for an order.
package labeling

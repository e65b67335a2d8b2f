// Package textpipe is the shared text pipeline of the label renderer.
// Normalization, barcode sanitization, locale-aware value formatting and
// font-stack resolution all live here so the preview and PDF surfaces
// cannot drift apart.
package textpipe

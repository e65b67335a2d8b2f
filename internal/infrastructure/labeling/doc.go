// Package labeling implements the render pipeline of the labeling context:
// order data binding, the shared layout pass, and the preview and PDF
// surfaces that consume it. Both surfaces draw from one computed layout so
// what the designer shows is what the printer gets.
package labeling

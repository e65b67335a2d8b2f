// Package models contains the GORM persistence models and their mappings to
// and from the domain aggregates. Domain types never carry persistence
// concerns; the conversion happens here.
package models

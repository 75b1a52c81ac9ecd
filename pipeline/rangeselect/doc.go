// Package rangeselect implements the Range Selector: a transparent
// transform over batched columnar data that yields only rows whose
// absolute row index falls in [offset, offset+limit) (or [offset, ∞) if
// limit is zero).
package rangeselect

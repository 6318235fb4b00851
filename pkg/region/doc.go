// Package region selects the neighbourhood of a reference star.
//
// [Select] is the first stage of the map pipeline. It locates the reference
// star by name and returns it together with every catalog star whose 3D
// distance to the reference is at most the selection radius.
//
// # Lookup
//
// The reference is matched by exact name first. If no record matches, the
// lookup is retried with Unicode case folding, so "amateru" finds
// "Amateru". When both attempts fail, Select returns an
// [errors.ReferenceNotFoundError] carrying the alphabetically first catalog
// names as suggestions.
//
// # Ordering
//
// The returned [Selection] always starts with the reference star; the
// remaining stars keep their catalog order. Later stages address stars by
// this index, so the order is part of the contract.
//
// [errors.ReferenceNotFoundError]: github.com/matzehuels/stellarmap/pkg/errors.ReferenceNotFoundError
package region

// Package deviation flattens estimated calls into deviation records with
// derived delay fields, ready for storage keyed by (aimed arrival, line id).
package deviation

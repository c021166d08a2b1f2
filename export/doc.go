// Package export renders stored deviation records as CSV or XLSX files
// for downstream deviation analysis.
package export

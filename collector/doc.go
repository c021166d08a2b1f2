// Package collector wires the fetch, transform and load steps into a
// batch pipeline and runs it on a daily collection window.
//
// A batch is fetch once, iterate the estimated calls in order, upsert
// each record sequentially. Fetch failures abort the batch; validation
// and storage failures skip the affected record and continue.
package collector

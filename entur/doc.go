// Package entur fetches estimated calls for a stop place from the Entur
// journey-planner v3 GraphQL API.
//
// The response is modeled as a shallow set of lookup structs mirroring the
// query document; callers are expected to flatten estimated calls at the
// boundary rather than carrying the nested shape further.
package entur

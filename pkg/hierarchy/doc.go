// Package hierarchy reconstructs the rooted forest that rules form via
// their parent references.
//
// The forest is never persisted; it is recomputed on demand from the
// flat rule list, so display and evaluation order always reflect the
// current parent links.
package hierarchy

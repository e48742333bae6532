// Package render provides server-side rendering for Filament components.
//
// RenderToString mounts a component into a detached tree, stamps
// hydration keys (data-hk on template roots, data-idx on slots), and
// serializes the result as HTML. Hydrate walks that markup on the
// receiving side and re-attaches listeners and reactive regions to the
// existing nodes, so no DOM is recreated.
//
// Page rendering wraps component output in a full HTML document with
// DOCTYPE, head metadata, stylesheets, and scripts, optionally streamed
// with incremental flushing for faster time-to-first-byte.
package render

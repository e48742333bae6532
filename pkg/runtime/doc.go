// Package runtime couples render functions to the reactive graph and the
// document tree. It provides the H call surface consumed by compiled
// views, component instances with a created/mounted/updated/destroyed
// lifecycle, the keyed list reconciler, two-way form binding, the For
// list helper, and the Suspense boundary.
package runtime

// Package uitest provides testing helpers for components.
//
// Mount a component into a detached body, drive it through simulated
// events, and assert on the rendered markup:
//
//	func TestCounter(t *testing.T) {
//	    h := uitest.Mount(t, counterComponent(), nil)
//	    h.Click("inc")
//	    h.ExpectText("count", "1")
//	}
//
// Elements are located by class name, which keeps tests robust against
// markup reshuffles. For assertions on serialized output use the
// package-level helpers:
//
//	html := uitest.RenderToString(t, Page(), nil)
//	uitest.ExpectContains(t, html, "Welcome")
package uitest

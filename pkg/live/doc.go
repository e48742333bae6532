// Package live serves components over HTTP and WebSocket. Each page view
// gets a session holding a server-side document tree and its own
// scheduler; client events are forwarded over the socket, dispatched into
// the tree, and the re-rendered markup is pushed back as a patch.
//
//	counter := runtime.NewComponent("counter", renderCounter)
//	srv := live.NewServer(counter,
//	    live.WithAddr(":8080"),
//	    live.WithSessionTTL(30*time.Minute),
//	)
//	log.Fatal(srv.ListenAndServe())
//
// Events address their target by child-index path from the session root,
// so the client and server trees stay aligned without per-node IDs. A
// patch replaces the app container's markup wholesale; clients re-resolve
// paths against the new tree.
package live

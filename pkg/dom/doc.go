// Package dom provides the in-memory document tree Filament renders into.
//
// It implements exactly the surface the patch engine needs: element and
// text node creation, child insertion and removal, attribute setting, and
// event registration/dispatch. It is not a browser; a live session owns
// one tree and serializes it to HTML for the client.
//
// Nodes are not safe for concurrent mutation. Each tree is owned by a
// single logical thread (a session's scheduler loop); all mutation happens
// there.
package dom

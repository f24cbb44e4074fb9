package clientdist

import _ "embed"

// MumuJS is the thin client that applies patch batches and reports events.
//
// It is served at "/_mumu/client.js".
//
//go:embed mumu.js
var MumuJS []byte

// Package document models a live browser document on the server.
//
// A Document owns the live <body> tree and a single serial task queue that
// stands in for the browser's UI thread. Everything that reads or mutates the
// body, including state notifications and event listeners, runs on that queue.
// Work is posted with Post or Do and executed by Run.
//
// Morphing the body produces vdom patches that are fanned out to subscribers,
// typically WebSocket connections. Client events (focus, focusout, change,
// close) are applied to the live tree and delivered to listeners via Dispatch.
//
// Frame callbacks requested with RequestFrame are coalesced per frame tick
// and run on the task queue, like requestAnimationFrame.
package document

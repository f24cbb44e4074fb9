// Package server serves a live document over HTTP and WebSocket.
//
// GET / renders the document with hydration IDs. The page loads a thin
// client from /_mumu/client.js which connects to /ws. On connect the server
// sends the current body, then every patch batch the document publishes.
// The client reports focus, focusout, input, change, click and dialog close
// events, which are dispatched on the document's task queue.
//
// # Wire Format
//
// Server to client, one JSON object per WebSocket text message:
//
//	{"type":"body","html":"<body data-hid=\"h1\">...</body>"}
//	{"type":"patches","patches":[{"op":"SetText","hid":"h4","parent":"h3","index":0,"value":"Jane"}]}
//	{"type":"error","code":"M080","message":"Invalid client event"}
//
// Client to server:
//
//	{"type":"change","hid":"h7","value":"Joan"}
//	{"type":"close","hid":"h9","returnValue":"cancel"}
//
// # Usage
//
//	app := live.New(body)
//	go app.Run(ctx)
//
//	srv := server.New(app.Document(), server.DefaultConfig())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server

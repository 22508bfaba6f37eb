// Package websocket pushes generated puzzles to receipt print stations.
//
// A print station opens a WebSocket connection with ?station=<name> and
// receives one JSON frame per artifact generated for that station:
//
//	{"station": "lab", "event": "artifact", "artifact": {...}}
//
// The Hub owns all connections. It satisfies service.Notifier, so wiring it
// into the puzzle service is enough for every generated artifact to reach its
// station. Notify never blocks the caller; if stations fall behind, frames
// are dropped and logged.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	svc := service.NewPuzzleService(gen, store, decks, service.WithNotifier(hub))
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("station"))
//	})
package websocket

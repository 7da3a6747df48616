// Package httpapi serves a small JSON debug surface over a running hub:
// health, Prometheus metrics, facade and channel introspection, and a few
// write endpoints that drive the managers the way a game would.
//
//	GET  /healthz
//	GET  /readyz
//	GET  /metrics
//	GET  /facades
//	GET  /channels
//	POST /channels/{name}/emit
//	GET  /prefs
//	PUT  /log/level
//	POST /audio/volume
//	POST /ui/screens/{screen}
//	POST /levels/{level}/load
package httpapi

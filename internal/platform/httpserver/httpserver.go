// Package httpserver builds the http.Server the gate readers and the mobile
// app talk to.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with timeouts sized for a local museum network.
// Write timeout stays generous because photo uploads come over exhibit-hall
// wifi.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

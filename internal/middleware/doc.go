// Package middleware provides the HTTP middleware chain for the inspection
// server: W3C request logging, Prometheus request metrics labelled by route
// and gzip compression of API responses.
package middleware

// Package handlers provides the HTTP handlers of the inspection API: health
// probes, build info, the annotation catalog and its link graph, video
// source lookup and streaming, re-index control and playback sessions.
package handlers

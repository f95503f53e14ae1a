// Package server implements the HTTP status and configuration API.
// It exposes device state for UIs and monitoring; all protocol receive
// paths live in the transport and dispatch packages.
package server

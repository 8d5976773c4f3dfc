package transport

import (
	"go.uber.org/zap"
)

type Options struct {
	// Host to listen on
	Host string

	// Port to listen on
	Port int

	// Reuseport controls setting SO_REUSEPORT so several listener
	// goroutines can share the same address
	Reuseport bool

	NumListeners int

	// Handler answers every request read off a connection
	Handler Handler

	Log *zap.Logger
}

package i

import "net"

// SessionManager runs one player session per accepted connection.
type SessionManager interface {
	// Serve accepts connections on l until l is closed or StopAll is called.
	Serve(l net.Listener) error

	StopAll()

	// ActiveSessions returns the number of open connections.
	ActiveSessions() int
}

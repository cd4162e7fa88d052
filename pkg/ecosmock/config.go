package ecosmock

import (
	"github.com/levenlabs/go-lflag"
)

// Configured returns a Server whose account and listen address come from
// flags. The server is usable after lflag.Configure has run.
func Configured() *Server {
	s := NewServer()

	listenAddr := lflag.String("http-listen", ":8080", "HTTP server listen address")
	email := lflag.String("login-email", defaultEmail, "account email accepted by the login endpoint")
	password := lflag.String("login-password", defaultPassword, "account password accepted by the login endpoint")

	lflag.Do(func() {
		s.listenAddr = *listenAddr
		s.email = *email
		s.password = *password
	})
	return s
}

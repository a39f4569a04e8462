package presence

import (
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// NewHTTPClient returns a pooled client with no shared global state.
// Proxy settings come from the environment and no overall timeout is set.
func NewHTTPClient() *http.Client {
	return cleanhttp.DefaultPooledClient()
}

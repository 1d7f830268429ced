package browser

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ghetzel/testify/require"
)

// serves the /json/* discovery endpoints for a single page target
func newFakeDiscovery(t *testing.T, wsUrl string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var out interface{}

		switch {
		case strings.HasPrefix(req.URL.Path, `/json/version`):
			out = map[string]interface{}{
				`Browser`:          `HeadlessChrome/99.0.0.0`,
				`Protocol-Version`: `1.3`,
			}
		case strings.HasPrefix(req.URL.Path, `/json/list`), req.URL.Path == `/json`:
			out = []map[string]interface{}{
				{
					`id`:                   `page1`,
					`type`:                 `page`,
					`url`:                  `about:blank`,
					`webSocketDebuggerUrl`: wsUrl,
				}, {
					`id`:                   `worker1`,
					`type`:                 `service_worker`,
					`url`:                  `https://example.com/sw.js`,
					`webSocketDebuggerUrl`: wsUrl,
				},
			}
		default:
			http.NotFound(w, req)
			return
		}

		w.Header().Set(`Content-Type`, `application/json`)
		json.NewEncoder(w).Encode(out)
	}))

	t.Cleanup(server.Close)

	return server
}

func TestBrowserAttach(t *testing.T) {
	assert := require.New(t)
	fake := newFakeDevtools(t)
	discovery := newFakeDiscovery(t, fake.URL())

	chrome := NewBrowser()
	chrome.RemoteAddress = strings.TrimPrefix(discovery.URL, `http://`)

	assert.NoError(chrome.Launch())
	defer chrome.Stop()

	tab, err := chrome.Tab()
	assert.NoError(err)
	assert.Equal(`page1`, tab.ID())
	assert.Equal(`about:blank`, tab.Info().URL)

	// calls are answered in order, so the enables have been seen by now
	_, err = tab.RPC(`Runtime`, `evaluate`, map[string]interface{}{
		`expression`: `1`,
	})

	assert.NoError(err)
	assert.NotEmpty(fake.Calls(`Page.enable`))
	assert.NotEmpty(fake.Calls(`DOM.enable`))
}

func TestBrowserNoTab(t *testing.T) {
	assert := require.New(t)

	_, err := NewBrowser().Tab()
	assert.Equal(NoActiveTab, err)
}

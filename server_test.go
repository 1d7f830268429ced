package scrollfriend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ghetzel/testify/require"
)

func request(t *testing.T, handler http.Handler, method string, path string, body string) (int, map[string]interface{}) {
	var out map[string]interface{}

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Body.Len() > 0 && strings.HasPrefix(strings.TrimSpace(w.Body.String()), `{`) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}

	return w.Code, out
}

func TestServerStatus(t *testing.T) {
	assert := require.New(t)
	env, _ := newStubEnvironment()
	handler := NewServer(env).Handler()

	code, body := request(t, handler, `GET`, `/api/status`, ``)
	assert.Equal(http.StatusOK, code)
	assert.Equal(true, body[`ok`])
	assert.Equal(Version, body[`version`])
	assert.Contains(body[`modules`], `stub`)
}

func TestServerCommand(t *testing.T) {
	assert := require.New(t)
	env, stub := newStubEnvironment()
	handler := NewServer(env).Handler()

	code, body := request(t, handler, `POST`, `/api/commands/stub/scroll_to`, `{"arg": "#item", "options": {"duration": 600, "direction": "x"}}`)
	assert.Equal(http.StatusOK, code)
	assert.Equal(`stub::scroll_to`, body[`command`])
	assert.Equal(`ScrollTo(#item, 600, x)`, body[`result`])
	assert.Equal([]string{`scroll_to #item`}, stub.calls)

	code, _ = request(t, handler, `POST`, `/api/commands/stub/explode`, ``)
	assert.Equal(http.StatusBadRequest, code)

	code, _ = request(t, handler, `POST`, `/api/commands/stub/scroll_to`, `{"arg":`)
	assert.Equal(http.StatusBadRequest, code)
}

func TestServerNoBrowser(t *testing.T) {
	assert := require.New(t)
	env, _ := newStubEnvironment()
	handler := NewServer(env).Handler()

	code, _ := request(t, handler, `GET`, `/api/tabs/current/info`, ``)
	assert.Equal(http.StatusServiceUnavailable, code)
}

func TestServerScript(t *testing.T) {
	assert := require.New(t)
	env, stub := newStubEnvironment()
	handler := NewServer(env).Handler()

	code, body := request(t, handler, `POST`, `/api/script`, `
		stub::scroll_to "#a" -> $a
		stub::scroll_to "#b" {duration: 200} -> $b
	`)

	assert.Equal(http.StatusOK, code)
	assert.Equal(`ScrollTo(#a, 0, )`, body[`a`])
	assert.Equal(`ScrollTo(#b, 200, )`, body[`b`])
	assert.Len(stub.calls, 2)

	code, _ = request(t, handler, `POST`, `/api/script`, `core::scroll_to "#item" {duration: "slow"}`)
	assert.Equal(http.StatusBadRequest, code)
}

package scrollfriend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ghetzel/go-stockutil/httputil"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/husobee/vestigo"
	"github.com/urfave/negroni"
)

type commandRequest struct {
	Arg     interface{}            `json:"arg,omitempty"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// Server exposes an Environment over HTTP.
type Server struct {
	env    *Environment
	server *negroni.Negroni
}

func NewServer(env *Environment) *Server {
	return &Server{
		env: env,
	}
}

func (self *Server) ListenAndServe(address string) error {
	self.setupServer()

	log.Infof("[api] Listening on %v", address)

	return http.ListenAndServe(address, self.server)
}

// Handler returns the fully-configured HTTP handler.
func (self *Server) Handler() http.Handler {
	if self.server == nil {
		self.setupServer()
	}

	return self.server
}

func (self *Server) setupServer() {
	self.server = negroni.New()
	router := vestigo.NewRouter()

	// setup panic recovery handler
	self.server.Use(negroni.NewRecovery())

	self.setupRoutes(router)
	self.server.UseHandler(router)
}

func (self *Server) setupRoutes(router *vestigo.Router) {
	router.SetGlobalCors(&vestigo.CorsAccessControl{
		AllowOrigin:      []string{`*`},
		AllowCredentials: true,
		AllowMethods:     []string{`GET`, `POST`},
		MaxAge:           3600 * time.Second,
		AllowHeaders:     []string{`*`},
	})

	router.Get(`/api/status`, func(w http.ResponseWriter, req *http.Request) {
		httputil.RespondJSON(w, map[string]interface{}{
			`ok`:      true,
			`version`: Version,
			`modules`: self.env.ModuleNames(),
		})
	})

	router.Get(`/api/tabs/current/info`, func(w http.ResponseWriter, req *http.Request) {
		if chrome := self.env.Browser(); chrome != nil {
			if tab, err := chrome.Tab(); err == nil {
				httputil.RespondJSON(w, tab.Info())
			} else {
				httputil.RespondJSON(w, err, http.StatusNotFound)
			}
		} else {
			httputil.RespondJSON(w, fmt.Errorf("No browser session available"), http.StatusServiceUnavailable)
		}
	})

	router.Post(`/api/commands/:module/:command`, func(w http.ResponseWriter, req *http.Request) {
		var body commandRequest

		if req.ContentLength != 0 {
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				httputil.RespondJSON(w, fmt.Errorf("invalid request body: %v", err), http.StatusBadRequest)
				return
			}
		}

		name := fmt.Sprintf("%s::%s", vestigo.Param(req, `module`), vestigo.Param(req, `command`))

		if result, err := self.env.Execute(name, body.Arg, body.Options); err == nil {
			httputil.RespondJSON(w, map[string]interface{}{
				`command`: name,
				`result`:  result,
			})
		} else {
			httputil.RespondJSON(w, err, http.StatusBadRequest)
		}
	})

	router.Post(`/api/script`, func(w http.ResponseWriter, req *http.Request) {
		if scope, err := self.env.EvaluateReader(req.Body); err == nil {
			httputil.RespondJSON(w, scope.Data())
		} else {
			httputil.RespondJSON(w, err, http.StatusBadRequest)
		}
	})
}

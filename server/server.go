package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/Sajjadhussain197/umsfront/gate"
	"github.com/Sajjadhussain197/umsfront/identity"
	"github.com/Sajjadhussain197/umsfront/internal/config"
	"github.com/Sajjadhussain197/umsfront/internal/metrics"
	"github.com/Sajjadhussain197/umsfront/server/loginflow"
	"github.com/Sajjadhussain197/umsfront/server/loginsession"
	"github.com/Sajjadhussain197/umsfront/session"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env           string // Environment (e.g., "DEV", "PROD")
	mux           *http.ServeMux
	routes        []string
	config        config.Config
	codec         *session.Codec
	gate          *gate.Gate
	identity      identity.Service
	loginSessions loginsession.Repo
	loginFlows    loginflow.Repo
	templates     map[string]*template.Template
	metrics       *metrics.Metrics
}

func New(config config.Config, identitySvc identity.Service, loginSessionRepo loginsession.Repo, loginFlowRepo loginflow.Repo) (*Server, error) {
	secret, err := config.GetSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	codec, err := session.NewCodec(secret, config.GetMaxSessionAge())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session codec: %w", err)
	}
	accessGate, err := gate.New(config.GetAccessRules())
	if err != nil {
		return nil, fmt.Errorf("[Server New] invalid access rules: %w", err)
	}
	templates, err := parsePageTemplates()
	if err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}

	m := metrics.New(config.GetMetricsEnabled())

	s := &Server{
		env:           config.GetEnv(),
		mux:           http.NewServeMux(),
		config:        config,
		codec:         codec,
		gate:          accessGate,
		identity:      instrumentIdentity(identitySvc, m),
		loginSessions: loginSessionRepo,
		loginFlows:    loginFlowRepo,
		templates:     templates,
		metrics:       m,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", colourMethod(method), path)
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+error+ResetColor)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

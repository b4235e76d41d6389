package server

import (
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex+"{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// API routes
	s.RegisterRouteHandler("POST "+RouteAPIValidatePassword, ChainMiddleware(s.ValidatePasswordHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPIValidatePassword, ChainMiddleware(http.NotFound, s.APIMiddleware()...))

	// Admin routes
	s.RegisterRouteHandler("GET "+RouteAdminDashboard, ChainMiddleware(s.AdminDashboardHandler(), s.HTMLMiddleWare(s.RequireGate())...))
	s.RegisterRouteHandler("GET "+RouteAdminUserNew, ChainMiddleware(s.AdminNewUserHandler(), s.HTMLMiddleWare(s.RequireGate())...))
	s.RegisterRouteHandler("POST "+RouteAdminUsers, ChainMiddleware(s.AdminCreateUserHandler(), s.HTMLMiddleWare(s.RequireGate())...))
	s.RegisterRouteHandler("GET "+RouteAdminUserEdit, ChainMiddleware(s.AdminEditUserHandler(), s.HTMLMiddleWare(s.RequireGate())...))
	s.RegisterRouteHandler("POST "+RouteAdminUser, ChainMiddleware(s.AdminUpdateUserHandler(), s.HTMLMiddleWare(s.RequireGate())...))
	s.RegisterRouteHandler("POST "+RouteAdminUserDel, ChainMiddleware(s.AdminDeleteUserHandler(), s.HTMLMiddleWare(s.RequireGate())...))

	// User routes
	s.RegisterRouteHandler("GET "+RouteUser, ChainMiddleware(s.UserProfileHandler(userSelfService), s.HTMLMiddleWare(s.RequireGate())...))
	s.registerSelfService(userSelfService, s.RequireGate())

	// Account routes, open to every signed-in role
	s.registerSelfService(accountSelfService, s.RequireSession())

	// Every other path under a protected prefix is gated before it can 404
	s.RegisterRouteHandler(RouteAdminPrefix, ChainMiddleware(http.NotFound, s.HTMLMiddleWare(s.RequireGate())...))
	s.RegisterRouteHandler(RouteUserPrefix, ChainMiddleware(http.NotFound, s.HTMLMiddleWare(s.RequireGate())...))

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))

	if s.metrics.Enabled() {
		s.RegisterRouteFunc("GET "+RouteMetrics, ChainMiddleware(s.metrics.Handler().ServeHTTP, s.RecoverMiddleware))
	}
}

func (s *Server) registerSelfService(paths selfServicePaths, guard func(http.HandlerFunc) http.HandlerFunc) {
	s.RegisterRouteHandler("GET "+paths.Profile, ChainMiddleware(s.UserProfileHandler(paths), s.HTMLMiddleWare(guard)...))
	s.RegisterRouteHandler("GET "+paths.Edit, ChainMiddleware(s.UserEditProfileHandler(paths), s.HTMLMiddleWare(guard)...))
	s.RegisterRouteHandler("POST "+paths.Profile, ChainMiddleware(s.UserUpdateProfileHandler(paths), s.HTMLMiddleWare(guard)...))
	s.RegisterRouteHandler("GET "+paths.Password, ChainMiddleware(s.UserPasswordHandler(paths), s.HTMLMiddleWare(guard)...))
	s.RegisterRouteHandler("POST "+paths.Password, ChainMiddleware(s.UserChangePasswordHandler(paths), s.HTMLMiddleWare(guard)...))
	s.RegisterRouteHandler("POST "+paths.Delete, ChainMiddleware(s.UserDeleteHandler(paths), s.HTMLMiddleWare(guard)...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

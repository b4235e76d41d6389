package server

import (
	"net/url"
	"strings"
)

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Auth Routes - Login & Logout
	RouteLogin      = "/login"
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"

	// API Routes
	RouteAPIValidatePassword = "/api/validate-password"

	// Admin Routes
	RouteAdminPrefix    = "/admin/"
	RouteAdminDashboard = "/admin/dashboard"
	RouteAdminUsers     = "/admin/users"
	RouteAdminUserNew   = "/admin/users/new"
	RouteAdminUser      = "/admin/users/{id}"
	RouteAdminUserEdit  = "/admin/users/{id}/edit"
	RouteAdminUserDel   = "/admin/users/{id}/delete"

	// User Routes
	RouteUserPrefix      = "/user/"
	RouteUser            = "/user"
	RouteUserProfile     = "/user/profile"
	RouteUserProfileEdit = "/user/profile/edit"
	RouteUserPassword    = "/user/password"
	RouteUserDelete      = "/user/delete"

	// Account Routes - self-service for every signed-in role
	RouteProfile         = "/profile"
	RouteProfileEdit     = "/profile/edit"
	RouteProfilePassword = "/profile/password"
	RouteProfileDelete   = "/profile/delete"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"

	RouteMetrics = "/metrics"
)

// adminUserPath fills the {id} of an admin user route
func adminUserPath(route, id string) string {
	return strings.Replace(route, "{id}", url.PathEscape(id), 1)
}

// selfServicePaths are the pages a signed-in account manages itself through
type selfServicePaths struct {
	Profile  string
	Edit     string
	Password string
	Delete   string
}

var (
	userSelfService = selfServicePaths{
		Profile:  RouteUserProfile,
		Edit:     RouteUserProfileEdit,
		Password: RouteUserPassword,
		Delete:   RouteUserDelete,
	}
	accountSelfService = selfServicePaths{
		Profile:  RouteProfile,
		Edit:     RouteProfileEdit,
		Password: RouteProfilePassword,
		Delete:   RouteProfileDelete,
	}
)

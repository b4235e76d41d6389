package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/Sajjadhussain197/umsfront/gate"
	"github.com/Sajjadhussain197/umsfront/session"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	layoutTemplate  = "layout.html"
)

var pageTemplateNames = []string{
	layoutTemplate,
	"index.html",
	"login.html",
	"admin_dashboard.html",
	"admin_user_form.html",
	"user_profile.html",
	"user_profile_form.html",
	"user_password.html",
}

func parsePageTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pageTemplateNames))
	for _, name := range pageTemplateNames {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// LayoutData is the model of the shared page layout
type LayoutData struct {
	AppName    string
	PageTitle  string
	ActivePage string
	SignedIn   bool
	UserName   string
	Role       string
	HomePath   string
	IsAdmin    bool
	Error      string
	Success    string
	Content    template.HTML
}

// renderPage renders contentTemplate with data inside the shared layout
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, activePage, pageTitle, contentTemplate string, data any) {
	contentTmpl, ok := s.templates[contentTemplate]
	if !ok {
		http.Error(w, "Failed to load content template", http.StatusInternalServerError)
		return
	}

	// Render content to string
	var contentBuf strings.Builder
	if err := contentTmpl.Execute(&contentBuf, data); err != nil {
		log.Err(err).Str("template", contentTemplate).Msg("Failed to render content")
		http.Error(w, "Failed to render content", http.StatusInternalServerError)
		return
	}

	layout := LayoutData{
		AppName:    s.config.GetAppName(),
		PageTitle:  pageTitle,
		ActivePage: activePage,
		Error:      r.URL.Query().Get("error"),
		Success:    r.URL.Query().Get("success"),
		Content:    template.HTML(contentBuf.String()),
	}
	if claim := session.ClaimFromContext(r.Context()); claim != nil {
		layout.SignedIn = true
		layout.UserName = claim.Name
		if layout.UserName == "" {
			layout.UserName = claim.Email
		}
		layout.Role = claim.Role
		layout.IsAdmin = claim.Role == gate.RoleAdmin
		layout.HomePath, _ = s.gate.HomeFor(claim.Role)
	}

	var page strings.Builder
	if err := s.templates[layoutTemplate].Execute(&page, layout); err != nil {
		log.Err(err).Msg("Failed to render layout")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	_, _ = w.Write([]byte(page.String()))
}

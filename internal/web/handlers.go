package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/storemap/internal/core"
	"github.com/JonMunkholm/storemap/internal/logging"
	"github.com/JonMunkholm/storemap/internal/web/templates"
)

// handleDashboard renders the main page. ?pincode= plots a postal code and
// ?store= searches store names; both results appear on the same page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	data := s.dashboardData(r)

	if query.Has("pincode") {
		data.PostalCode = query.Get("pincode")
		lookup, err := s.service.LookupPostalCode(ctx, data.PostalCode)
		if err != nil {
			data.Notification = notificationFor(err)
		} else {
			data.Lookup = &lookup
			data.Notification = &lookup.Notification
		}
	}

	if query.Has("store") {
		data.StoreQuery = query.Get("store")
		search, err := s.service.SearchStores(ctx, data.StoreQuery)
		switch {
		case err == nil, errors.Is(err, core.ErrNoStoresFound):
			data.Search = &search
			data.Notification = &search.Notification
		default:
			data.Notification = notificationFor(err)
		}
	}

	s.renderDashboard(w, r, http.StatusOK, data)
}

// handleUploadPage indexes a file posted from the dashboard form and
// renders the dashboard with the outcome.
func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	var n core.Notification

	name, file, err := s.formFile(w, r)
	defer cleanupForm(r)
	if err == nil {
		defer file.Close()
		var result core.UploadResult
		result, err = s.service.Upload(r.Context(), name, file)
		n = result.Notification
	}
	if err != nil {
		status = statusFor(err)
		if n.Message == "" {
			n = core.ErrorNotification(err)
		}
		logging.FromContext(r.Context()).Warn("dashboard upload failed", "error", err, "status", status)
	}

	data := s.dashboardData(r)
	data.Notification = &n
	s.renderDashboard(w, r, status, data)
}

func (s *Server) dashboardData(r *http.Request) templates.DashboardData {
	data := templates.DashboardData{Snapshot: s.service.Snapshot()}

	history, err := s.service.History(r.Context(), dashboardHistory)
	if err != nil {
		logging.FromContext(r.Context()).Error("load upload history failed", "error", err)
	}
	data.History = history
	return data
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, status int, data templates.DashboardData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Dashboard(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard failed", "error", err)
	}
}

func notificationFor(err error) *core.Notification {
	n := core.ErrorNotification(err)
	return &n
}

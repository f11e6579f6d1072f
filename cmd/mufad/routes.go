package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mufa-backend/lib/serviceutil"
	"mufa-backend/services/league"
)

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, league.ErrNoCurrentSeason) {
		status = http.StatusConflict
	}
	writeJson(w, status, map[string]string{"error": err.Error()})
}

type refreshResponse struct {
	league.RunSummary
	Errors string `json:"errors,omitempty"`
}

func summaryResponse(summary league.RunSummary) refreshResponse {
	res := refreshResponse{RunSummary: summary}
	if err := summary.Err(); err != nil {
		res.Errors = err.Error()
	}
	return res
}

func RegisterRoutes(mux *http.ServeMux, service *league.Service, adminToken string) {
	mux.HandleFunc("GET /v1/divisions", func(w http.ResponseWriter, r *http.Request) {
		divisions, err := service.GetDivisions(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, divisions)
	})

	mux.HandleFunc("GET /v1/divisions/{division}/teams", func(w http.ResponseWriter, r *http.Request) {
		teams, err := service.GetTeams(r.Context(), r.PathValue("division"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, teams)
	})

	mux.HandleFunc("GET /v1/divisions/{division}/teams/{team}/schedule", func(w http.ResponseWriter, r *http.Request) {
		schedule, err := service.GetTeamSchedule(
			r.Context(), r.PathValue("team"), r.PathValue("division"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, schedule)
	})

	mux.HandleFunc("GET /v1/fields", func(w http.ResponseWriter, r *http.Request) {
		fields, err := service.GetFields(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, fields)
	})

	mux.HandleFunc("GET /v1/season/status", func(w http.ResponseWriter, r *http.Request) {
		status, err := service.GetSeasonStatus(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, status)
	})

	mux.HandleFunc("GET /v1/refresh/latest", func(w http.ResponseWriter, r *http.Request) {
		latest, err := service.GetLatestRefresh(
			r.Context(),
			r.URL.Query().Get("type"),
			r.URL.Query().Get("division"),
		)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, latest)
	})

	admin := http.NewServeMux()
	mux.Handle("/v1/admin/", serviceutil.VerifyBearerToken(adminToken, admin))

	admin.HandleFunc("POST /v1/admin/refresh", func(w http.ResponseWriter, r *http.Request) {
		summary, err := service.RefreshAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, summaryResponse(summary))
	})

	admin.HandleFunc("POST /v1/admin/refresh/schedules", func(w http.ResponseWriter, r *http.Request) {
		summary, err := service.RefreshSchedules(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, summaryResponse(summary))
	})

	admin.HandleFunc("POST /v1/admin/refresh/fields", func(w http.ResponseWriter, r *http.Request) {
		if err := service.RefreshFields(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, map[string]bool{"ok": true})
	})

	admin.HandleFunc("GET /v1/admin/force-refresh", func(w http.ResponseWriter, r *http.Request) {
		status, err := service.GetForceRefreshStatus(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, status)
	})

	admin.HandleFunc("PUT /v1/admin/force-refresh", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJson(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if err := service.SetForceRefresh(r.Context(), body.Enabled); err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, map[string]bool{"enabled": body.Enabled})
	})

	admin.HandleFunc("POST /v1/admin/season", func(w http.ResponseWriter, r *http.Request) {
		var params league.SetupSeasonParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeJson(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if err := service.SetupSeason(r.Context(), params); err != nil {
			writeError(w, err)
			return
		}
		writeJson(w, http.StatusOK, map[string]bool{"ok": true})
	})
}

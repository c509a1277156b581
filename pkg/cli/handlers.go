package cli

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/scoutvc/leadctl/pkg/config"
	"github.com/scoutvc/leadctl/pkg/score"
	"github.com/scoutvc/leadctl/pkg/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func makeRouter(cfg *appConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/healthz", healthAPIHandler(cfg.Store))
	r.Post("/v1/score", scoreAPIHandler(cfg.Config))
	r.Get("/v1/leads", leadsAPIHandler(cfg.Store))
	r.Get("/v1/state", stateAPIHandler(cfg.Store))

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func healthAPIHandler(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			slog.Error("store ping failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
	}
}

func scoreAPIHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec score.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			slog.Error("error binding json", "error", err)
			writeError(w, http.StatusBadRequest, "error binding json")
			return
		}

		res, err := score.Compute(rec, score.Weights(cfg.Weights))
		if err != nil {
			var verr *score.ValidationError
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Error())
				return
			}
			slog.Error("failed to score record", "error", err)
			writeError(w, http.StatusInternalServerError, "error scoring record")
			return
		}

		writeJSON(w, http.StatusOK, &scoredRecord{
			Record:   rec,
			Score:    res,
			Decision: score.Route(rec, res, routeConfig(cfg)),
		})
	}
}

func leadsAPIHandler(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := &store.LeadSearchCriteria{
			Decision: r.URL.Query().Get("decision"),
			Source:   r.URL.Query().Get("source"),
			Country:  r.URL.Query().Get("country"),
			Like:     r.URL.Query().Get("like"),
			Limit:    queryParamInt(r, "limit", queryResultLimitDefault),
		}

		if v := r.URL.Query().Get("min_score"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "min_score must be a number")
				return
			}
			q.MinScore = &f
		}

		slog.Debug("lead search", "query", q)

		list, err := db.SearchLeads(q)
		if err != nil {
			slog.Error("failed to search leads", "error", err)
			writeError(w, http.StatusInternalServerError, "error querying leads")
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func stateAPIHandler(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := db.GetDataState()
		if err != nil {
			slog.Error("failed to get data state", "error", err)
			writeError(w, http.StatusInternalServerError, "error querying data state")
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func queryParamInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Error("error converting query string to int", "value", v, "error", err)
		return def
	}

	if i < 1 || i > queryResultLimitDefault {
		return def
	}

	return i
}

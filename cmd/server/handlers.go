package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/monitoring"
)

const (
	maxBodyBytes        = 1 << 20
	defaultHistoryLimit = 10
)

// estimateBody is the POST /estimate payload
type estimateBody struct {
	Check   *models.AICheckResult      `json:"check"`
	Options monitoring.EstimateRequest `json:"options"`
}

// checkResponse optionally carries a traffic estimate next to the check
type checkResponse struct {
	Check   *models.AICheckResult   `json:"check"`
	Traffic *models.TrafficEstimate `json:"traffic,omitempty"`
}

func newRouter(monitoringService *monitoring.Service) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/metrics", metricsHandler(monitoringService)).Methods("GET")
	router.HandleFunc("/check", checkHandler(monitoringService)).Methods("POST")
	router.HandleFunc("/estimate", estimateHandler(monitoringService)).Methods("POST")
	router.HandleFunc("/correlate", correlateHandler(monitoringService)).Methods("POST")
	router.HandleFunc("/history/{brand}", historyHandler(monitoringService)).Methods("GET")
	router.HandleFunc("/trigger", triggerHandler(monitoringService)).Methods("POST")

	return router
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func metricsHandler(monitoringService *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(monitoringService.GetMetrics()))
	}
}

// checkHandler runs a check synchronously; ?estimate=true adds a traffic
// estimate based on the brand's stored history
func checkHandler(monitoringService *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req monitoring.CheckRequest
		if !decodeBody(w, r, &req) {
			return
		}

		check, err := monitoringService.RunCheck(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := checkResponse{Check: check}
		if withEstimate, _ := strconv.ParseBool(r.URL.Query().Get("estimate")); withEstimate {
			estimate, err := monitoringService.Estimate(r.Context(), check, monitoring.EstimateRequest{
				Industry:   req.Industry,
				UseHistory: true,
			})
			if err != nil {
				writeError(w, err)
				return
			}
			resp.Traffic = estimate
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func estimateHandler(monitoringService *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body estimateBody
		if !decodeBody(w, r, &body) {
			return
		}

		estimate, err := monitoringService.Estimate(r.Context(), body.Check, body.Options)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, estimate)
	}
}

func correlateHandler(monitoringService *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req monitoring.CorrelateRequest
		if !decodeBody(w, r, &req) {
			return
		}

		report, err := monitoringService.Correlate(req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func historyHandler(monitoringService *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				writeError(w, models.NewInvalidInput("limit", raw, "must be a positive integer"))
				return
			}
			limit = parsed
		}

		history, err := monitoringService.LoadHistory(r.Context(), mux.Vars(r)["brand"], limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if history == nil {
			history = []models.AICheckResult{}
		}
		writeJSON(w, http.StatusOK, history)
	}
}

func triggerHandler(monitoringService *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			if err := monitoringService.RunScheduledCheck(context.Background()); err != nil {
				logrus.Errorf("Manual visibility check failed: %v", err)
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{"message": "Visibility check triggered"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body: " + err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	var invalid *models.InvalidInputError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalid.Error()})
		return
	}
	logrus.WithError(err).Error("Request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("Failed to write response")
	}
}

package httpinterface

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashlock-network/swapd/internal/infrastructure/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	log "github.com/sirupsen/logrus"
)

const (
	identityHeader  = "X-Auth-Identity"
	signatureHeader = "X-Auth-Signature"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapd_http_requests_total",
		Help: "Number of processed http requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "swapd_http_request_duration_seconds",
		Help: "Duration of processed http requests, by method and route.",
	}, []string{"method", "route"})
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.statusCode,
			"duration": time.Since(start).String(),
		}).Debug("processed request")
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		requestsTotal.WithLabelValues(
			r.Method, route, strconv.Itoa(rec.statusCode),
		).Inc()
		requestDuration.WithLabelValues(r.Method, route).
			Observe(time.Since(start).Seconds())
	})
}

// authMiddleware establishes the invoking identity of mutating requests.
// The identity header carries a compressed secp256k1 public key in hex and
// the signature header a DER signature of "<METHOD> <PATH>\n<BODY>" made
// with that key. Covering method and path prevents replaying a signed body
// against another endpoint.
//
// With noAuth the identity header is trusted as-is. That mode is only meant
// for development setups.
func authMiddleware(noAuth bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			identity := r.Header.Get(identityHeader)
			if len(identity) <= 0 {
				writeJSON(w, http.StatusUnauthorized, errorResponse{
					Error: fmt.Sprintf("missing %s header", identityHeader),
				})
				return
			}

			if !noAuth {
				sig := r.Header.Get(signatureHeader)
				if len(sig) <= 0 {
					writeJSON(w, http.StatusUnauthorized, errorResponse{
						Error: fmt.Sprintf("missing %s header", signatureHeader),
					})
					return
				}

				body, err := io.ReadAll(r.Body)
				if err != nil {
					writeJSON(w, http.StatusBadRequest, errorResponse{
						Error: "failed to read request body",
					})
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				payload := signedPayload(r.Method, r.URL.Path, body)
				if err := auth.VerifySignature(identity, sig, payload); err != nil {
					writeJSON(w, http.StatusUnauthorized, errorResponse{
						Error: err.Error(),
					})
					return
				}
			}

			ctx := auth.WithCaller(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func signedPayload(method, path string, body []byte) []byte {
	payload := []byte(fmt.Sprintf("%s %s\n", method, path))
	return append(payload, body...)
}

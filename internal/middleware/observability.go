package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"wacrm/internal/httputil"
	"wacrm/internal/metrics"
	"wacrm/internal/service"
	"wacrm/internal/tracing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ObservabilityMiddleware adds request IDs, OpenTelemetry spans, metrics and
// start/completion logging to every HTTP request.
func ObservabilityMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.StartSpan(r.Context(), "http_request")
			defer span.End()

			ctx = tracing.WithRequestID(ctx, tracing.GenerateRequestID())
			ctx = tracing.WithStartTime(ctx, time.Now())
			r = r.WithContext(ctx)

			tracing.AddSpanAttributes(ctx,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
				attribute.String("http.host", r.Host),
				attribute.String("user_agent.original", r.Header.Get("User-Agent")),
				attribute.String("client.address", httputil.GetClientIP(r)),
			)

			requestInfo := tracing.GetRequestInfo(ctx)

			wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

			logger.WithFields(logrus.Fields{
				service.LogFieldRequestID: requestInfo.RequestID,
				service.LogFieldTraceID:   requestInfo.TraceID,
				service.LogFieldMethod:    r.Method,
				service.LogFieldURL:       r.URL.Path,
				service.LogFieldRemoteIP:  httputil.GetClientIP(r),
				service.LogFieldUserAgent: r.Header.Get("User-Agent"),
			}).Info("HTTP request started")

			metrics.IncrementCounter("http_requests_total", map[string]string{
				"method":   r.Method,
				"endpoint": r.URL.Path,
			}, "Total HTTP requests")

			next.ServeHTTP(wrapper, r)

			duration := tracing.Duration(ctx)

			tracing.AddSpanAttributes(ctx,
				attribute.Int("http.response.status_code", wrapper.statusCode),
				attribute.Int64("http.response.size", wrapper.responseSize),
				attribute.Int64("http.request.duration_ms", duration.Milliseconds()),
			)
			if wrapper.statusCode >= 400 {
				tracing.SetSpanStatus(ctx, codes.Error, fmt.Sprintf("HTTP %d", wrapper.statusCode))
			} else {
				tracing.SetSpanStatus(ctx, codes.Ok, "")
			}

			metrics.RecordTimer("http_request_duration", duration, map[string]string{
				"method":      r.Method,
				"endpoint":    r.URL.Path,
				"status_code": strconv.Itoa(wrapper.statusCode),
			}, "HTTP request duration")
			metrics.IncrementCounter("http_responses_total", map[string]string{
				"method":      r.Method,
				"endpoint":    r.URL.Path,
				"status_code": strconv.Itoa(wrapper.statusCode),
			}, "HTTP responses by status code")

			logLevel := logrus.InfoLevel
			if wrapper.statusCode >= 500 {
				logLevel = logrus.ErrorLevel
			} else if wrapper.statusCode >= 400 {
				logLevel = logrus.WarnLevel
			}

			logger.WithFields(logrus.Fields{
				service.LogFieldRequestID:  requestInfo.RequestID,
				service.LogFieldTraceID:    requestInfo.TraceID,
				service.LogFieldMethod:     r.Method,
				service.LogFieldURL:        r.URL.Path,
				service.LogFieldStatusCode: wrapper.statusCode,
				service.LogFieldDuration:   duration.Milliseconds(),
				service.LogFieldSize:       wrapper.responseSize,
			}).Log(logLevel, "HTTP request completed")
		})
	}
}

// WebhookObservabilityMiddleware layers webhook-specific spans and counters on
// top of the generic middleware for the provider callback endpoint.
func WebhookObservabilityMiddleware(logger *logrus.Logger, webhookType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			ctx, span := tracing.StartSpan(r.Context(), "webhook_request")
			defer span.End()
			r = r.WithContext(ctx)

			tracing.AddSpanAttributes(ctx,
				attribute.String("webhook.type", webhookType),
				attribute.String("http.method", r.Method),
				attribute.String("client.address", httputil.GetClientIP(r)),
				attribute.Int64("http.request.content_length", r.ContentLength),
			)

			metrics.IncrementCounter("webhook_requests_total", map[string]string{
				"type": webhookType,
			}, "Total webhook requests by type")

			wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapper, r)

			processingTime := time.Since(startTime)

			tracing.AddSpanAttributes(ctx,
				attribute.Int("http.response.status_code", wrapper.statusCode),
				attribute.Int64("webhook.processing_duration_ms", processingTime.Milliseconds()),
			)
			if wrapper.statusCode >= 400 {
				tracing.SetSpanStatus(ctx, codes.Error, fmt.Sprintf("Webhook failed with HTTP %d", wrapper.statusCode))
				metrics.IncrementCounter("webhook_errors_total", map[string]string{
					"type":        webhookType,
					"status_code": strconv.Itoa(wrapper.statusCode),
				}, "Webhook processing errors")
			} else {
				tracing.SetSpanStatus(ctx, codes.Ok, "")
				metrics.IncrementCounter("webhook_success_total", map[string]string{
					"type": webhookType,
				}, "Successful webhook processing")
			}

			metrics.RecordTimer("webhook_processing_duration", processingTime, map[string]string{
				"type":        webhookType,
				"status_code": strconv.Itoa(wrapper.statusCode),
			}, "Webhook processing duration")

			logLevel := logrus.InfoLevel
			if wrapper.statusCode >= 400 {
				logLevel = logrus.ErrorLevel
			}
			logger.WithFields(logrus.Fields{
				service.LogFieldRequestID:  tracing.GetRequestInfo(r.Context()).RequestID,
				service.LogFieldComponent:  webhookType,
				service.LogFieldStatusCode: wrapper.statusCode,
				service.LogFieldDuration:   processingTime.Milliseconds(),
			}).Log(logLevel, "Webhook request completed")
		})
	}
}

// responseWrapper captures the status code and body size for logging.
type responseWrapper struct {
	http.ResponseWriter
	statusCode   int
	responseSize int64
}

func (rw *responseWrapper) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWrapper) Write(data []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(data)
	rw.responseSize += int64(n)
	return n, err
}

// Unwrap exposes the underlying writer so websocket upgrades can reach
// the http.Hijacker hiding behind the wrapper.
func (rw *responseWrapper) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

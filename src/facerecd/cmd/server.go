package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/q-controller/facerecd/src/facerecd/cmd/utils"
	"github.com/q-controller/facerecd/src/pkg/recognition"
	"github.com/q-controller/facerecd/src/pkg/requestid"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const specPath = "/openapi.yaml"

func adapt(h http.Handler) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		h.ServeHTTP(w, r)
	}
}

func routingErrorHandler(ctx context.Context, mux *runtime.ServeMux, marshaler runtime.Marshaler, w http.ResponseWriter, r *http.Request, httpStatus int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	body := map[string]map[string]string{"detail": {"message": http.StatusText(httpStatus)}}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("Failed to encode routing error", "error", err)
	}
}

func serveSpecs(specs string) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		w.Header().Set("Content-Type", "application/yaml")
		if _, err := w.Write([]byte(specs)); err != nil {
			slog.Warn("Failed to write OpenAPI document", "error", err)
		}
	}
}

// newRouter mounts the recognition endpoints next to metrics and API docs.
func newRouter(handler *recognition.Handler, gatherer prometheus.Gatherer) (http.Handler, error) {
	specs, specsErr := utils.GenerateOpenAPISpecs()
	if specsErr != nil {
		return nil, fmt.Errorf("failed to generate OpenAPI specs: %w", specsErr)
	}

	mux := runtime.NewServeMux(runtime.WithRoutingErrorHandler(routingErrorHandler))
	routes := []struct {
		method  string
		path    string
		handler runtime.HandlerFunc
	}{
		{http.MethodGet, "/", handler.Get},
		{http.MethodPost, "/", handler.Post},
		{http.MethodGet, "/metrics", adapt(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))},
		{http.MethodGet, specPath, serveSpecs(specs)},
		{http.MethodGet, "/docs/{path=**}", adapt(httpSwagger.Handler(httpSwagger.URL(specPath)))},
	}
	for _, route := range routes {
		if err := mux.HandlePath(route.method, route.path, route.handler); err != nil {
			return nil, fmt.Errorf("failed to add %s %s: %w", route.method, route.path, err)
		}
	}

	return requestid.Middleware(mux), nil
}

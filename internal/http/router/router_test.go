package router_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orion.app/api/core/config"
	"orion.app/api/internal/http/middleware"
	"orion.app/api/internal/http/router"
	"orion.app/api/internal/progress"
	"orion.app/api/internal/service"
	"orion.app/api/internal/store"
)

var _ = Describe("SetupRoutes", func() {
	var engine *gin.Engine

	BeforeEach(func() {
		engine = gin.New()
		services := service.NewServices(store.NewStores(nil), nil, nil, nil, nil, config.AnalysisConfig{})
		router.SetupRoutes(engine, services, router.RouterConfig{
			Verifier: middleware.NewTokenVerifier("secret", ""),
			Progress: progress.NewMemoryBroker(),
			Dependencies: map[string]router.Pinger{
				"postgres": router.PingFunc(func(context.Context) error { return nil }),
				"redis":    router.PingFunc(func(context.Context) error { return errors.New("connection refused") }),
			},
		})
	})

	serve := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	It("reports liveness", func() {
		w := serve(http.MethodGet, "/health")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"status":"ok"}`))
	})

	It("reports each failing dependency on readiness", func() {
		w := serve(http.MethodGet, "/ready")

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(w.Body.String()).To(MatchJSON(`{
			"status": "Service Unavailable",
			"checks": {"postgres": "ok", "redis": "connection refused"}
		}`))
	})

	DescribeTable("requires a bearer token on analysis routes",
		func(method, path string) {
			Expect(serve(method, path).Code).To(Equal(http.StatusUnauthorized))
		},
		Entry("analyze", http.MethodPost, "/analyses/project/10/analyze"),
		Entry("analyze deep", http.MethodPost, "/analyses/project/10/analyze-deep"),
		Entry("analyze async", http.MethodPost, "/analyses/project/10/analyze-async"),
		Entry("list", http.MethodGet, "/analyses/project/10"),
		Entry("stats", http.MethodGet, "/analyses/project/10/stats"),
		Entry("index", http.MethodGet, "/analyses/project/10/index"),
		Entry("get", http.MethodGet, "/analyses/5"),
		Entry("artifacts", http.MethodGet, "/analyses/5/artifacts"),
		Entry("decisions", http.MethodGet, "/analyses/5/decisions"),
		Entry("update decision", http.MethodPatch, "/analyses/decisions/7"),
	)

	It("checks the query token on the progress stream", func() {
		Expect(serve(http.MethodGet, "/analyses/project/10/analyze/progress").Code).To(Equal(http.StatusUnauthorized))
	})
})

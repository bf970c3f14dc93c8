package httpserver

import (
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
)

var _ = ginkgo.Describe("Metrics", func() {
	ginkgo.Context("MetricsMiddleware", func() {
		ginkgo.When("using metrics middleware", func() {
			ginkgo.It("should collect metrics correctly", func() {
				reader := metric.NewManualReader()
				provider := metric.NewMeterProvider(metric.WithReader(reader))
				otel.SetMeterProvider(provider)

				ResetMetricsForTesting()

				testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
					w.Write([]byte("test response"))
				})

				middleware := MetricsMiddleware()
				handler := middleware(testHandler)

				req := httptest.NewRequest("GET", "/test/endpoint", nil)
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
				gomega.Expect(w.Body.String()).To(gomega.Equal("test response"))

				gomega.Expect(IsMetricsInitialized()).To(gomega.BeTrue())
			})
		})
	})

	ginkgo.Context("NormalizeEndpoint", func() {
		ginkgo.When("normalizing endpoint from path", func() {
			ginkgo.It("should handle root path", func() {
				gomega.Expect(normalizeEndpoint("/")).To(gomega.Equal("root"))
			})

			ginkgo.It("should handle empty path", func() {
				gomega.Expect(normalizeEndpoint("")).To(gomega.Equal("root"))
			})

			ginkgo.It("should keep static paths intact", func() {
				gomega.Expect(normalizeEndpoint("/healthz")).To(gomega.Equal("/healthz"))
				gomega.Expect(normalizeEndpoint("/v1/tenants")).To(gomega.Equal("/v1/tenants"))
			})
		})

		ginkgo.When("normalizing endpoint with UUIDs", func() {
			ginkgo.It("should replace tenant UUID with _id", func() {
				path := "/v1/tenants/123e4567-e89b-12d3-a456-426614174000"
				gomega.Expect(normalizeEndpoint(path)).To(gomega.Equal("/v1/tenants/_id"))
			})

			ginkgo.It("should replace UUIDs in nested paths", func() {
				path := "/v1/tenants/123e4567-e89b-12d3-a456-426614174000/activate"
				gomega.Expect(normalizeEndpoint(path)).To(gomega.Equal("/v1/tenants/_id/activate"))
			})
		})
	})
})

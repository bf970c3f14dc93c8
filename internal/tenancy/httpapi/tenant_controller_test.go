package httpapi_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"tenant-registry-server/internal/infra/httpserver"
	"tenant-registry-server/internal/tenancy/domain"
	"tenant-registry-server/internal/tenancy/httpapi"
	httpapiinternal "tenant-registry-server/internal/tenancy/httpapi/internal"
	"tenant-registry-server/internal/tenancy/usecases"
	mockusecases "tenant-registry-server/test/unit/doubles/tenancy/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("TenantController", func() {
	var controller *httpapi.TenantController
	var mockService *mockusecases.MockTenantService
	var ctrl *gomock.Controller
	var recorder *httptest.ResponseRecorder
	var request *http.Request
	var router *http.ServeMux

	sampleTenant := func() domain.Tenant {
		now := time.Now().UTC()
		return domain.Tenant{
			ID:            domain.ID("d90740b5-8a4e-4cf9-8da9-3f6c0f2e4c41"),
			Identifier:    "acme-corp",
			Name:          "Acme Corp",
			ContactEmail:  "ops@acme.example",
			PrimaryColor:  "#336699",
			Active:        true,
			IdentityRealm: "acme-corp",
			SchemaName:    "acme_corp",
			Status:        domain.StatusProvisioned,
			Version:       1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}

	BeforeEach(func() {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctrl = gomock.NewController(GinkgoT())
		mockService = mockusecases.NewMockTenantService(ctrl)
		controller = httpapi.NewTenantController(mockService)
		recorder = httptest.NewRecorder()
		router = http.NewServeMux()
		controller.AddRoutes(router)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Context("createTenant", func() {
		body := `{"identifier":"acme-corp","name":"Acme Corp","contact_email":"ops@acme.example","primary_color":"#336699"}`

		BeforeEach(func() {
			request = httptest.NewRequest("POST", "/v1/tenants", strings.NewReader(body))
		})

		When("provisioning succeeds", func() {
			It("should return 201 with the provisioned tenant", func() {
				mockService.EXPECT().
					CreateTenant(gomock.Any(), gomock.Any()).
					Return(sampleTenant(), nil)

				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusCreated))

				var response httpapiinternal.TenantResponse
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response.Identifier).To(Equal("acme-corp"))
				Expect(response.SchemaName).To(Equal("acme_corp"))
				Expect(response.Status).To(Equal("provisioned"))
			})
		})

		When("the identifier is already taken", func() {
			It("should return 409", func() {
				mockService.EXPECT().
					CreateTenant(gomock.Any(), gomock.Any()).
					Return(domain.Tenant{}, usecases.ErrTenantDuplicated)

				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusConflict))
			})
		})

		When("the identifier is malformed", func() {
			It("should return 422 without calling the service", func() {
				malformed := `{"identifier":"Acme Corp!","name":"Acme","contact_email":"ops@acme.example"}`
				request = httptest.NewRequest("POST", "/v1/tenants", strings.NewReader(malformed))

				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusUnprocessableEntity))
			})
		})

		When("a backend fails during provisioning", func() {
			It("should return 502", func() {
				mockService.EXPECT().
					CreateTenant(gomock.Any(), gomock.Any()).
					Return(domain.Tenant{}, usecases.ErrSchemaProvisioningFailed)

				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusBadGateway))
			})
		})

		When("the request body is invalid json", func() {
			It("should return 400", func() {
				request = httptest.NewRequest("POST", "/v1/tenants", strings.NewReader("{"))

				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Context("listTenants", func() {
		When("using default pagination", func() {
			It("should return paginated response", func() {
				mockService.EXPECT().
					ListTenants(gomock.Any(), usecases.TenantFilter{Pagination: usecases.Pagination{Limit: 10, Offset: 0}}).
					Return([]domain.Tenant{sampleTenant()}, 1, nil)

				request = httptest.NewRequest("GET", "/v1/tenants", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))

				var response httpserver.PaginatedResponse
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response.Pagination.Page).To(Equal(1))
				Expect(response.Pagination.Limit).To(Equal(10))
				Expect(response.Pagination.Total).To(Equal(1))

				data, ok := response.Data.([]any)
				Expect(ok).To(BeTrue())
				Expect(data).To(HaveLen(1))
			})
		})

		When("using custom pagination", func() {
			It("should translate page and limit to an offset", func() {
				mockService.EXPECT().
					ListTenants(gomock.Any(), usecases.TenantFilter{Pagination: usecases.Pagination{Limit: 5, Offset: 5}}).
					Return([]domain.Tenant{}, 0, nil)

				request = httptest.NewRequest("GET", "/v1/tenants?page=2&limit=5", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))
			})
		})

		When("filtering by status", func() {
			It("should push the filter down and report the filtered total", func() {
				degraded := sampleTenant()
				degraded.Identifier = "broken"
				degraded.Status = domain.StatusDegraded

				mockService.EXPECT().
					ListTenants(gomock.Any(), usecases.TenantFilter{
						Status:     domain.StatusDegraded,
						Pagination: usecases.Pagination{Limit: 10, Offset: 0},
					}).
					Return([]domain.Tenant{degraded}, 1, nil)

				request = httptest.NewRequest("GET", "/v1/tenants?status=degraded", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))

				var response httpserver.PaginatedResponse
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response.Pagination.Total).To(Equal(1))
				data, ok := response.Data.([]any)
				Expect(ok).To(BeTrue())
				Expect(data).To(HaveLen(1))
			})
		})
	})

	Context("getTenant", func() {
		When("the tenant exists", func() {
			It("should return 200", func() {
				tenant := sampleTenant()
				mockService.EXPECT().
					GetTenant(gomock.Any(), tenant.ID).
					Return(tenant, nil)

				request = httptest.NewRequest("GET", "/v1/tenants/"+tenant.ID.String(), nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))
			})
		})

		When("the tenant does not exist", func() {
			It("should return 404", func() {
				mockService.EXPECT().
					GetTenant(gomock.Any(), gomock.Any()).
					Return(domain.Tenant{}, usecases.ErrTenantNotFound)

				request = httptest.NewRequest("GET", "/v1/tenants/missing", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusNotFound))
			})
		})
	})

	Context("getTenantByIdentifier", func() {
		It("should resolve the tenant by its identifier", func() {
			tenant := sampleTenant()
			mockService.EXPECT().
				GetTenantByIdentifier(gomock.Any(), "acme-corp").
				Return(tenant, nil)

			request = httptest.NewRequest("GET", "/v1/tenants/by-identifier/acme-corp", nil)
			router.ServeHTTP(recorder, request)

			Expect(recorder.Code).To(Equal(http.StatusOK))

			var response httpapiinternal.TenantResponse
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
			Expect(response.ID).To(Equal(tenant.ID.String()))
		})
	})

	Context("updateTenant", func() {
		body := `{"name":"Acme Incorporated","version":1}`

		When("the update succeeds", func() {
			It("should return 200 with the updated tenant", func() {
				updated := sampleTenant()
				updated.Name = "Acme Incorporated"
				updated.Version = 2

				mockService.EXPECT().
					UpdateTenant(gomock.Any(), gomock.Any()).
					Return(updated, nil)

				request = httptest.NewRequest("PUT", "/v1/tenants/"+updated.ID.String(), strings.NewReader(body))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))

				var response httpapiinternal.TenantResponse
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response.Name).To(Equal("Acme Incorporated"))
				Expect(response.Version).To(Equal(2))
			})
		})

		When("the version is stale", func() {
			It("should return 409", func() {
				mockService.EXPECT().
					UpdateTenant(gomock.Any(), gomock.Any()).
					Return(domain.Tenant{}, usecases.ErrTenantVersionConflict)

				request = httptest.NewRequest("PUT", "/v1/tenants/some-id", strings.NewReader(body))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusConflict))
			})
		})

		When("the tenant is not in provisioned state", func() {
			It("should return 409", func() {
				mockService.EXPECT().
					UpdateTenant(gomock.Any(), gomock.Any()).
					Return(domain.Tenant{}, usecases.ErrTenantNotProvisioned)

				request = httptest.NewRequest("PUT", "/v1/tenants/some-id", strings.NewReader(body))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusConflict))
			})
		})
	})

	Context("deleteTenant", func() {
		When("deprovisioning starts", func() {
			It("should return 202", func() {
				mockService.EXPECT().
					DeleteTenant(gomock.Any(), domain.ID("some-id")).
					Return(nil)

				request = httptest.NewRequest("DELETE", "/v1/tenants/some-id", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusAccepted))
			})
		})

		When("the tenant does not exist", func() {
			It("should return 404", func() {
				mockService.EXPECT().
					DeleteTenant(gomock.Any(), gomock.Any()).
					Return(usecases.ErrTenantNotFound)

				request = httptest.NewRequest("DELETE", "/v1/tenants/missing", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusNotFound))
			})
		})

		When("the registry delete fails", func() {
			It("should return 500", func() {
				mockService.EXPECT().
					DeleteTenant(gomock.Any(), gomock.Any()).
					Return(errors.New("registry down"))

				request = httptest.NewRequest("DELETE", "/v1/tenants/some-id", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
			})
		})
	})

	Context("activate and deactivate", func() {
		It("should return 204 on successful activation", func() {
			mockService.EXPECT().
				ActivateTenant(gomock.Any(), domain.ID("some-id")).
				Return(nil)

			request = httptest.NewRequest("POST", "/v1/tenants/some-id/activate", nil)
			router.ServeHTTP(recorder, request)

			Expect(recorder.Code).To(Equal(http.StatusNoContent))
		})

		It("should return 204 on successful deactivation", func() {
			mockService.EXPECT().
				DeactivateTenant(gomock.Any(), domain.ID("some-id")).
				Return(nil)

			request = httptest.NewRequest("POST", "/v1/tenants/some-id/deactivate", nil)
			router.ServeHTTP(recorder, request)

			Expect(recorder.Code).To(Equal(http.StatusNoContent))
		})

		It("should return 409 when the tenant is degraded", func() {
			mockService.EXPECT().
				ActivateTenant(gomock.Any(), gomock.Any()).
				Return(usecases.ErrTenantNotProvisioned)

			request = httptest.NewRequest("POST", "/v1/tenants/some-id/activate", nil)
			router.ServeHTTP(recorder, request)

			Expect(recorder.Code).To(Equal(http.StatusConflict))
		})
	})
})

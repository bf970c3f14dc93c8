package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"tenant-registry-server/internal/infra/httpserver"
	"tenant-registry-server/internal/tenancy/domain"
	"tenant-registry-server/internal/tenancy/httpapi/internal"
	"tenant-registry-server/internal/tenancy/usecases"
)

const (
	createTenantErrMessage          = "failed to create tenant"
	tenantNotFoundErrMessage        = "tenant not found"
	tenantDuplicatedErrMessage      = "tenant already exists"
	tenantNotProvisionedErrMessage  = "tenant is not in provisioned state"
	tenantVersionConflictErrMessage = "tenant version conflict"
	invalidIdentifierErrMessage     = "invalid tenant identifier"
	provisioningFailedErrMessage    = "tenant provisioning failed"
	updateTenantErrMessage          = "failed to update tenant"
	deleteTenantErrMessage          = "failed to delete tenant"
	listTenantsErrMessage           = "failed to list tenants"
	getTenantErrMessage             = "failed to get tenant"
)

func NewTenantController(service usecases.TenantService) *TenantController {
	return &TenantController{
		service: service,
	}
}

var _ httpserver.Controller = &TenantController{}

type TenantController struct {
	service usecases.TenantService
}

func (c *TenantController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/tenants", c.listTenants())
	router.Handle("POST /v1/tenants", c.createTenant())
	router.Handle("GET /v1/tenants/{id}", c.getTenant())
	router.Handle("GET /v1/tenants/by-identifier/{identifier}", c.getTenantByIdentifier())
	router.Handle("PUT /v1/tenants/{id}", c.updateTenant())
	router.Handle("DELETE /v1/tenants/{id}", c.deleteTenant())
	router.Handle("POST /v1/tenants/{id}/activate", c.activateTenant())
	router.Handle("POST /v1/tenants/{id}/deactivate", c.deactivateTenant())
}

func (c *TenantController) listTenants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := httpserver.ExtractPaginationParams(r)
		filter := usecases.TenantFilter{
			Status:     domain.ProvisioningStatus(r.URL.Query().Get("status")),
			Pagination: usecases.Pagination{Limit: params.Limit, Offset: (params.Page - 1) * params.Limit},
		}

		tenants, total, err := c.service.ListTenants(r.Context(), filter)
		if err != nil {
			slog.Error("listing tenants", slog.String("error", err.Error()))
			http.Error(w, listTenantsErrMessage, http.StatusInternalServerError)
			return
		}

		responses := make([]internal.TenantResponse, 0, len(tenants))
		for _, tenant := range tenants {
			responses = append(responses, internal.ToTenantResponse(tenant))
		}

		httpserver.ReplyWithPaginatedData(w, http.StatusOK, responses, total, params)
	}
}

func (c *TenantController) createTenant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.TenantCreateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			slog.Error("decoding create tenant request", slog.String("error", err.Error()))
			http.Error(w, createTenantErrMessage, http.StatusBadRequest)
			return
		}

		tenant, err := domain.NewTenantBuilder().
			WithIdentifier(body.Identifier).
			WithName(body.Name).
			WithContactEmail(body.ContactEmail).
			WithPrimaryColor(body.PrimaryColor).
			WithLogoURL(body.LogoURL).
			Build()
		if errors.Is(err, domain.ErrInvalidIdentifier) {
			http.Error(w, invalidIdentifierErrMessage, http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			slog.Error("building tenant", slog.String("error", err.Error()))
			http.Error(w, createTenantErrMessage, http.StatusBadRequest)
			return
		}

		created, err := c.service.CreateTenant(r.Context(), tenant)
		if errors.Is(err, usecases.ErrTenantDuplicated) || errors.Is(err, usecases.ErrDuplicateIdentifier) {
			http.Error(w, tenantDuplicatedErrMessage, http.StatusConflict)
			return
		}
		if isProvisioningFailure(err) {
			slog.Error("provisioning tenant", slog.String("error", err.Error()))
			http.Error(w, provisioningFailedErrMessage, http.StatusBadGateway)
			return
		}
		if err != nil {
			slog.Error("creating tenant", slog.String("error", err.Error()))
			http.Error(w, createTenantErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToTenantResponse(created)
		httpserver.ReplyJSONResponse(w, http.StatusCreated, response)
	}
}

func (c *TenantController) getTenant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "tenant id is required", http.StatusBadRequest)
			return
		}

		tenant, err := c.service.GetTenant(r.Context(), domain.ID(id))
		if errors.Is(err, usecases.ErrTenantNotFound) {
			http.Error(w, tenantNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("getting tenant", slog.String("error", err.Error()))
			http.Error(w, getTenantErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToTenantResponse(tenant)
		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func (c *TenantController) getTenantByIdentifier() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := r.PathValue("identifier")
		if identifier == "" {
			http.Error(w, "tenant identifier is required", http.StatusBadRequest)
			return
		}

		tenant, err := c.service.GetTenantByIdentifier(r.Context(), identifier)
		if errors.Is(err, usecases.ErrTenantNotFound) {
			http.Error(w, tenantNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("getting tenant by identifier", slog.String("error", err.Error()))
			http.Error(w, getTenantErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToTenantResponse(tenant)
		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func (c *TenantController) updateTenant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "tenant id is required", http.StatusBadRequest)
			return
		}

		var body internal.TenantUpdateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			slog.Error("decoding update tenant request", slog.String("error", err.Error()))
			http.Error(w, updateTenantErrMessage, http.StatusBadRequest)
			return
		}

		tenant := domain.Tenant{
			ID:           domain.ID(id),
			Name:         body.Name,
			ContactEmail: body.ContactEmail,
			PrimaryColor: body.PrimaryColor,
			LogoURL:      body.LogoURL,
			Version:      body.Version,
		}

		updated, err := c.service.UpdateTenant(r.Context(), tenant)
		if errors.Is(err, usecases.ErrTenantNotFound) {
			http.Error(w, tenantNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if errors.Is(err, usecases.ErrTenantNotProvisioned) {
			http.Error(w, tenantNotProvisionedErrMessage, http.StatusConflict)
			return
		}
		if errors.Is(err, usecases.ErrTenantVersionConflict) {
			http.Error(w, tenantVersionConflictErrMessage, http.StatusConflict)
			return
		}
		if err != nil {
			slog.Error("updating tenant", slog.String("error", err.Error()))
			http.Error(w, updateTenantErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToTenantResponse(updated)
		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

// deleteTenant starts deprovisioning. Cleanup failures degrade the tenant
// instead of failing the request, so success is reported as accepted rather
// than done.
func (c *TenantController) deleteTenant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "tenant id is required", http.StatusBadRequest)
			return
		}

		err := c.service.DeleteTenant(r.Context(), domain.ID(id))
		if errors.Is(err, usecases.ErrTenantNotFound) {
			http.Error(w, tenantNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("deleting tenant", slog.String("error", err.Error()))
			http.Error(w, deleteTenantErrMessage, http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

func (c *TenantController) activateTenant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "tenant id is required", http.StatusBadRequest)
			return
		}

		err := c.service.ActivateTenant(r.Context(), domain.ID(id))
		if errors.Is(err, usecases.ErrTenantNotFound) {
			http.Error(w, tenantNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if errors.Is(err, usecases.ErrTenantNotProvisioned) {
			http.Error(w, tenantNotProvisionedErrMessage, http.StatusConflict)
			return
		}
		if err != nil {
			slog.Error("activating tenant", slog.String("error", err.Error()))
			http.Error(w, "failed to activate tenant", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (c *TenantController) deactivateTenant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "tenant id is required", http.StatusBadRequest)
			return
		}

		err := c.service.DeactivateTenant(r.Context(), domain.ID(id))
		if errors.Is(err, usecases.ErrTenantNotFound) {
			http.Error(w, tenantNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if errors.Is(err, usecases.ErrTenantNotProvisioned) {
			http.Error(w, tenantNotProvisionedErrMessage, http.StatusConflict)
			return
		}
		if err != nil {
			slog.Error("deactivating tenant", slog.String("error", err.Error()))
			http.Error(w, "failed to deactivate tenant", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func isProvisioningFailure(err error) bool {
	return errors.Is(err, usecases.ErrIdentityProvisioningFailed) ||
		errors.Is(err, usecases.ErrSchemaProvisioningFailed) ||
		errors.Is(err, usecases.ErrRegistryWriteFailed) ||
		errors.Is(err, usecases.ErrBackendUnavailable)
}

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"tenant-registry-server/internal/tenancy/usecases"

	"github.com/go-resty/resty/v2"
)

const tokenExpiryMargin = 10 * time.Second

// Config carries the connection settings for the Keycloak admin API. The
// admin account authenticates against the master realm with the admin-cli
// public client.
type Config struct {
	ServerURL     string
	AdminUsername string
	AdminPassword string
	Timeout       time.Duration

	// Defaults applied to every newly created realm.
	DefaultClientID     string
	DefaultClientSecret string
	DefaultAdminRole    string
}

func NewKeycloakClient(cfg Config) *KeycloakClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ServerURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &KeycloakClient{
		httpClient: httpClient,
		config:     cfg,
	}
}

var _ usecases.IdentityProvider = (*KeycloakClient)(nil)

// KeycloakClient talks to the Keycloak admin REST API. Mutating calls have
// ensure semantics: a 409 on create means another caller got there first and
// is reported as already-existing, not as an error.
type KeycloakClient struct {
	httpClient *resty.Client
	config     Config

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type realmRepresentation struct {
	Realm               string `json:"realm"`
	DisplayName         string `json:"displayName,omitempty"`
	Enabled             bool   `json:"enabled"`
	RegistrationAllowed bool   `json:"registrationAllowed"`
}

type clientRepresentation struct {
	ID                        string `json:"id,omitempty"`
	ClientID                  string `json:"clientId"`
	Secret                    string `json:"secret,omitempty"`
	Enabled                   bool   `json:"enabled"`
	PublicClient              bool   `json:"publicClient"`
	StandardFlowEnabled       bool   `json:"standardFlowEnabled"`
	DirectAccessGrantsEnabled bool   `json:"directAccessGrantsEnabled"`
	ServiceAccountsEnabled    bool   `json:"serviceAccountsEnabled"`
}

type roleRepresentation struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type credentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

type userRepresentation struct {
	ID          string                     `json:"id,omitempty"`
	Username    string                     `json:"username"`
	Email       string                     `json:"email,omitempty"`
	FirstName   string                     `json:"firstName,omitempty"`
	LastName    string                     `json:"lastName,omitempty"`
	Enabled     bool                       `json:"enabled"`
	Credentials []credentialRepresentation `json:"credentials,omitempty"`
}

// token returns a cached admin access token, fetching a new one when the
// cached token is missing or about to expire.
func (c *KeycloakClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	var result tokenResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": "password",
			"client_id":  "admin-cli",
			"username":   c.config.AdminUsername,
			"password":   c.config.AdminPassword,
		}).
		SetResult(&result).
		Post("/realms/master/protocol/openid-connect/token")
	if err != nil {
		return "", fmt.Errorf("%w: requesting admin token: %w", usecases.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: admin token request returned %d", usecases.ErrBackendUnavailable, resp.StatusCode())
	}

	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn)*time.Second - tokenExpiryMargin)
	return c.accessToken, nil
}

func (c *KeycloakClient) request(ctx context.Context) (*resty.Request, error) {
	accessToken, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	return c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken), nil
}

func (c *KeycloakClient) EnsureRealm(ctx context.Context, name, displayName string) (bool, error) {
	exists, err := c.RealmExists(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	req, err := c.request(ctx)
	if err != nil {
		return false, err
	}
	resp, err := req.
		SetBody(realmRepresentation{
			Realm:               name,
			DisplayName:         displayName,
			Enabled:             true,
			RegistrationAllowed: false,
		}).
		Post("/admin/realms")
	if err != nil {
		return false, fmt.Errorf("%w: creating realm: %w", usecases.ErrBackendUnavailable, err)
	}
	switch {
	case resp.StatusCode() == http.StatusConflict:
		return false, nil
	case resp.IsError():
		return false, c.statusError("creating realm", resp)
	}

	// A fresh realm gets the default confidential client and the admin
	// role so tenants are usable without further identity setup.
	if c.config.DefaultClientID != "" {
		if _, _, err := c.EnsureClient(ctx, name, c.config.DefaultClientID, c.config.DefaultClientSecret); err != nil {
			return false, fmt.Errorf("provisioning default client: %w", err)
		}
	}
	if c.config.DefaultAdminRole != "" {
		if _, err := c.EnsureRole(ctx, name, c.config.DefaultAdminRole); err != nil {
			return false, fmt.Errorf("provisioning default role: %w", err)
		}
	}

	slog.Info("realm created", slog.String("realm", name))
	return true, nil
}

func (c *KeycloakClient) RealmExists(ctx context.Context, name string) (bool, error) {
	req, err := c.request(ctx)
	if err != nil {
		return false, err
	}
	resp, err := req.Get("/admin/realms/" + name)
	if err != nil {
		return false, fmt.Errorf("%w: getting realm: %w", usecases.ErrBackendUnavailable, err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return false, nil
	case resp.IsError():
		return false, c.statusError("getting realm", resp)
	}
	return true, nil
}

func (c *KeycloakClient) DeleteRealm(ctx context.Context, name string) (bool, error) {
	req, err := c.request(ctx)
	if err != nil {
		return false, err
	}
	resp, err := req.Delete("/admin/realms/" + name)
	if err != nil {
		return false, fmt.Errorf("%w: deleting realm: %w", usecases.ErrBackendUnavailable, err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return false, nil
	case resp.IsError():
		return false, c.statusError("deleting realm", resp)
	}

	slog.Info("realm deleted", slog.String("realm", name))
	return true, nil
}

func (c *KeycloakClient) EnsureClient(ctx context.Context, realm, clientID, secret string) (string, bool, error) {
	existing, err := c.findClient(ctx, realm, clientID)
	if err != nil {
		return "", false, err
	}
	if existing != "" {
		return existing, false, nil
	}

	req, err := c.request(ctx)
	if err != nil {
		return "", false, err
	}
	resp, err := req.
		SetBody(clientRepresentation{
			ClientID:                  clientID,
			Secret:                    secret,
			Enabled:                   true,
			PublicClient:              false,
			StandardFlowEnabled:       true,
			DirectAccessGrantsEnabled: true,
			ServiceAccountsEnabled:    true,
		}).
		Post(fmt.Sprintf("/admin/realms/%s/clients", realm))
	if err != nil {
		return "", false, fmt.Errorf("%w: creating client: %w", usecases.ErrBackendUnavailable, err)
	}
	switch {
	case resp.StatusCode() == http.StatusConflict:
		clientUUID, err := c.findClient(ctx, realm, clientID)
		return clientUUID, false, err
	case resp.IsError():
		return "", false, c.statusError("creating client", resp)
	}

	// Keycloak assigns the backend UUID; the create response only carries a
	// Location header, so look the client up again.
	clientUUID, err := c.findClient(ctx, realm, clientID)
	if err != nil {
		return "", false, err
	}
	return clientUUID, true, nil
}

func (c *KeycloakClient) findClient(ctx context.Context, realm, clientID string) (string, error) {
	req, err := c.request(ctx)
	if err != nil {
		return "", err
	}
	var clients []clientRepresentation
	resp, err := req.
		SetQueryParam("clientId", clientID).
		SetResult(&clients).
		Get(fmt.Sprintf("/admin/realms/%s/clients", realm))
	if err != nil {
		return "", fmt.Errorf("%w: searching client: %w", usecases.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return "", c.statusError("searching client", resp)
	}
	for _, candidate := range clients {
		if candidate.ClientID == clientID {
			return candidate.ID, nil
		}
	}
	return "", nil
}

func (c *KeycloakClient) EnsureRole(ctx context.Context, realm, roleName string) (bool, error) {
	req, err := c.request(ctx)
	if err != nil {
		return false, err
	}
	resp, err := req.
		SetBody(roleRepresentation{Name: roleName}).
		Post(fmt.Sprintf("/admin/realms/%s/roles", realm))
	if err != nil {
		return false, fmt.Errorf("%w: creating role: %w", usecases.ErrBackendUnavailable, err)
	}
	switch {
	case resp.StatusCode() == http.StatusConflict:
		return false, nil
	case resp.IsError():
		return false, c.statusError("creating role", resp)
	}
	return true, nil
}

// EnsureUser creates the user with a permanent password and grants the
// realm role. An existing username is returned as-is without resetting its
// password or touching its role mappings.
func (c *KeycloakClient) EnsureUser(ctx context.Context, realm string, user usecases.AdminUser) (string, bool, error) {
	existing, err := c.findUser(ctx, realm, user.Username)
	if err != nil {
		return "", false, err
	}
	if existing != "" {
		return existing, false, nil
	}

	req, err := c.request(ctx)
	if err != nil {
		return "", false, err
	}
	resp, err := req.
		SetBody(userRepresentation{
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Enabled:   true,
			Credentials: []credentialRepresentation{{
				Type:      "password",
				Value:     user.Password,
				Temporary: false,
			}},
		}).
		Post(fmt.Sprintf("/admin/realms/%s/users", realm))
	if err != nil {
		return "", false, fmt.Errorf("%w: creating user: %w", usecases.ErrBackendUnavailable, err)
	}
	switch {
	case resp.StatusCode() == http.StatusConflict:
		userID, err := c.findUser(ctx, realm, user.Username)
		return userID, false, err
	case resp.IsError():
		return "", false, c.statusError("creating user", resp)
	}

	userID, err := c.findUser(ctx, realm, user.Username)
	if err != nil {
		return "", false, err
	}
	if user.RoleName != "" {
		if err := c.grantRealmRole(ctx, realm, userID, user.RoleName); err != nil {
			return "", false, err
		}
	}

	slog.Info("user created",
		slog.String("realm", realm),
		slog.String("username", user.Username))
	return userID, true, nil
}

func (c *KeycloakClient) findUser(ctx context.Context, realm, username string) (string, error) {
	req, err := c.request(ctx)
	if err != nil {
		return "", err
	}
	var users []userRepresentation
	resp, err := req.
		SetQueryParams(map[string]string{"username": username, "exact": "true"}).
		SetResult(&users).
		Get(fmt.Sprintf("/admin/realms/%s/users", realm))
	if err != nil {
		return "", fmt.Errorf("%w: searching user: %w", usecases.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return "", c.statusError("searching user", resp)
	}
	for _, candidate := range users {
		if candidate.Username == username {
			return candidate.ID, nil
		}
	}
	return "", nil
}

func (c *KeycloakClient) grantRealmRole(ctx context.Context, realm, userID, roleName string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	var role roleRepresentation
	resp, err := req.
		SetResult(&role).
		Get(fmt.Sprintf("/admin/realms/%s/roles/%s", realm, roleName))
	if err != nil {
		return fmt.Errorf("%w: getting role: %w", usecases.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return c.statusError("getting role", resp)
	}

	req, err = c.request(ctx)
	if err != nil {
		return err
	}
	resp, err = req.
		SetBody([]roleRepresentation{role}).
		Post(fmt.Sprintf("/admin/realms/%s/users/%s/role-mappings/realm", realm, userID))
	if err != nil {
		return fmt.Errorf("%w: granting role: %w", usecases.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return c.statusError("granting role", resp)
	}
	return nil
}

func (c *KeycloakClient) statusError(operation string, resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s returned %d", usecases.ErrBackendUnavailable, operation, resp.StatusCode())
	}
	return fmt.Errorf("%s returned %d: %s", operation, resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
}

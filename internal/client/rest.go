package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/auth"
	"github.com/ghelioth/les-bons-artisants-test/internal/domain/catalog"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
)

// RestClient talks to the catalog REST surface. It caches the credential
// issued by login/register and attaches it to every mutation; a 401
// response discards the cached credential so the caller can re-login.
type RestClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewRestClient(baseURL string) *RestClient {
	return &RestClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Token returns the cached credential, empty when logged out.
func (c *RestClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken installs a credential obtained elsewhere.
func (c *RestClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
}

type credentialPayload struct {
	Token string        `json:"token"`
	User  auth.Identity `json:"user"`
}

// Register creates an account and caches the returned credential.
func (c *RestClient) Register(ctx context.Context, name, email, password string) (auth.Identity, error) {
	const op = "client.Register"
	body := map[string]string{"name": name, "email": email, "password": password}

	var payload credentialPayload
	if err := c.call(ctx, op, http.MethodPost, "/api/auth/register", body, &payload); err != nil {
		return auth.Identity{}, err
	}
	c.SetToken(payload.Token)
	return payload.User, nil
}

// Login authenticates and caches the returned credential.
func (c *RestClient) Login(ctx context.Context, email, password string) (auth.Identity, error) {
	const op = "client.Login"
	body := map[string]string{"email": email, "password": password}

	var payload credentialPayload
	if err := c.call(ctx, op, http.MethodPost, "/api/auth/login", body, &payload); err != nil {
		return auth.Identity{}, err
	}
	c.SetToken(payload.Token)
	return payload.User, nil
}

// Logout revokes the cached credential server-side and forgets it locally
// regardless of the outcome.
func (c *RestClient) Logout(ctx context.Context) error {
	const op = "client.Logout"
	err := c.call(ctx, op, http.MethodPost, "/api/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

// FetchProducts retrieves the full catalog snapshot.
func (c *RestClient) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	const op = "client.FetchProducts"
	var products []catalog.Product
	if err := c.call(ctx, op, http.MethodGet, "/api/product", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchProduct retrieves one product by identifier.
func (c *RestClient) FetchProduct(ctx context.Context, id int64) (catalog.Product, error) {
	const op = "client.FetchProduct"
	var product catalog.Product
	err := c.call(ctx, op, http.MethodGet, "/api/product/"+strconv.FormatInt(id, 10), nil, &product)
	return product, err
}

// CreateProduct submits a new product and returns the stored form with
// its server-assigned identifier.
func (c *RestClient) CreateProduct(ctx context.Context, record catalog.Record) (catalog.Product, error) {
	const op = "client.CreateProduct"
	var product catalog.Product
	err := c.call(ctx, op, http.MethodPost, "/api/product", record, &product)
	return product, err
}

// UpdateProduct applies a partial change and returns the merged product.
func (c *RestClient) UpdateProduct(ctx context.Context, id int64, patch catalog.Record) (catalog.Product, error) {
	const op = "client.UpdateProduct"
	var product catalog.Product
	err := c.call(ctx, op, http.MethodPatch, "/api/product/"+strconv.FormatInt(id, 10), patch, &product)
	return product, err
}

// DeleteProduct removes a product by identifier.
func (c *RestClient) DeleteProduct(ctx context.Context, id int64) error {
	const op = "client.DeleteProduct"
	return c.call(ctx, op, http.MethodDelete, "/api/product/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *RestClient) call(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.KindTransport, op, "encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(errors.KindTransport, op, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(errors.KindTransport, op, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(errors.KindTransport, op, "read response", err)
	}

	var env apiEnvelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return errors.Wrap(errors.KindTransport, op,
			fmt.Sprintf("malformed response (status %d)", resp.StatusCode), err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// The credential is no longer usable, forget it.
		c.SetToken("")
		return errors.New(errors.KindAuth, op, env.Message)
	}
	if !env.Success {
		kind := errors.KindUnknown
		switch resp.StatusCode {
		case http.StatusBadRequest:
			kind = errors.KindValidation
		case http.StatusNotFound:
			kind = errors.KindNotFound
		}
		return errors.New(kind, op, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := sonic.Unmarshal(env.Data, out); err != nil {
			return errors.Wrap(errors.KindTransport, op, "decode payload", err)
		}
	}
	return nil
}

// Package client talks to the storefront REST API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("baseURL[%s] must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases idle keep-alive connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

type ListParams struct {
	Page     int
	Limit    int
	Category string
	Sort     string
	Order    string
}

func (c *Client) ListProducts(ctx context.Context, params ListParams) (domain.ProductPage, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.Sort != "" {
		q.Set("sort", params.Sort)
	}
	if params.Order != "" {
		q.Set("order", params.Order)
	}

	var env api.Envelope[[]api.ProductDTO]
	if err := c.do(ctx, http.MethodGet, "/api/products", q, "", nil, &env); err != nil {
		return domain.ProductPage{}, err
	}

	products := make([]domain.Product, 0, len(env.Data))
	for _, dto := range env.Data {
		p, err := dto.ToDomain()
		if err != nil {
			return domain.ProductPage{}, fmt.Errorf("dto.ToDomain: %w", err)
		}
		products = append(products, p)
	}

	page := domain.ProductPage{Products: products, TotalItems: len(products)}
	if env.Pagination != nil {
		page.Page = env.Pagination.CurrentPage
		page.Limit = env.Pagination.ItemsPerPage
		page.TotalItems = env.Pagination.TotalItems
	}
	return page, nil
}

func (c *Client) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	var env api.Envelope[api.ProductDTO]
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id.String(), nil, "", nil, &env); err != nil {
		return domain.Product{}, err
	}

	p, err := env.Data.ToDomain()
	if err != nil {
		return domain.Product{}, fmt.Errorf("dto.ToDomain: %w", err)
	}
	return p, nil
}

func (c *Client) GetCart(ctx context.Context, cartID domain.CartID) (domain.Cart, error) {
	return c.cartCall(ctx, http.MethodGet, "/api/cart", cartID, nil)
}

func (c *Client) AddItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) (domain.Cart, error) {
	return c.cartCall(ctx, http.MethodPost, "/api/cart", cartID, api.AddToCartRequest{
		ProductID: productID.String(),
		Quantity:  api.Quantity(qty),
	})
}

func (c *Client) UpdateItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) (domain.Cart, error) {
	return c.cartCall(ctx, http.MethodPut, "/api/cart/"+productID.String(), cartID, api.UpdateCartItemRequest{
		Quantity: api.Quantity(qty),
	})
}

func (c *Client) RemoveItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID) (domain.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, "/api/cart/"+productID.String(), cartID, nil)
}

func (c *Client) ClearCart(ctx context.Context, cartID domain.CartID) (domain.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, "/api/cart", cartID, nil)
}

func (c *Client) cartCall(ctx context.Context, method, path string, cartID domain.CartID, body any) (domain.Cart, error) {
	if cartID == "" {
		return domain.Cart{}, fmt.Errorf("cartID is empty")
	}

	var env api.Envelope[api.CartDTO]
	if err := c.do(ctx, method, path, nil, cartID, body, &env); err != nil {
		return domain.Cart{}, err
	}

	cart, err := env.Data.ToDomain()
	if err != nil {
		return domain.Cart{}, fmt.Errorf("dto.ToDomain: %w", err)
	}
	return cart, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, cartID domain.CartID, body, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cartID != "" {
		req.Header.Set(api.HeaderCartID, cartID.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}
	return nil
}

// Package dummyjson はDummyJSONの商品APIクライアント。
package dummyjson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/config"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/usecase"

	"golang.org/x/time/rate"
)

// GET /products のレスポンス
type productsResponse struct {
	Products []productDTO `json:"products"`
	Total    int          `json:"total"`
	Skip     int          `json:"skip"`
	Limit    int          `json:"limit"`
}

type productDTO struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int64    `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ usecase.CatalogClient = (*Client)(nil)

// DI
func NewClient(cfg config.CatalogConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	perMinute := cfg.RatePerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

// FetchProducts は GET {base}/products?limit={limit}
func (c *Client) FetchProducts(ctx context.Context, limit int) ([]usecase.CatalogProduct, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fetchError(err)
	}

	endpoint := c.baseURL + "/products?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fetchError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fetchError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 本文は読み捨てて接続を再利用できるようにする
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fetchError(fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	var body productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &usecase.CatalogError{Kind: usecase.CatalogParseFailed, Err: err}
	}

	out := make([]usecase.CatalogProduct, 0, len(body.Products))
	for _, p := range body.Products {
		out = append(out, usecase.CatalogProduct{
			ID:                 p.ID,
			Title:              p.Title,
			Description:        p.Description,
			Price:              p.Price,
			DiscountPercentage: p.DiscountPercentage,
			Rating:             p.Rating,
			Stock:              p.Stock,
			Brand:              p.Brand,
			Category:           p.Category,
			Thumbnail:          p.Thumbnail,
			Images:             p.Images,
		})
	}
	return out, nil
}

func fetchError(err error) error {
	return &usecase.CatalogError{Kind: usecase.CatalogFetchFailed, Err: err}
}

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Product is the flattened record returned to the storefront front-end.
// Image is nil when the product has no image at all.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Handle      string  `json:"handle"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	URL         string  `json:"url"`
	Image       *string `json:"image"`
}

// UnavailableError reports a non-success response from the Storefront API.
type UnavailableError struct {
	Status int
	Body   string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("catalog: shopify responded %d: %s", e.Status, e.Body)
}

// productPageSize caps a single catalog query. The front-end renders one page.
const productPageSize = 20

const productsQuery = `{
  products(first: %d) {
    edges {
      node {
        id
        title
        handle
        description
        availableForSale
        onlineStoreUrl
        images(first: 1) {
          edges {
            node {
              url
            }
          }
        }
      }
    }
  }
}`

type Options struct {
	Domain     string
	Token      string
	BaseURL    string // overrides the domain-derived endpoint, used in tests
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	domain     string
}

func NewClient(opts Options) *Client {
	domain := strings.TrimSpace(opts.Domain)
	endpoint := strings.TrimRight(opts.BaseURL, "/")
	if endpoint == "" && domain != "" {
		endpoint = fmt.Sprintf("https://%s/api/2024-01/graphql.json", domain)
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		endpoint:   endpoint,
		token:      strings.TrimSpace(opts.Token),
		domain:     domain,
	}
}

type graphqlRequest struct {
	Query string `json:"query"`
}

type productsResponse struct {
	Data struct {
		Products struct {
			Edges []struct {
				Node struct {
					ID               string `json:"id"`
					Title            string `json:"title"`
					Handle           string `json:"handle"`
					Description      string `json:"description"`
					AvailableForSale bool   `json:"availableForSale"`
					OnlineStoreURL   string `json:"onlineStoreUrl"`
					Images           struct {
						Edges []struct {
							Node struct {
								URL string `json:"url"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"images"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ListProducts issues one Storefront query and maps each record into a
// Product. Read-only, single attempt.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	if c == nil || c.endpoint == "" || c.token == "" {
		return nil, errors.New("catalog: storefront domain or token not configured")
	}

	body, err := json.Marshal(graphqlRequest{Query: fmt.Sprintf(productsQuery, productPageSize)})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: storefront request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UnavailableError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out productsResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("catalog: decode response: %w", err)
	}
	if len(out.Errors) > 0 {
		return nil, &UnavailableError{Status: resp.StatusCode, Body: out.Errors[0].Message}
	}

	products := make([]Product, 0, len(out.Data.Products.Edges))
	for _, edge := range out.Data.Products.Edges {
		node := edge.Node
		p := Product{
			ID:          node.ID,
			Title:       node.Title,
			Handle:      node.Handle,
			Description: node.Description,
			Available:   node.AvailableForSale,
			URL:         node.OnlineStoreURL,
		}
		if p.URL == "" && c.domain != "" {
			p.URL = fmt.Sprintf("https://%s/products/%s", c.domain, node.Handle)
		}
		if len(node.Images.Edges) > 0 {
			if url := strings.TrimSpace(node.Images.Edges[0].Node.URL); url != "" {
				p.Image = &url
			}
		}
		products = append(products, p)
	}
	return products, nil
}

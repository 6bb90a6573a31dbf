package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/loamlabs/wheelhouse/internal/platform/config"
	"github.com/loamlabs/wheelhouse/pkg/sentinel"
)

// Source is the catalog port the audit pipeline consumes. Implementations
// must return the complete component catalog or an error, never a partial set.
type Source interface {
	FetchComponents(ctx context.Context) ([]Product, error)
}

// componentsQuery pulls every product tagged for the wheel builder together
// with entity- and variant-scope metafields in the custom namespace. Pages are
// cursor-chained; the API does not support out-of-order page retrieval.
const componentsQuery = `
query Components($pageSize: Int!, $cursor: String) {
  products(
    first: $pageSize
    after: $cursor
    query: "tag:'component:rim' OR tag:'component:hub' OR tag:'component:spoke' OR tag:'component:valvestem'"
  ) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        title
        status
        tags
        onlineStoreUrl
        vendor
        metafields(first: 20, namespace: "custom") {
          edges { node { key value } }
        }
        variants(first: 50) {
          edges {
            node {
              id
              title
              metafields(first: 10, namespace: "custom") {
                edges { node { key value } }
              }
            }
          }
        }
      }
    }
  }
}`

// ShopifySource fetches the component catalog from the Shopify Admin
// GraphQL API.
type ShopifySource struct {
	cfg    config.Shopify
	client *http.Client
	logger *slog.Logger
}

// NewShopifySource constructs a source for the configured store. The provided
// http.Client may be nil, in which case http.DefaultClient is used.
func NewShopifySource(cfg config.Shopify, client *http.Client, logger *slog.Logger) *ShopifySource {
	if client == nil {
		client = http.DefaultClient
	}
	return &ShopifySource{cfg: cfg, client: client, logger: logger}
}

type metafieldConnection struct {
	Edges []struct {
		Node struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		} `json:"node"`
	} `json:"edges"`
}

type productsResponse struct {
	Data struct {
		Products struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Edges []struct {
				Node struct {
					ID             string              `json:"id"`
					Title          string              `json:"title"`
					Status         string              `json:"status"`
					Tags           []string            `json:"tags"`
					OnlineStoreURL string              `json:"onlineStoreUrl"`
					Vendor         string              `json:"vendor"`
					Metafields     metafieldConnection `json:"metafields"`
					Variants       struct {
						Edges []struct {
							Node struct {
								ID         string              `json:"id"`
								Title      string              `json:"title"`
								Metafields metafieldConnection `json:"metafields"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"variants"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchComponents pages through the tag-filtered catalog, strictly in cursor
// order. Any page failure aborts the whole fetch: the audit must never run
// against an incomplete catalog.
func (s *ShopifySource) FetchComponents(ctx context.Context) ([]Product, error) {
	var (
		products []Product
		cursor   *string
		page     int
	)

	for {
		page++
		resp, err := s.fetchPage(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", sentinel.ErrSourceFetch, page, err)
		}

		for _, edge := range resp.Data.Products.Edges {
			node := edge.Node
			p := Product{
				ID:             node.ID,
				Title:          node.Title,
				Status:         Status(node.Status),
				Tags:           node.Tags,
				OnlineStoreURL: node.OnlineStoreURL,
				Vendor:         node.Vendor,
				Attributes:     flattenMetafields(node.Metafields),
			}
			for _, ve := range node.Variants.Edges {
				p.Variants = append(p.Variants, Variant{
					ID:         ve.Node.ID,
					Title:      ve.Node.Title,
					Attributes: flattenMetafields(ve.Node.Metafields),
				})
			}
			products = append(products, p)
		}

		info := resp.Data.Products.PageInfo
		if !info.HasNextPage {
			break
		}
		next := info.EndCursor
		cursor = &next
	}

	s.logger.DebugContext(ctx, "catalog fetched",
		"products", len(products),
		"pages", page,
	)
	return products, nil
}

func (s *ShopifySource) fetchPage(ctx context.Context, cursor *string) (*productsResponse, error) {
	payload, err := json.Marshal(map[string]any{
		"query": componentsQuery,
		"variables": map[string]any{
			"pageSize": s.cfg.PageSize,
			"cursor":   cursor,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.AdminURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", s.cfg.AdminToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("admin API returned %d: %s", resp.StatusCode, body)
	}

	var decoded productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", decoded.Errors[0].Message)
	}
	return &decoded, nil
}

func flattenMetafields(conn metafieldConnection) []Attribute {
	if len(conn.Edges) == 0 {
		return nil
	}
	attrs := make([]Attribute, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		attrs = append(attrs, Attribute{Key: e.Node.Key, Value: e.Node.Value})
	}
	return attrs
}

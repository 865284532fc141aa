// Command shelf-mcp exposes a running shelf API as MCP tools over stdio.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// product mirrors one record of GET /products.
type product struct {
	ProductID       string `json:"product_id"`
	Title           string `json:"title"`
	Price           string `json:"price"`
	SalePrice       string `json:"sale_price"`
	DiscountMessage string `json:"discount_message"`
	ImageURL        string `json:"image_url"`
}

// productsResponse mirrors the GET /products response.
type productsResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Data       []product `json:"data"`
	ScrapedAt  string    `json:"scraped_at"`
	TotalCount int       `json:"total_count"`
	URL        string    `json:"url"`
}

// scrapeResponse mirrors the POST /scrape response.
type scrapeResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	Suggestion string `json:"suggestion"`
}

func main() {
	apiURL := strings.TrimRight(os.Getenv("SHELF_API_URL"), "/")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:5001"
	}

	s := server.NewMCPServer(
		"shelf",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	scrapeTool := mcp.NewTool("scrape_products",
		mcp.WithDescription("Render an e-commerce category page in a headless browser and extract its products (title, price, sale price, discount, image). Slow: expect 10-60 seconds."),
		mcp.WithString("url",
			mcp.Description("Category page URL. Defaults to the server's configured listing."),
		),
	)
	s.AddTool(scrapeTool, handleScrapeProducts(apiURL))

	listTool := mcp.NewTool("list_products",
		mcp.WithDescription("Return the products from the most recent successful scrape without scraping again."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of products to return (default: all)"),
		),
	)
	s.AddTool(listTool, handleListProducts(apiURL))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiDo sends a request to the shelf API and returns the status and body.
func apiDo(ctx context.Context, client *http.Client, method, url string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func handleScrapeProducts(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		payload := map[string]string{}
		if u := request.GetString("url", ""); u != "" {
			payload["url"] = u
		}

		_, body, err := apiDo(ctx, client, http.MethodPost, apiURL+"/scrape", payload)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var sr scrapeResponse
		if err := json.Unmarshal(body, &sr); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !sr.Success {
			msg := sr.Message
			if sr.Error != "" {
				msg += ": " + sr.Error
			}
			if sr.Suggestion != "" {
				msg += "\n" + sr.Suggestion
			}
			return mcp.NewToolResultError(msg), nil
		}

		return listProducts(ctx, client, apiURL, 0)
	}
}

func handleListProducts(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 0)
		return listProducts(ctx, client, apiURL, limit)
	}
}

func listProducts(ctx context.Context, client *http.Client, apiURL string, limit int) (*mcp.CallToolResult, error) {
	_, body, err := apiDo(ctx, client, http.MethodGet, apiURL+"/products", nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var pr productsResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
	}
	if !pr.Success {
		return mcp.NewToolResultError(pr.Message), nil
	}

	return mcp.NewToolResultText(formatProducts(pr, limit)), nil
}

// formatProducts renders products as a compact markdown table.
func formatProducts(pr productsResponse, limit int) string {
	items := pr.Data
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d products from %s (scraped %s)\n\n", pr.TotalCount, pr.URL, pr.ScrapedAt)
	sb.WriteString("| # | Title | Sale price | Price | Discount |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, p := range items {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			p.ProductID, cell(p.Title), cell(p.SalePrice), cell(p.Price), cell(p.DiscountMessage))
	}
	if len(items) < len(pr.Data) {
		fmt.Fprintf(&sb, "\n%d more not shown.\n", len(pr.Data)-len(items))
	}
	return sb.String()
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/shelf/models"
	"github.com/use-agent/shelf/store"
)

// ScrapedContent returns a handler for GET /scraped-content: the page-level
// fields of the last stored scrape, without products.
func ScrapedContent(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, se := loadLatest(c.Request.Context(), st)
		if se != nil {
			c.JSON(mapErrorToStatus(se), models.ContentResponse{
				Success:     false,
				Message:     se.Message,
				ErrorDetail: se.ToDetail(),
			})
			return
		}

		c.JSON(http.StatusOK, models.ContentResponse{
			Success: true,
			Data: &models.PageContent{
				Head:               res.Head,
				Header:             res.Header,
				URL:                res.URL,
				Status:             res.Status,
				ScrapedAt:          res.ScrapedAt,
				TotalProductsFound: res.TotalProductsFound,
			},
		})
	}
}

// Products returns a handler for GET /products: the records of the last
// stored scrape.
func Products(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, se := loadLatest(c.Request.Context(), st)
		if se != nil {
			if se.Code == models.ErrCodeNotFound {
				se.Message = "No scraped data available. Run the scraper first."
			}
			c.JSON(mapErrorToStatus(se), models.ProductsResponse{
				Success:     false,
				Message:     se.Message,
				Data:        []models.ProductRecord{},
				ErrorDetail: se.ToDetail(),
			})
			return
		}

		if len(res.Products) == 0 {
			c.JSON(http.StatusNotFound, models.ProductsResponse{
				Success: false,
				Message: "No products found in scraped data. Run the scraper again.",
				Data:    []models.ProductRecord{},
				ErrorDetail: &models.ErrorDetail{
					Code:    models.ErrCodeNotFound,
					Message: "stored result has no products",
				},
			})
			return
		}

		c.JSON(http.StatusOK, models.ProductsResponse{
			Success:    true,
			Data:       res.Products,
			Source:     "scraped",
			ScrapedAt:  res.ScrapedAt,
			TotalCount: len(res.Products),
			URL:        res.URL,
		})
	}
}

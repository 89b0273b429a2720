package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alpercimsit/emlak-website/internal/middleware"
	"github.com/alpercimsit/emlak-website/internal/model"
	"github.com/alpercimsit/emlak-website/internal/service"
)

// ListingHandler serves the listing endpoints.
type ListingHandler struct {
	Listings *service.ListingService
}

// RegisterRoutes registers the listing routes. Mutations require an admin credential.
func (h *ListingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/listings", h.GetListings)
	rg.GET("/listings/:id", h.GetListingByID)

	admin := rg.Group("", middleware.RequireAdmin())
	admin.POST("/listings", h.CreateListing)
	admin.DELETE("/listings/:id", h.DeleteListing)
}

// GET /api/listings?minPrice=...&maxPrice=...&emlakTipi=...&il=...&ilce=...&sort=...
func (h *ListingHandler) GetListings(c *gin.Context) {
	q := service.ListingQuery{
		EmlakTipi:     c.Query("emlakTipi"),
		Il:            c.Query("il"),
		Ilce:          c.Query("ilce"),
		Sort:          service.ParseSortOrder(c.Query("sort")),
		IncludeHidden: middleware.IsAdmin(c),
	}
	if v := c.Query("minPrice"); v != "" {
		if min, err := strconv.ParseFloat(v, 64); err == nil {
			q.MinPrice = &min
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if max, err := strconv.ParseFloat(v, 64); err == nil {
			q.MaxPrice = &max
		}
	}

	c.JSON(http.StatusOK, h.Listings.List(q))
}

// GET /api/listings/:id
func (h *ListingHandler) GetListingByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	listing, err := h.Listings.Get(id, middleware.IsAdmin(c))
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listing)
}

// POST /api/listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req model.Listing
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	c.JSON(http.StatusOK, h.Listings.Create(req))
}

// DELETE /api/listings/:id
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Listings.Delete(id); err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return 0, false
	}
	return id, true
}

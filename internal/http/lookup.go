package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stockroom/internal/catalog"
	"stockroom/internal/vendor"
)

// LookupController serves live product lookups against the vendor API.
type LookupController struct {
	service *catalog.Service
}

func NewLookupController(service *catalog.Service) *LookupController {
	return &LookupController{service: service}
}

type lookupRequest struct {
	SKUs     []string `json:"skus"`
	SKUInput string   `json:"skuInput"`
	Token    string   `json:"token"`
}

// Lookup handles POST /api/products/lookup. Accepts either an explicit
// SKU array or a free-text input to parse. The vendor token is a
// per-request passthrough credential, taken from the Authorization header
// or the request body.
func (lc *LookupController) Lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	token := bearerToken(c)
	if token == "" {
		token = req.Token
	}

	result, err := lc.service.Lookup(c.Request.Context(), catalog.LookupInput{
		SKUs:     req.SKUs,
		RawInput: req.SKUInput,
		Token:    token,
	})
	if err != nil {
		lc.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"products":       result.Products,
		"requestedCount": result.RequestedCount,
		"foundCount":     result.FoundCount,
		"notFound":       result.NotFound,
	})
}

func (lc *LookupController) writeError(c *gin.Context, err error) {
	var upstream *vendor.UpstreamError

	switch {
	case errors.Is(err, vendor.ErrNoSKUs):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Please provide at least one SKU",
			"message": "SKUs can be comma-separated, space-separated, or on separate lines",
		})
	case errors.Is(err, catalog.ErrTooManySKUs):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Too many SKUs",
			"message": err.Error(),
		})
	case errors.Is(err, vendor.ErrMissingCredential):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Vendor API token not configured",
		})
	case errors.As(err, &upstream):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Error communicating with product database",
			"details": err.Error(),
		})
	case errors.Is(err, vendor.ErrUnreachable):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": "Product database is unreachable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to lookup products",
			"message": err.Error(),
		})
	}
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

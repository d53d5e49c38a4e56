package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"book-scanner/backend/internal/apierr"
	"book-scanner/backend/internal/extract"
	"book-scanner/backend/internal/model"
)

type scanJSONRequest struct {
	Image string `json:"image"`
}

// HandleScanBooks extracts full book records from a bookshelf photo.
func (h *Handler) HandleScanBooks(c *gin.Context) {
	image, err := imageFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	raw, err := h.gateway.ScanBookshelf(c.Request.Context(), image)
	if err != nil {
		log.Printf("[ERROR] Bookshelf scan failed: %v", err)
		respondError(c, err)
		return
	}

	books, err := extract.Books(raw)
	if err != nil {
		log.Printf("[WARN] Bookshelf scan extraction failed: %v", err)
		respondError(c, err)
		return
	}
	if books == nil {
		books = []model.ExtractedBook{}
	}

	log.Printf("[INFO] Bookshelf scan found %d books", len(books))
	respond(c, http.StatusOK, gin.H{"books": books})
}

// HandleExtractTitles extracts title strings from a bookshelf photo and
// enriches each one against the books API. Order is preserved end to end.
func (h *Handler) HandleExtractTitles(c *gin.Context) {
	image, err := imageFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	raw, err := h.gateway.ExtractTitles(c.Request.Context(), image)
	if err != nil {
		log.Printf("[ERROR] Title extraction failed: %v", err)
		respondError(c, err)
		return
	}

	titles, err := extract.Titles(raw)
	if err != nil {
		log.Printf("[WARN] Title extraction parse failed: %v", err)
		respondError(c, err)
		return
	}

	log.Printf("[INFO] Extracted %d titles, enriching", len(titles))
	enriched := h.enricher.EnrichAll(c.Request.Context(), titles)
	if enriched == nil {
		enriched = []model.EnrichedBook{}
	}

	respond(c, http.StatusOK, gin.H{"books": enriched})
}

// imageFromRequest accepts either a multipart imageFile upload or a JSON
// body with a base64 image field.
func imageFromRequest(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile(ImageFileField); err == nil {
		return readMultipartFile(file)
	}

	var req scanJSONRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Image != "" {
		return decodeBase64Image(req.Image)
	}

	return nil, apierr.Invalid("image data is required: upload an %q file or send a base64 image field", ImageFileField)
}

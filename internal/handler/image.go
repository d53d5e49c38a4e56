package handler

import (
	"encoding/base64"
	"io"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"book-scanner/backend/internal/apierr"
	"book-scanner/backend/internal/imaging"
)

// ImageFileField is the multipart form field carrying an uploaded image.
const ImageFileField = "imageFile"

type AnalyzeImageRequest struct {
	Image  string `json:"image" binding:"required"`
	Prompt string `json:"prompt" binding:"required"`
}

// HandleAnalyzeImage relays an image plus a free-form prompt to the model
// and returns its answer verbatim.
func (h *Handler) HandleAnalyzeImage(c *gin.Context) {
	var req AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierr.Invalid("image and prompt are required"))
		return
	}

	data, err := decodeBase64Image(req.Image)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.gateway.AnalyzeImage(c.Request.Context(), imaging.Normalize(data), req.Prompt)
	if err != nil {
		log.Printf("[ERROR] Image analysis failed: %v", err)
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"analysis": out})
}

// HandleConvertImage re-encodes an uploaded file and returns it as base64.
func (h *Handler) HandleConvertImage(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	converted := imaging.Normalize(data)
	respond(c, http.StatusOK, gin.H{
		"image": base64.StdEncoding.EncodeToString(converted),
	})
}

// HandleCompressImage runs an uploaded file through the normalizer and
// reports the size difference. Sizes are measured in base64-encoded bytes,
// matching what clients actually transmit.
func (h *Handler) HandleCompressImage(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	compressed := imaging.Normalize(data)

	originalSize := base64.StdEncoding.EncodedLen(len(data))
	compressedSize := base64.StdEncoding.EncodedLen(len(compressed))

	savings := 0.0
	if originalSize > 0 {
		savings = float64(originalSize-compressedSize) / float64(originalSize) * 100
		savings = math.Round(savings*100) / 100
	}

	message := "Image compressed successfully"
	if compressedSize >= originalSize {
		message = "Image was already optimized; original kept"
	}

	respond(c, http.StatusOK, gin.H{
		"originalSize":   originalSize,
		"compressedSize": compressedSize,
		"savingsPercent": savings,
		"message":        message,
	})
}

// readUpload reads the multipart image file from the request.
func readUpload(c *gin.Context) ([]byte, error) {
	file, err := c.FormFile(ImageFileField)
	if err != nil {
		return nil, apierr.Invalid("image file is required (multipart field %q)", ImageFileField)
	}
	return readMultipartFile(file)
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, apierr.Invalid("failed to open uploaded file: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apierr.Invalid("failed to read uploaded file: %v", err)
	}
	return data, nil
}

// decodeBase64Image decodes a base64 image payload, tolerating a data-URL
// prefix.
func decodeBase64Image(s string) ([]byte, error) {
	if idx := strings.Index(s, ";base64,"); idx != -1 && strings.HasPrefix(s, "data:") {
		s = s[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, apierr.Invalid("image is not valid base64: %v", err)
	}
	return data, nil
}

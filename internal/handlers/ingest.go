package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleetcart/catalog-service/internal/ingestion"
	"github.com/fleetcart/catalog-service/internal/storage"
	"github.com/fleetcart/catalog-service/internal/types"
)

var (
	ingestor   *ingestion.Ingestor
	sheetStore *storage.LocalStorage
)

// InitIngestion wires the ingestion service and sheet storage used by
// the upload handler.
func InitIngestion(ing *ingestion.Ingestor, store *storage.LocalStorage) {
	ingestor = ing
	sheetStore = store
}

// UploadSheets ingests pricing sheets posted as multipart form files.
// Sheets are archived to storage first, then ingested from there, so a
// failed run can be replayed from the stored copy.
// @Summary Upload and ingest pricing sheets
// @Description Accepts one or more CSV/XLSX dealer pricing sheets under the multipart field "sheets", archives them, and runs ingestion
// @Tags ingestion
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} ingestion.RunResult
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/ingestion/sheets [post]
func UploadSheets(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected multipart form upload"})
		return
	}

	files := form.File["sheets"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files in 'sheets' field"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now()

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		if ingestion.FileTypeOf(fh.Filename) == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Unsupported file type: %s", fh.Filename),
			})
			return
		}

		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
			return
		}

		key := storage.BuildSheetKey(string(types.SourceAPI), now, fh.Filename)
		err = sheetStore.Put(ctx, key, content, &storage.Metadata{
			OriginalName: fh.Filename,
			Source:       string(types.SourceAPI),
			UploadedAt:   now,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store sheet"})
			return
		}
		paths = append(paths, sheetStore.KeyPath(key))
	}

	result, err := ingestor.Run(ctx, types.SourceAPI, paths)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingestion failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

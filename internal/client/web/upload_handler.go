package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknest/booknest/internal/client/imagehost"
)

const maxUploadBytes = 8 << 20

// UploadHandler forwards cover images to the image host and returns the
// public URL for the book form.
type UploadHandler struct {
	images *imagehost.Client
}

func NewUploadHandler(images *imagehost.Client) *UploadHandler {
	return &UploadHandler{images: images}
}

type uploadView struct {
	URL string `json:"url"`
}

// Upload handles POST /dashboard/uploads, multipart field "image".
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing image file")
	}
	if fh.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image exceeds 8MB")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable image file")
	}
	defer src.Close()

	url, err := h.images.Upload(c.Request().Context(), fh.Filename, src)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Envelope{State: StateReady, Data: uploadView{URL: url}})
}

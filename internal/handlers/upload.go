package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxImageSize = 5 * 1024 * 1024

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// saveImage stores the multipart "image" field under the uploads directory
// and returns its public URL.
func (h *Handler) saveImage(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "No image file provided")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return "", fiber.NewError(fiber.StatusBadRequest, "Only jpg, png, and webp images are allowed")
	}
	if file.Size > maxImageSize {
		return "", fiber.NewError(fiber.StatusBadRequest, "Image must be under 5MB")
	}

	if err := os.MkdirAll(h.cfg.UploadsDir, 0755); err != nil {
		h.logger.Error("Failed to create uploads directory", zap.String("dir", h.cfg.UploadsDir), zap.Error(err))
		return "", fiber.NewError(fiber.StatusInternalServerError, "Failed to create uploads directory")
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if err := c.SaveFile(file, filepath.Join(h.cfg.UploadsDir, filename)); err != nil {
		h.logger.Error("Failed to save image", zap.String("file", filename), zap.Error(err))
		return "", fiber.NewError(fiber.StatusInternalServerError, "Failed to save image")
	}
	return fmt.Sprintf("%s/uploads/%s", h.cfg.PublicBaseURL, filename), nil
}

// UploadImage stores an image before the sim it belongs to exists, as the
// sim wizard does. The returned URL goes into the sim's avatarUrl.
func (h *Handler) UploadImage(c *fiber.Ctx) error {
	url, err := h.saveImage(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"url": url})
}

package server

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"petchef/internal/middleware"
	"petchef/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // registers the WebP decoder with image.DecodeConfig
)

// imageField is the multipart field carrying an uploaded picture.
const imageField = "image"

// uploadURLPrefix is where app.Static serves the upload directory.
const uploadURLPrefix = "/uploads/"

// allowedImageTypes maps sniffed content types to the stored file extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// maxImageDimension bounds the width and height of an accepted image.
const maxImageDimension = 8192

// uploadStore saves user images to a local directory under random names.
type uploadStore struct {
	dir      string
	maxBytes int64
}

func newUploadStore(dir string, maxBytes int64) *uploadStore {
	if dir == "" {
		dir = "uploads"
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &uploadStore{dir: dir, maxBytes: maxBytes}
}

// isMultipart reports whether the request body is a multipart form.
func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// Save stores the request's image file and returns its public URL.
// It returns "" with no error when the request carries no image.
func (u *uploadStore) Save(c *fiber.Ctx) (string, error) {
	if !isMultipart(c) {
		return "", nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return "", models.NewValidationError("Invalid multipart form")
	}
	files := form.File[imageField]
	if len(files) == 0 {
		return "", nil
	}
	fh := files[0]

	if fh.Size > u.maxBytes {
		return "", models.NewFieldValidationError(imageField,
			fmt.Sprintf("Image must be at most %d MB", u.maxBytes>>20))
	}

	ext, err := sniffImage(fh)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}
	name := uuid.NewString() + ext
	if err := c.SaveFile(fh, filepath.Join(u.dir, name)); err != nil {
		return "", models.NewInternalError(err)
	}
	return uploadURLPrefix + name, nil
}

// Discard removes a file stored by Save. Handlers call it when the write
// the image was meant for fails, so rejected requests leave nothing behind.
func (u *uploadStore) Discard(ctx context.Context, url string) {
	if !strings.HasPrefix(url, uploadURLPrefix) {
		return
	}
	path := filepath.Join(u.dir, filepath.Base(strings.TrimPrefix(url, uploadURLPrefix)))
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		middleware.Logger.WarnContext(ctx, "failed to discard upload", "path", path, "error", err)
	}
}

func sniffImage(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", models.NewInternalError(err)
	}

	ext, ok := allowedImageTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", models.NewFieldValidationError(imageField, "Image must be a JPEG, PNG, GIF or WebP file")
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", models.NewInternalError(err)
	}
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return "", models.NewFieldValidationError(imageField, "Image could not be decoded")
	}
	if cfg.Width > maxImageDimension || cfg.Height > maxImageDimension {
		return "", models.NewFieldValidationError(imageField,
			fmt.Sprintf("Image must be at most %dx%d pixels", maxImageDimension, maxImageDimension))
	}
	return ext, nil
}

package media

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "wacrm/internal/errors"
	"wacrm/internal/models"
	"wacrm/internal/security"

	"github.com/google/uuid"
)

// Upload is the result of storing an uploaded file. In hosted mode MediaURL
// carries a public URL; in inline mode Base64 and MimeType carry the file
// content itself.
type Upload struct {
	FileName string `json:"fileName"`
	MediaURL string `json:"mediaUrl,omitempty"`
	Base64   string `json:"base64,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Storage republishes uploaded media so it can be referenced by a
// subsequent outbound send.
type Storage struct {
	dir           string
	publicBaseURL string
	inline        bool
	maxBytes      int64
}

func NewStorage(cfg models.MediaConfig) (*Storage, error) {
	s := &Storage{
		dir:           cfg.UploadDir,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		inline:        cfg.InlineBase64,
		maxBytes:      int64(cfg.MaxUploadSizeMB) * 1024 * 1024,
	}

	if !s.inline {
		if s.dir == "" {
			return nil, fmt.Errorf("upload directory is required")
		}
		if err := os.MkdirAll(s.dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}

	return s, nil
}

// MaxBytes returns the upload size limit in bytes.
func (s *Storage) MaxBytes() int64 {
	return s.maxBytes
}

// Store persists an uploaded file under a collision-free name and returns
// either its public URL or its inline representation.
func (s *Storage) Store(originalName string, r io.Reader) (*Upload, error) {
	name, err := security.SanitizeFilename(originalName)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMediaUpload, "failed to read upload").
			WithUserMessage("Media upload failed")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, apperrors.New(apperrors.ErrCodeMediaUpload,
			fmt.Sprintf("upload exceeds maximum size of %d bytes", s.maxBytes)).
			WithUserMessage(fmt.Sprintf("Upload exceeds maximum size of %d bytes", s.maxBytes))
	}

	if s.inline {
		return &Upload{
			FileName: name,
			Base64:   base64.StdEncoding.EncodeToString(data),
			MimeType: detectMimeType(data, name),
		}, nil
	}

	storedName := fmt.Sprintf("%s_%s", uuid.NewString(), name)
	path := filepath.Join(s.dir, storedName)
	if err := os.WriteFile(path, data, 0640); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &Upload{
		FileName: name,
		MediaURL: fmt.Sprintf("%s/%s", s.publicBaseURL, storedName),
	}, nil
}

// FilenameFromURL derives a media filename from the last path segment of a
// URL. Returns nil when the URL is empty, unparsable, or has no usable
// segment.
func FilenameFromURL(mediaURL *string) *string {
	if mediaURL == nil || *mediaURL == "" {
		return nil
	}

	u, err := url.Parse(*mediaURL)
	if err != nil || u.Path == "" {
		return nil
	}

	segment := path.Base(u.Path)
	if segment == "." || segment == "/" || segment == "" {
		return nil
	}
	return &segment
}

func detectMimeType(data []byte, name string) string {
	mimeType := http.DetectContentType(data)
	if mimeType != "application/octet-stream" {
		return mimeType
	}

	// Fall back on the extension for types sniffing cannot see
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".mp4":
		return "video/mp4"
	default:
		return mimeType
	}
}

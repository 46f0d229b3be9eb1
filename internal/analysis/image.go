package analysis

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeWEBP = "image/webp"

	mimeOctetStream = "application/octet-stream"

	// formOverhead is the slack allowed on top of the file cap for boundaries,
	// part headers and small fields.
	formOverhead = 2 << 20
)

var allowedMIMETypes = []string{mimeJPEG, mimePNG, mimeWEBP}

func isAllowedMIME(m string) bool {
	for _, a := range allowedMIMETypes {
		if m == a {
			return true
		}
	}
	return false
}

// Limits bounds a single upload.
type Limits struct {
	MaxFileBytes  int64
	MaxFiles      int
	MaxFields     int
	MaxParts      int
	MaxFieldBytes int64
}

// DefaultLimits returns the upload limits for a given file cap.
func DefaultLimits(maxFileBytes int64) Limits {
	return Limits{
		MaxFileBytes:  maxFileBytes,
		MaxFiles:      1,
		MaxFields:     20,
		MaxParts:      25,
		MaxFieldBytes: 1 << 20,
	}
}

// Image is one uploaded photo and the MIME type forwarded upstream.
type Image struct {
	MIMEType string
	Data     []byte
}

type imageRequest struct {
	Image string `json:"image" binding:"required"`
}

// readImage extracts exactly one image from the request body. Client-input
// failures are returned as *HTTPError.
func readImage(c *gin.Context, limits Limits) (Image, error) {
	ct := strings.ToLower(c.GetHeader("Content-Type"))
	switch {
	case strings.Contains(ct, "application/json"):
		return readJSONImage(c, limits)
	case strings.Contains(ct, "multipart/form-data"):
		return readMultipartImage(c, limits)
	default:
		return Image{}, errBadContentType
	}
}

func readJSONImage(c *gin.Context, limits Limits) (Image, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limits.MaxFileBytes)

	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verr validator.ValidationErrors
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &verr):
			return Image{}, errNoImage
		case errors.As(err, &mbe):
			return Image{}, errBodyTooLarge
		default:
			return Image{}, errInvalidJSON
		}
	}

	declared, payload := splitDataURI(req.Image)
	if declared != "" && !isAllowedMIME(declared) {
		return Image{}, errUnsupportedType
	}
	data, err := decodeBase64(payload)
	if err != nil {
		return Image{}, errInvalidBase64
	}
	if len(data) == 0 {
		return Image{}, errNoImage
	}

	mime := declared
	if mime == "" {
		mime = mimeJPEG
		if sniffed, ok := sniffImage(data); ok {
			mime = sniffed
		}
	}
	return Image{MIMEType: mime, Data: data}, nil
}

// splitDataURI separates "data:<mime>;base64,<payload>". Input without the
// data: prefix is returned as the payload unchanged.
func splitDataURI(s string) (string, string) {
	s = strings.TrimSpace(s)
	if len(s) < 5 || !strings.EqualFold(s[:5], "data:") {
		return "", s
	}
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return "", s
	}
	meta := s[5:comma]
	mime, _, _ := strings.Cut(meta, ";")
	return strings.ToLower(strings.TrimSpace(mime)), s[comma+1:]
}

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, enc := range base64Encodings {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func sniffImage(data []byte) (string, bool) {
	m := mimetype.Detect(data)
	for _, a := range allowedMIMETypes {
		if m.Is(a) {
			return a, true
		}
	}
	return "", false
}

func readMultipartImage(c *gin.Context, limits Limits) (Image, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limits.MaxFileBytes+formOverhead)

	mr, err := c.Request.MultipartReader()
	if err != nil {
		return Image{}, errMalformed
	}

	var (
		img    Image
		parts  int
		files  int
		fields int
	)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Image{}, classifyUploadError(err)
		}
		parts++
		if parts > limits.MaxParts {
			part.Close()
			return Image{}, errTooManyParts
		}

		if part.FileName() == "" {
			fields++
			if fields > limits.MaxFields {
				part.Close()
				return Image{}, errTooManyFields
			}
			n, err := io.Copy(io.Discard, io.LimitReader(part, limits.MaxFieldBytes+1))
			part.Close()
			if err != nil {
				return Image{}, classifyUploadError(err)
			}
			if n > limits.MaxFieldBytes {
				return Image{}, errFieldTooLarge
			}
			continue
		}

		files++
		if files > limits.MaxFiles {
			part.Close()
			return Image{}, errTooManyFiles
		}
		declared := partMIME(part.Header.Get("Content-Type"))
		if declared != "" && declared != mimeOctetStream && !isAllowedMIME(declared) {
			part.Close()
			return Image{}, errUnsupportedType
		}
		data, err := io.ReadAll(io.LimitReader(part, limits.MaxFileBytes+1))
		part.Close()
		if err != nil {
			return Image{}, classifyUploadError(err)
		}
		if int64(len(data)) > limits.MaxFileBytes {
			return Image{}, fileTooLarge(limits.MaxFileBytes)
		}
		if len(data) == 0 {
			continue
		}

		mime := declared
		if mime == "" || mime == mimeOctetStream {
			sniffed, ok := sniffImage(data)
			if !ok {
				return Image{}, errUnsupportedType
			}
			mime = sniffed
		}
		img = Image{MIMEType: mime, Data: data}
	}

	if len(img.Data) == 0 {
		return Image{}, errNoImage
	}
	return img, nil
}

func partMIME(header string) string {
	mime, _, _ := strings.Cut(header, ";")
	return strings.ToLower(strings.TrimSpace(mime))
}

func classifyUploadError(err error) error {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return errBodyTooLarge
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return errInterrupted
	default:
		return errMalformed
	}
}

func fileTooLarge(limit int64) *HTTPError {
	size := fmt.Sprintf("%d bytes", limit)
	if limit%(1<<20) == 0 {
		size = fmt.Sprintf("%dMB", limit>>20)
	}
	return newHTTPError(http.StatusRequestEntityTooLarge, "File too large. Maximum allowed size is "+size+".")
}

package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/google/uuid"
	"github.com/pbaille/wastesort/internal/upload"
)

// multipartOverhead leaves room for form boundaries and small fields
const multipartOverhead = 1 << 20

// readImage extracts the image from a multipart form (field "image") or from
// a raw request body. The optional "ref" form or query value names the image;
// otherwise a fresh upload:// reference is generated.
func (s *Server) readImage(w http.ResponseWriter, r *http.Request) (upload.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+multipartOverhead)

	ref := r.URL.Query().Get("ref")

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var data []byte

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(s.maxBytes); err != nil {
			return upload.Image{}, fmt.Errorf("parse form: %w", err)
		}

		f, _, err := r.FormFile("image")
		if err != nil {
			return upload.Image{}, upload.ErrEmpty
		}
		defer f.Close()

		if data, err = io.ReadAll(f); err != nil {
			return upload.Image{}, fmt.Errorf("read image: %w", err)
		}
		if v := r.FormValue("ref"); v != "" {
			ref = v
		}
	} else {
		var err error
		if data, err = io.ReadAll(r.Body); err != nil {
			return upload.Image{}, fmt.Errorf("read body: %w", err)
		}
	}

	if ref == "" {
		ref = "upload://" + uuid.New().String()
	}

	return upload.FromBytes(data, ref), nil
}

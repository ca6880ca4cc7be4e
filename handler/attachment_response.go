package handler

import (
	"mime"
	"net/http"
	"strconv"
)

type attachmentResponse struct {
	filename    string
	contentType string
	body        []byte
}

func (a attachmentResponse) Render(w http.ResponseWriter, r *http.Request) error {
	h := w.Header()
	h.Set("Content-Type", a.contentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.filename}))
	h.Set("Content-Length", strconv.Itoa(len(a.body)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(a.body)
	return err
}

// Attachment sends body as a file download.
func Attachment(filename, contentType string, body []byte) Response {
	return attachmentResponse{filename: filename, contentType: contentType, body: body}
}

// CSV sends body as a text/csv download.
func CSV(filename string, body []byte) Response {
	return Attachment(filename, "text/csv", body)
}

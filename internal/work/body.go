package work

import (
	"fmt"
	"io"
	"strings"
)

// Body is the content payload of a work: either text or an image. Every
// consumer switches exhaustively on the concrete type, so a work can never
// carry both kinds at once.
type Body interface {
	contentType() ContentType
}

type TextBody struct {
	Content string
}

func (TextBody) contentType() ContentType { return ContentTypeText }

// FileUpload is a new image file supplied with a create or update.
type FileUpload struct {
	Name   string
	Reader io.Reader
}

// ImageBody carries either a fresh upload or, on update, a reference to the
// image already stored by the content API (keep-existing semantics).
type ImageBody struct {
	File         *FileUpload
	ExistingPath string
	ExistingName string
}

func (ImageBody) contentType() ContentType { return ContentTypeImage }

// Input is the caller-supplied portion of a work for create and update.
type Input struct {
	Title    string
	Author   string
	Category Category
	Body     Body
}

// ValidationError reports a local precondition failure. Inputs failing
// validation never reach the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the field constraints shared by create and update. On
// update an image work may omit the file if it still references a stored
// image.
func (in Input) Validate(forUpdate bool) error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Author) == "" {
		return &ValidationError{Field: "author", Reason: "must not be empty"}
	}
	if !in.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category"}
	}
	if in.Body == nil {
		return &ValidationError{Field: "content", Reason: "content is required"}
	}
	if in.Body.contentType() != in.Category.ContentType() {
		return &ValidationError{Field: "category", Reason: "category does not match content type"}
	}

	switch b := in.Body.(type) {
	case TextBody:
		if strings.TrimSpace(b.Content) == "" {
			return &ValidationError{Field: "content", Reason: "must not be empty"}
		}
	case ImageBody:
		if b.File == nil {
			if !forUpdate || b.ExistingPath == "" {
				return &ValidationError{Field: "file", Reason: "an image file is required"}
			}
		} else if b.File.Name == "" || b.File.Reader == nil {
			return &ValidationError{Field: "file", Reason: "uploaded file is unreadable"}
		}
	}

	return nil
}

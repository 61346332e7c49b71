package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"atelier/web/internal/work"
)

func (c *Client) ListWorks(ctx context.Context) ([]work.Work, error) {
	var works []work.Work
	if err := c.do(ctx, http.MethodGet, "/works", "", nil, "", &works); err != nil {
		return nil, err
	}
	return works, nil
}

func (c *Client) ListCategory(ctx context.Context, category work.Category) ([]work.Work, error) {
	var works []work.Work
	if err := c.do(ctx, http.MethodGet, "/works/"+string(category), "", nil, "", &works); err != nil {
		return nil, err
	}
	return works, nil
}

func (c *Client) GetWork(ctx context.Context, id int) (work.Work, error) {
	var w work.Work
	if err := c.do(ctx, http.MethodGet, "/work/"+strconv.Itoa(id), "", nil, "", &w); err != nil {
		return work.Work{}, err
	}
	return w, nil
}

// CreateWork submits a new work as a multipart form. Invalid input fails
// locally before any request is made. The API assigns the ID and starts the
// work unpublished.
func (c *Client) CreateWork(ctx context.Context, token string, in work.Input) (work.Work, error) {
	if err := in.Validate(false); err != nil {
		return work.Work{}, err
	}

	body, contentType, err := encodeWorkForm(in, nil)
	if err != nil {
		return work.Work{}, err
	}

	var created work.Work
	if err := c.do(ctx, http.MethodPost, "/works", token, body, contentType, &created); err != nil {
		return work.Work{}, err
	}
	return created, nil
}

type updateWorkRequest struct {
	Title       string           `json:"title"`
	Author      string           `json:"author"`
	ContentType work.ContentType `json:"content_type"`
	Category    work.Category    `json:"category"`
	IsPublished bool             `json:"is_published"`
	Content     *string          `json:"content,omitempty"`
	ImagePath   *string          `json:"image_path,omitempty"`
	ImageName   *string          `json:"image_name,omitempty"`
}

// UpdateWork edits an existing work. A new image file goes up as multipart;
// otherwise the update is JSON, re-sending the stored image reference for
// image works. published is passed through unchanged so an edit never flips
// visibility.
func (c *Client) UpdateWork(ctx context.Context, token string, id int, in work.Input, published bool) (work.Work, error) {
	if err := in.Validate(true); err != nil {
		return work.Work{}, err
	}

	path := "/works/" + strconv.Itoa(id)
	var updated work.Work

	if img, ok := in.Body.(work.ImageBody); ok && img.File != nil {
		body, contentType, err := encodeWorkForm(in, &published)
		if err != nil {
			return work.Work{}, err
		}
		if err := c.do(ctx, http.MethodPut, path, token, body, contentType, &updated); err != nil {
			return work.Work{}, err
		}
		return updated, nil
	}

	req := updateWorkRequest{
		Title:       in.Title,
		Author:      in.Author,
		ContentType: in.Category.ContentType(),
		Category:    in.Category,
		IsPublished: published,
	}
	switch b := in.Body.(type) {
	case work.TextBody:
		req.Content = &b.Content
	case work.ImageBody:
		req.ImagePath = &b.ExistingPath
		if b.ExistingName != "" {
			req.ImageName = &b.ExistingName
		}
	}

	if err := c.doJSON(ctx, http.MethodPut, path, token, req, &updated); err != nil {
		return work.Work{}, err
	}
	return updated, nil
}

// TogglePublish inverts the work's visibility on the server and returns the
// authoritative result. Callers must reconcile from the returned work, not
// assume the inverse of what they last displayed.
func (c *Client) TogglePublish(ctx context.Context, token string, id int) (work.Work, error) {
	var updated work.Work
	if err := c.do(ctx, http.MethodPut, "/work/"+strconv.Itoa(id), token, nil, "", &updated); err != nil {
		return work.Work{}, err
	}
	return updated, nil
}

func (c *Client) DeleteWork(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, "/works/"+strconv.Itoa(id), token, nil, "", nil)
}

// encodeWorkForm renders an input as the multipart form the API expects.
// published is only sent when the caller carries it through an update.
func encodeWorkForm(in work.Input, published *bool) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":        in.Title,
		"author":       in.Author,
		"category":     string(in.Category),
		"content_type": string(in.Category.ContentType()),
	}
	if published != nil {
		fields["is_published"] = strconv.FormatBool(*published)
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("encode field %s: %w", name, err)
		}
	}

	switch b := in.Body.(type) {
	case work.TextBody:
		if err := mw.WriteField("content", b.Content); err != nil {
			return nil, "", fmt.Errorf("encode content: %w", err)
		}
	case work.ImageBody:
		fw, err := mw.CreateFormFile("file", b.File.Name)
		if err != nil {
			return nil, "", fmt.Errorf("encode file part: %w", err)
		}
		if _, err := io.Copy(fw, b.File.Reader); err != nil {
			return nil, "", fmt.Errorf("copy upload: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("finish form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

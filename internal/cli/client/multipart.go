package client

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Multipart field names for attachments
const (
	FieldCV             = "cv_file"
	FieldProfilePicture = "profile_picture"
)

// Attachment is a file uploaded alongside form fields
type Attachment struct {
	Field    string
	FileName string
	Data     []byte
}

// CVFile reads a CV document from disk
func CVFile(path string) (Attachment, error) {
	return readAttachment(FieldCV, path)
}

// ProfilePictureFile reads a profile picture from disk
func ProfilePictureFile(path string) (Attachment, error) {
	return readAttachment(FieldProfilePicture, path)
}

func readAttachment(field, path string) (Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Attachment{
		Field:    field,
		FileName: filepath.Base(path),
		Data:     data,
	}, nil
}

type formField struct {
	name, value string
}

// buildMultipart encodes fields in order followed by the attachments
func buildMultipart(fields []formField, files []Attachment) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	for _, file := range files {
		part, err := w.CreateFormFile(file.Field, file.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to attach %s: %w", file.FileName, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("failed to attach %s: %w", file.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return body, w.FormDataContentType(), nil
}

func multipartRequest(method, path, token string, fields []formField, files []Attachment) (request, error) {
	body, contentType, err := buildMultipart(fields, files)
	if err != nil {
		return request{}, err
	}
	return request{
		method:      method,
		path:        path,
		token:       token,
		body:        body,
		contentType: contentType,
	}, nil
}

func optionalField(fields []formField, name string, value *string) []formField {
	if value != nil {
		fields = append(fields, formField{name, *value})
	}
	return fields
}

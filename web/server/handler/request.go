package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/nrednav/cuid2"
)

const utf8BOM = "\uFEFF"

// ReadString reads the whole request body as UTF-8 text. Invalid byte
// sequences are replaced with U+FFFD, and a leading byte order mark is removed.
//
// The request body can only be read once. Calling ReadString, or any other
// function that consumes the body, a second time returns an empty result.
func ReadString(c *Context) (string, error) {
	if c.Request.Body == nil {
		return "", nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", fmt.Errorf("failed reading request body: %w", err)
	}

	s := strings.TrimPrefix(string(data), utf8BOM)

	return strings.ToValidUTF8(s, "\uFFFD"), nil
}

// ReadForm parses the request body as a URL-encoded or multipart form, and
// returns its fields and files. Multipart forms are buffered in memory up to
// the configured maximum, and in temporary files beyond that.
//
// ReadForm consumes the request body, but it can be called multiple times.
// If parsing fails, later calls return the same error.
func ReadForm(c *Context) (FormReader, error) {
	if c.formErr != nil {
		return FormReader{}, c.formErr
	}

	r := c.Request
	if isMultipart(r) {
		alreadyParsed := r.MultipartForm != nil
		if err := r.ParseMultipartForm(c.maxMemory); err != nil {
			c.formErr = NewErrorWithCause(http.StatusBadRequest, "failed parsing multipart form", err)
			return FormReader{}, c.formErr
		}
		if !alreadyParsed && r.MultipartForm != nil {
			mf := r.MultipartForm
			c.OnRelease(mf.RemoveAll)
		}
	} else if err := r.ParseForm(); err != nil {
		c.formErr = NewErrorWithCause(http.StatusBadRequest, "failed parsing form", err)
		return FormReader{}, c.formErr
	}

	form := FormReader{Values: NewValues(r.PostForm), Files: FormFiles{}}
	if r.MultipartForm == nil {
		return form, nil
	}

	for field, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			form.Files[field] = append(form.Files[field], &FormFile{
				Field:       field,
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Header:      fh.Header,
				open: func() (io.ReadCloser, error) {
					return fh.Open()
				},
			})
		}
	}

	return form, nil
}

// StreamForm reads a multipart form from the request body section by section,
// without buffering the whole body. Field values are kept in memory, and
// uploaded files are written to the spool filesystem as they're read. Spooled
// files are removed when the Context is released.
//
// The request must have a multipart/form-data content type. Calling
// StreamForm on any other request is a usage error, and returns
// http.ErrNotMultipart. Like ReadString, it can only be called once.
func StreamForm(c *Context) (FormReader, error) {
	mr, err := c.Request.MultipartReader()
	if err != nil {
		return FormReader{}, fmt.Errorf("failed reading multipart stream: %w", err)
	}

	form := FormReader{Values: NewValues(nil), Files: FormFiles{}}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return FormReader{}, NewErrorWithCause(http.StatusBadRequest, "failed reading multipart section", err)
		}

		if err = c.readPart(part, form); err != nil {
			part.Close()
			return FormReader{}, err
		}
		part.Close()
	}

	return form, nil
}

func (c *Context) readPart(part *multipart.Part, form FormReader) error {
	field := part.FormName()
	if field == "" {
		return nil
	}

	if part.FileName() == "" {
		data, err := io.ReadAll(io.LimitReader(part, c.maxMemory+1))
		if err != nil {
			return fmt.Errorf("failed reading form field '%s': %w", field, err)
		}
		if int64(len(data)) > c.maxMemory {
			return NewError(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("form field '%s' is too large", field))
		}
		form.Values.add(field, string(data))
		return nil
	}

	file, err := c.spool(part)
	if err != nil {
		return err
	}
	form.Files[field] = append(form.Files[field], file)

	return nil
}

// spool writes the contents of a file part to the spool filesystem.
func (c *Context) spool(part *multipart.Part) (*FormFile, error) {
	if err := c.spoolFS.MkdirAll(c.spoolDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed creating spool directory: %w", err)
	}

	path := filepath.Join(c.spoolDir, "weave-upload-"+cuid2.Generate())
	f, err := c.spoolFS.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed creating spool file: %w", err)
	}
	fs := c.spoolFS
	c.OnRelease(func() error {
		return fs.Remove(path)
	})

	size, err := io.Copy(f, part)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("failed spooling uploaded file '%s': %w", part.FileName(), err)
	}

	return &FormFile{
		Field:       part.FormName(),
		Filename:    part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		Size:        size,
		Header:      part.Header,
		open: func() (io.ReadCloser, error) {
			return fs.Open(path)
		},
	}, nil
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

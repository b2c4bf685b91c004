package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/viant/afs"
	afsurl "github.com/viant/afs/url"
	"go.uber.org/zap"

	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
)

// Files is the store of /files attached to an external record.
type Files struct {
	*Collection[File]
	fs afs.Service
}

func NewFiles(c *Client) *Files {
	return &Files{Collection: NewCollection[File](c, "/files", "file"), fs: afs.New()}
}

// FetchByExternalUUID lists the files attached to externalUUID.
func (f *Files) FetchByExternalUUID(ctx context.Context, externalUUID string) ([]File, error) {
	return f.FetchList(ctx, Where("external_uuid", externalUUID))
}

// Upload sends content as a multipart form and appends the stored file.
func (f *Files) Upload(ctx context.Context, externalUUID, filename string, content io.Reader) (*File, error) {
	defer f.begin()()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("external_uuid", externalUUID); err != nil {
		return nil, err
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", filename, err)
	}
	if err = writer.Close(); err != nil {
		return nil, err
	}

	single, err := send[Single[File]](ctx, f.client, &request{
		method:      http.MethodPost,
		path:        f.path + "/upload",
		raw:         body,
		contentType: writer.FormDataContentType(),
	})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to upload file", zap.String("filename", filename), zap.Error(err))
		f.client.notifyFailure(ctx, "messages.errorUploadingFile", err)
		return nil, err
	}
	f.add(single.Value)
	f.client.notifySuccess(ctx, "messages.fileUploaded")
	return &single.Value, nil
}

// Download writes the content of file id to w and returns the server provided filename.
func (f *Files) Download(ctx context.Context, id ID, w io.Writer) (string, error) {
	defer f.begin()()
	resp, err := f.client.do(ctx, &request{method: http.MethodGet, path: f.itemPath(id) + "/download"})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to download file", zap.String("id", id.String()), zap.Error(err))
		return "", err
	}
	defer resp.Body.Close()
	filename := f.filename(id, resp.Header.Get("Content-Disposition"))
	if _, err = io.Copy(w, resp.Body); err != nil {
		return "", &Error{Kind: KindNetwork, Message: "failed to read download", Err: err}
	}
	return filename, nil
}

// DownloadTo stores file id at destURL (any afs URL). A destURL ending with
// "/" is treated as a folder and the server provided filename is appended.
func (f *Files) DownloadTo(ctx context.Context, id ID, destURL string) (string, error) {
	defer f.begin()()
	resp, err := f.client.do(ctx, &request{method: http.MethodGet, path: f.itemPath(id) + "/download"})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to download file", zap.String("id", id.String()), zap.Error(err))
		return "", err
	}
	defer resp.Body.Close()
	target := destURL
	if strings.HasSuffix(destURL, "/") {
		target = afsurl.Join(destURL, f.filename(id, resp.Header.Get("Content-Disposition")))
	}
	if err = f.fs.Upload(ctx, target, 0o644, resp.Body); err != nil {
		return "", fmt.Errorf("failed to store file %v at %v: %w", id, target, err)
	}
	return target, nil
}

// filename prefers the Content-Disposition filename, then the locally known name, then the id.
// Only the last path element of a name is used.
func (f *Files) filename(id ID, disposition string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := baseName(params["filename"]); name != "" {
				return name
			}
		}
	}
	if file, ok := f.Find(id); ok {
		if name := baseName(file.Filename); name != "" {
			return name
		}
	}
	return url.PathEscape(id.String())
}

// baseName returns the last element of name or "" when nothing usable remains.
func baseName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	switch name {
	case ".", "..", "/":
		return ""
	}
	return name
}

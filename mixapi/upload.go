package mixapi

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"mixanalyzer/core"
)

// Upload posts an audio file as multipart form data to /upload. The request
// streams from disk; onProgress, when non-nil, receives byte-level transfer
// snapshots as the file body is consumed.
//
// The caller is expected to have run core.ValidateUpload first; Upload does
// not re-validate.
func (c *Client) Upload(ctx context.Context, upload core.UploadRequest, onProgress func(core.TransferInfo)) (*core.UploadResponse, error) {
	file, err := os.Open(upload.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", upload.Path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", upload.Path, err)
	}

	tracker := core.NewTransferTracker(info.Size())
	body := &progressReader{
		r:          file,
		tracker:    tracker,
		onProgress: onProgress,
	}

	// Stream the multipart body through a pipe so large files never sit in
	// memory whole.
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadForm(writer, body, filepath.Base(upload.Path), upload.IsInstrumental))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result core.UploadResponse
	if err := c.doJSON(c.long, req, "upload", &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, &core.APIError{Op: "upload", Message: result.Error}
	}

	c.logger.Info("upload complete",
		zap.String("filename", result.Filename),
		zap.Bool("from_cache", result.FromCache),
		zap.String("size", core.FormatBytes(info.Size())))
	return &result, nil
}

// writeUploadForm writes the two form fields the server expects: the file
// part named "file" and the "is_instrumental" flag.
func writeUploadForm(w *multipart.Writer, file io.Reader, filename string, isInstrumental bool) error {
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy file body: %w", err)
	}

	flag := "false"
	if isInstrumental {
		flag = "true"
	}
	if err := w.WriteField("is_instrumental", flag); err != nil {
		return fmt.Errorf("failed to write is_instrumental field: %w", err)
	}

	return w.Close()
}

// progressReader feeds TransferTracker as bytes are read out of the
// underlying file.
type progressReader struct {
	r          io.Reader
	tracker    *core.TransferTracker
	onProgress func(core.TransferInfo)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.tracker.Add(int64(n))
		if p.onProgress != nil {
			p.onProgress(p.tracker.Info())
		}
	}
	return n, err
}

// multipart/multipart.go
/* Package multipart encodes string parameters and file-like values into a multipart/form-data
body. Parameters are written first, then files, each group in key order. Files referenced by
path are read up front, concurrently, so an unreadable file fails the build before any
byte of the body is produced. */
package multipart

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"math"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mckinley/go-api-rest-client/apierror"
	"github.com/mckinley/go-api-rest-client/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	BoundaryPrefix     = "Boundary-"
	JPEGQuality        = 60
	ImageContentType   = "image/jpg"
	DefaultContentType = "application/octet-stream"
)

// NewBoundary returns a random boundary token prefixed with "Boundary-".
func NewBoundary() string {
	return BoundaryPrefix + strings.ToUpper(uuid.NewString())
}

// ContentType returns the Content-Type header value for a body built with boundary.
func ContentType(boundary string) string {
	return "multipart/form-data; boundary=" + boundary
}

// Builder builds multipart bodies.
type Builder struct {
	log   logger.Logger
	newID func() string
}

// NewBuilder returns a Builder logging through log.
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Builder{
		log: log,
		newID: func() string {
			return strings.ToUpper(uuid.NewString())
		},
	}
}

// part is one fully resolved file part.
type part struct {
	name        string
	fileName    string
	contentType string
	data        []byte
}

// fileJob is a FileRef waiting to be read into parts[index].
type fileJob struct {
	index int
	path  string
}

// Build encodes params and files into a multipart body delimited by boundary.
// An unreadable file yields an apierror of kind ioError.
func (b *Builder) Build(ctx context.Context, params map[string]string, files map[string]File, boundary string) ([]byte, error) {
	parts, jobs, err := b.resolveParts(files)
	if err != nil {
		return nil, err
	}

	if err := b.readFiles(ctx, parts, jobs); err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.SetBoundary(boundary); err != nil {
		return nil, apierror.Wrap(apierror.KindRequestEncoding, fmt.Errorf("invalid multipart boundary %q: %w", boundary, err))
	}

	// multipart.Writer.Close prefixes the closing delimiter with CRLF even when nothing was
	// written; an empty body is the closing delimiter alone.
	if len(params) == 0 && len(parts) == 0 {
		body.WriteString("--" + boundary + "--\r\n")
		b.log.Debug("Multipart body built", zap.Int("parameter_count", 0), zap.Int("file_part_count", 0), zap.Int("body_bytes", body.Len()))
		return body.Bytes(), nil
	}

	for _, key := range sortedKeys(params) {
		if err := writer.WriteField(key, params[key]); err != nil {
			return nil, apierror.Wrap(apierror.KindRequestEncoding, err)
		}
	}

	for _, p := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.name, p.fileName))
		header.Set("Content-Type", p.contentType)

		w, err := writer.CreatePart(header)
		if err != nil {
			return nil, apierror.Wrap(apierror.KindRequestEncoding, err)
		}
		if err := b.trackUploadProgress(bytes.NewReader(p.data), w, int64(len(p.data)), p.fileName); err != nil {
			return nil, apierror.Wrap(apierror.KindIO, err)
		}
	}

	if err := writer.Close(); err != nil {
		b.log.Error("Failed to close multipart writer", zap.Error(err))
		return nil, apierror.Wrap(apierror.KindRequestEncoding, err)
	}

	b.log.Debug("Multipart body built",
		zap.Int("parameter_count", len(params)),
		zap.Int("file_part_count", len(parts)),
		zap.Int("body_bytes", body.Len()),
	)

	return body.Bytes(), nil
}

// resolveParts expands files into parts in key order. Images are encoded immediately;
// file references are returned as jobs to be read.
func (b *Builder) resolveParts(files map[string]File) ([]part, []fileJob, error) {
	var parts []part
	var jobs []fileJob

	for _, key := range sortedKeys(files) {
		switch value := files[key].(type) {
		case Image:
			p, err := b.imagePart(key, key, value)
			if err != nil {
				return nil, nil, err
			}
			parts = append(parts, p)

		case Images:
			for index, img := range value {
				p, err := b.imagePart(fmt.Sprintf("%s[%d]", key, index), key, Image{Image: img})
				if err != nil {
					return nil, nil, err
				}
				parts = append(parts, p)
			}

		case FileRef:
			path := string(value)
			jobs = append(jobs, fileJob{index: len(parts), path: path})
			parts = append(parts, part{
				name:        key,
				fileName:    fmt.Sprintf("%s.%s", key, extension(path)),
				contentType: mimeType(path),
			})

		case FileRefs:
			for index, path := range value {
				jobs = append(jobs, fileJob{index: len(parts), path: path})
				parts = append(parts, part{
					name:        fmt.Sprintf("%s[%d]", key, index),
					fileName:    fmt.Sprintf("%s%d.%s", key, index, extension(path)),
					contentType: mimeType(path),
				})
			}

		case nil:
			b.log.Warn("Skipping nil multipart file", zap.String("key", key))
		}
	}

	return parts, jobs, nil
}

// imagePart JPEG encodes img. The file name is derived from key, the part name is name.
func (b *Builder) imagePart(name, key string, img Image) (part, error) {
	if img.Image == nil {
		return part{}, apierror.Wrap(apierror.KindIO, fmt.Errorf("image for %q is nil", name))
	}

	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img.Image, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		b.log.Error("Failed to encode image", zap.String("name", name), zap.Error(err))
		return part{}, apierror.Wrap(apierror.KindIO, fmt.Errorf("encoding image %q: %w", name, err))
	}

	fileName := fmt.Sprintf("%s_%s.jpg", key, b.newID())
	b.log.Debug("Encoded image for upload", zap.String("name", name), zap.String("filename", fileName))

	return part{
		name:        name,
		fileName:    fileName,
		contentType: ImageContentType,
		data:        buf.Bytes(),
	}, nil
}

// readFiles reads every job into its part concurrently.
func (b *Builder) readFiles(ctx context.Context, parts []part, jobs []fileJob) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(job.path)
			if err != nil {
				b.log.Error("Failed to read upload file", zap.String("filePath", job.path), zap.Error(err))
				return apierror.Wrap(apierror.KindIO, err)
			}
			parts[job.index].data = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if apierror.KindOf(err) == 0 {
			return apierror.Wrap(apierror.KindIO, err)
		}
		return err
	}
	return nil
}

// trackUploadProgress copies src into dst, logging progress whenever the completed
// percentage changes.
func (b *Builder) trackUploadProgress(src io.Reader, dst io.Writer, totalSize int64, fileName string) error {
	buffer := make([]byte, 32*1024)
	var uploadedSize int64
	lastLoggedPercentage := -1.0
	startTime := time.Now()

	for {
		n, err := src.Read(buffer)
		if n > 0 {
			if _, werr := dst.Write(buffer[:n]); werr != nil {
				return werr
			}
			uploadedSize += int64(n)

			percentage := math.Floor(float64(uploadedSize) / float64(totalSize) * 100)
			if percentage != lastLoggedPercentage {
				b.log.Debug("File encoding progress",
					zap.String("filename", fileName),
					zap.String("completed", fmt.Sprintf("%.0f%%", percentage)),
					zap.Duration("elapsed_time", time.Since(startTime)))
				lastLoggedPercentage = percentage
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// extension returns the file extension of path without the leading dot.
func extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// mimeType determines the MIME type from the file extension, falling back to
// application/octet-stream.
func mimeType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return DefaultContentType
	}
	typ := mime.TypeByExtension(ext)
	if typ == "" {
		return DefaultContentType
	}
	if mediaType, _, err := mime.ParseMediaType(typ); err == nil {
		return mediaType
	}
	return typ
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

package storage

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/google/uuid"

	"academy-cms/internal/config"
	"academy-cms/internal/metrics"
	"academy-cms/internal/utils"
)

const (
	imagePrefix  = "images/"
	cacheControl = "public, max-age=31536000"
)

// ErrForeignURL is returned when a URL does not point into our bucket.
var ErrForeignURL = errors.New("storage: url is not served from this bucket")

// Client is the blob store for the image library. It never inspects the
// bytes it is given; callers only ever see public URLs.
type Client struct {
	backend       StorageProvider
	bucket        string
	publicBaseURL string
}

// Object is one stored image as the library lists it.
type Object struct {
	URL        string    `json:"image_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func New(cfg *config.Config) (*Client, error) {
	var backend StorageProvider

	// 1. Internal Selection Logic
	if cfg.Storage.Provider == "local" {
		backend = NewLocalProvider(cfg.Storage.LocalRoot)
	} else {
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Storage.KeyID, cfg.Storage.AppKey, ""),
			Endpoint:         aws.String(cfg.Storage.Endpoint),
			Region:           aws.String(cfg.Storage.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		sess, err := session.NewSession(s3Config)
		if err != nil {
			return nil, fmt.Errorf("storage: s3 session: %w", err)
		}
		backend = NewS3Provider(sess)
	}

	return NewWithProvider(backend, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL), nil
}

func NewWithProvider(backend StorageProvider, bucket, publicBaseURL string) *Client {
	return &Client{
		backend:       backend,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// URLFor returns the public URL of key.
func (c *Client) URLFor(key string) string {
	return c.publicBaseURL + "/" + key
}

// KeyFor is the inverse of URLFor.
func (c *Client) KeyFor(url string) (string, error) {
	prefix := c.publicBaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", ErrForeignURL
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", ErrForeignURL
	}
	return key, nil
}

// LocalDir reports the directory to serve over HTTP when blobs live on
// local disk.
func (c *Client) LocalDir() (string, bool) {
	if l, ok := c.backend.(*LocalProvider); ok {
		return l.Dir(c.bucket), true
	}
	return "", false
}

// UploadImage stores body under a name derived from filename and returns
// its public URL. An existing object with the same name is kept; the new
// upload gets a short unique suffix instead.
func (c *Client) UploadImage(filename string, body io.ReadSeeker, contentType string) (string, error) {
	name := utils.SafeFilename(filename, "image")
	key := imagePrefix + name

	exists, err := c.backend.Exists(c.bucket, key)
	if err != nil {
		metrics.ObserveBlob("upload", err)
		return "", err
	}
	if exists {
		ext := path.Ext(name)
		key = imagePrefix + strings.TrimSuffix(name, ext) + "-" + uuid.NewString()[:8] + ext
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	err = c.backend.Put(c.bucket, key, body, contentType, cacheControl)
	metrics.ObserveBlob("upload", err)
	if err != nil {
		return "", err
	}
	return c.URLFor(key), nil
}

// DeleteImage removes the object behind url.
func (c *Client) DeleteImage(url string) error {
	key, err := c.KeyFor(url)
	if err != nil {
		return err
	}
	err = c.backend.Delete(c.bucket, key)
	metrics.ObserveBlob("delete", err)
	return err
}

// ListImages returns every stored image, newest first.
func (c *Client) ListImages() ([]Object, error) {
	infos, err := c.backend.List(c.bucket, imagePrefix)
	metrics.ObserveBlob("list", err)
	if err != nil {
		return nil, err
	}

	objects := make([]Object, 0, len(infos))
	for _, info := range infos {
		objects = append(objects, Object{URL: c.URLFor(info.Key), UploadedAt: info.LastModified})
	}
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].UploadedAt.After(objects[j].UploadedAt)
	})
	return objects, nil
}

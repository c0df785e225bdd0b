package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type LocalProvider struct {
	// RootPath is the directory where buckets are simulated (e.g., "./data")
	RootPath string
}

func NewLocalProvider(root string) *LocalProvider {
	// Ensure the root directory exists
	_ = os.MkdirAll(root, 0755)
	return &LocalProvider{RootPath: root}
}

// path resolves key inside the bucket and refuses keys that escape it.
func (l *LocalProvider) path(bucket, key string) (string, error) {
	bucketPath := filepath.Join(l.RootPath, bucket)
	p := filepath.Join(bucketPath, filepath.FromSlash(key))
	rel, err := filepath.Rel(bucketPath, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", errors.New("storage: invalid key " + key)
	}
	return p, nil
}

func (l *LocalProvider) List(bucket, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	bucketPath := filepath.Join(l.RootPath, bucket)

	// We walk the bucket directory to find files
	err := filepath.WalkDir(bucketPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == bucketPath {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		// Convert OS path back to S3-style key (forward slashes)
		rel, _ := filepath.Rel(bucketPath, path)
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{Key: key, Size: info.Size(), LastModified: info.ModTime()})
		return nil
	})

	return objects, err
}

func (l *LocalProvider) Put(bucket, key string, body io.ReadSeeker, contentType, cacheControl string) error {
	path, err := l.path(bucket, key)
	if err != nil {
		return err
	}

	// Ensure sub-directories exist (e.g. bucket/images/file.png)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, body)
	return err
}

func (l *LocalProvider) Delete(bucket, key string) error {
	path, err := l.path(bucket, key)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func (l *LocalProvider) Exists(bucket, key string) (bool, error) {
	path, err := l.path(bucket, key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Dir is the directory holding bucket, for serving files over HTTP.
func (l *LocalProvider) Dir(bucket string) string {
	return filepath.Join(l.RootPath, bucket)
}

package storage

import (
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 implements the handful of calls the provider makes.
type fakeS3 struct {
	s3iface.S3API
	headErr error
	pages   [][]*s3.Object
	deleted []string
}

func (f *fakeS3) HeadObject(*s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	return &s3.HeadObjectOutput{}, f.headErr
}

func (f *fakeS3) ListObjectsV2Pages(in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool) error {
	for i, page := range f.pages {
		if !fn(&s3.ListObjectsV2Output{Contents: page}, i == len(f.pages)-1) {
			break
		}
	}
	return nil
}

func (f *fakeS3) DeleteObject(in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3ExistsDistinguishesNotFound(t *testing.T) {
	p := &S3Provider{api: &fakeS3{}}
	ok, err := p.Exists("media", "images/a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	notFound := awserr.NewRequestFailure(awserr.New("NotFound", "not found", nil), http.StatusNotFound, "req-1")
	p = &S3Provider{api: &fakeS3{headErr: notFound}}
	ok, err = p.Exists("media", "images/a.png")
	require.NoError(t, err)
	assert.False(t, ok)

	denied := awserr.NewRequestFailure(awserr.New("Forbidden", "denied", nil), http.StatusForbidden, "req-2")
	p = &S3Provider{api: &fakeS3{headErr: denied}}
	_, err = p.Exists("media", "images/a.png")
	assert.Error(t, err)
}

func TestS3ListAcrossPages(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	fake := &fakeS3{pages: [][]*s3.Object{
		{{Key: aws.String("images/a.png"), Size: aws.Int64(10), LastModified: aws.Time(older)}},
		{{Key: aws.String("images/b.png"), Size: aws.Int64(20), LastModified: aws.Time(newer)}},
	}}
	client := NewWithProvider(&S3Provider{api: fake}, "media", "https://cdn.example.com")

	images, err := client.ListImages()
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://cdn.example.com/images/b.png", images[0].URL)
	assert.Equal(t, "https://cdn.example.com/images/a.png", images[1].URL)

	require.NoError(t, client.DeleteImage("https://cdn.example.com/images/a.png"))
	assert.Equal(t, []string{"images/a.png"}, fake.deleted)

	_, ok := client.LocalDir()
	assert.False(t, ok)
}

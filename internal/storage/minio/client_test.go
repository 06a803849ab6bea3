package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      bool

	policy    string
	policyErr error

	putKey         string
	putSize        int64
	putContentType string
	putBody        []byte
	putErr         error

	removedKey string
	removeErr  error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}
func (f *fakeMinio) SetBucketPolicy(_ context.Context, _ string, policy string) error {
	f.policy = policy
	return f.policyErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, r io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	f.putKey = key
	f.putSize = size
	f.putContentType = opts.ContentType
	f.putBody, _ = io.ReadAll(r)
	return minioLib.UploadInfo{Key: key, Size: size}, f.putErr
}
func (f *fakeMinio) RemoveObject(_ context.Context, _ string, key string, _ minioLib.RemoveObjectOptions) error {
	f.removedKey = key
	return f.removeErr
}

func TestNewClientWithAPI_BucketExists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b", "http://cdn/")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "b", c.bucket)
	assert.False(t, api.madeBucket)
	assert.Empty(t, api.policy)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false}
	c, err := NewClientWithAPI(ctx, api, "bucket", "http://cdn")
	require.NoError(t, err)
	assert.Equal(t, "bucket", c.bucket)
	assert.True(t, api.madeBucket)
	assert.Contains(t, api.policy, "arn:aws:s3:::bucket/avatars/*")
}

func TestNewClientWithAPI_BucketExistsError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExistsErr: errors.New("boom")}
	c, err := NewClientWithAPI(ctx, api, "bucket", "")
	assert.Nil(t, c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")
}

func TestNewClientWithAPI_MakeBucketError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false, makeBucketErr: errors.New("fail")}
	c, err := NewClientWithAPI(ctx, api, "bucket", "")
	assert.Nil(t, c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create bucket")
}

func TestNewClientWithAPI_PolicyError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false, policyErr: errors.New("denied")}
	_, err := NewClientWithAPI(ctx, api, "bucket", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set bucket policy")
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b", "")
	require.NoError(t, err)

	err = c.Upload(ctx, "avatars/1.png", bytes.NewBufferString("data"), 4, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "avatars/1.png", api.putKey)
	assert.Equal(t, int64(4), api.putSize)
	assert.Equal(t, "image/png", api.putContentType)
	assert.Equal(t, []byte("data"), api.putBody)
}

func TestClient_Upload_Error(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true, putErr: errors.New("x")}
	c, err := NewClientWithAPI(ctx, api, "b", "")
	require.NoError(t, err)

	err = c.Upload(ctx, "k", bytes.NewBufferString("data"), 4, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload object")
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b", "")
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "avatars/1.png"))
	assert.Equal(t, "avatars/1.png", api.removedKey)

	api.removeErr = errors.New("x")
	err = c.Delete(ctx, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete object")
}

func TestClient_URL(t *testing.T) {
	ctx := context.Background()
	c, err := NewClientWithAPI(ctx, &fakeMinio{bucketExists: true}, "blog", "https://cdn.example.com/")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/blog/avatars/a%20b.png", c.URL("avatars/a b.png"))
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	_, err := NewClient(context.Background(), Options{Endpoint: "bad endpoint with spaces", Bucket: "b"})
	require.Error(t, err)
}

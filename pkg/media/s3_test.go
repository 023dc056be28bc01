package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	b, _ := io.ReadAll(params.Body)
	f.body = string(b)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	fake := &fakeS3{}
	u := &S3Uploader{client: fake, bucket: "gym-media", region: "us-east-1"}

	url, err := u.Upload(context.Background(), "products/p1/a.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://gym-media.s3.us-east-1.amazonaws.com/products/p1/a.png", url)
	assert.Equal(t, "gym-media", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(fake.input.ContentLength))
	assert.Equal(t, "png-bytes", fake.body)
}

func TestS3Uploader_PublicURL(t *testing.T) {
	u := &S3Uploader{client: &fakeS3{}, bucket: "b", region: "r", publicURL: "https://cdn.example.com"}
	url, err := u.Upload(context.Background(), "k.jpg", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/k.jpg", url)
}

func TestS3Uploader_Error(t *testing.T) {
	u := &S3Uploader{client: &fakeS3{err: errors.New("AccessDenied")}, bucket: "b", region: "r"}
	_, err := u.Upload(context.Background(), "k", "image/png", strings.NewReader("x"))
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestObjectKey(t *testing.T) {
	a := ObjectKey("products/p1", "image/png")
	b := ObjectKey("products/p1", "image/png")
	assert.True(t, strings.HasPrefix(a, "products/p1/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "image", Kind("image/jpeg"))
	assert.Equal(t, "video", Kind("video/mp4; codecs=avc1"))
	assert.Equal(t, "", Kind("application/pdf"))
	assert.Equal(t, "", Kind(""))
}

package s3path

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestParseRoot(t *testing.T) {
	for _, s := range []string{"", "s3://", "s3:"} {
 p := Parse(s)
 assert.Assert(t, p.IsRoot())
	}
}

func TestParseBucketOnly(t *testing.T) {
	p := Parse("s3://my-bucket")
	assert.Equal(t, p.Bucket, "my-bucket")
	assert.Equal(t, p.Prefix, "")
	assert.Assert(t, p.IsBucketRoot())
}

func TestParseBucketAndPrefix(t *testing.T) {
	p := Parse("s3://my-bucket/a/b/")
	assert.Equal(t, p.Bucket, "my-bucket")
	assert.Equal(t, p.Prefix, "a/b/")
}

func TestParseTolerantBareSchemePrefix(t *testing.T) {
	p := Parse("s3:my-bucket/key.txt")
	assert.Equal(t, p.Bucket, "my-bucket")
	assert.Equal(t, p.Prefix, "key.txt")
}

func TestParentOfObject(t *testing.T) {
	p := Parse("s3://b/a/b/c.txt")
	parent := p.Parent()
	assert.Equal(t, parent.String(), "s3://b/a/b/")
}

func TestParentOfFolder(t *testing.T) {
	p := Parse("s3://b/a/b/")
	parent := p.Parent()
	assert.Equal(t, parent.String(), "s3://b/a/")
}

func TestParentOfBucketRootIsRoot(t *testing.T) {
	p := Parse("s3://b")
	parent := p.Parent()
	assert.Assert(t, parent.IsRoot())
}

func TestParentOfRootIsRoot(t *testing.T) {
	p := Path{}
	assert.Assert(t, p.Parent().IsRoot())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, DisplayName("logs/"), "logs")
	assert.Equal(t, DisplayName("readme.txt"), "readme.txt")
	assert.Equal(t, DisplayName("a/b/c.txt"), "c.txt")
}

func TestJoin(t *testing.T) {
	root := Path{}
	assert.Equal(t, root.Join("b").String(), "s3://b")

	bucket := Path{Bucket: "b"}
	assert.Equal(t, bucket.Join("logs/").String(), "s3://b/logs/")
}

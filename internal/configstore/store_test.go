package configstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{"schema":"iglu:com.snowplowanalytics.iglu/resolver-config/jsonschema/1-0-1"}`),
		[]byte("line one\nline two\n"),
		{0x00, 0xff, 0x10, 0x80},
		[]byte(strings.Repeat("x", 4096)),
	}

	for _, p := range payloads {
		encoded := Encode(p)
		assert.NotContains(t, encoded, "\n")

		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, p, decoded)
		assert.Equal(t, encoded, Encode(decoded))
	}
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := Decode("not base64!!")
	assert.Error(t, err)
}

func TestFileStore_Read(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "targets"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "targets", "atomic.json"), []byte(`{"name":"atomic"}`), 0644))

	store := NewFileStore(root)

	data, err := store.Read(context.Background(), "targets/atomic.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"atomic"}`, string(data))
}

func TestFileStore_MissingPayload(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Read(context.Background(), "run-configs/2024-01-01.yml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_RejectsEscapingNames(t *testing.T) {
	store := NewFileStore(t.TempDir())

	for _, name := range []string{"../secret.json", "/etc/passwd", "", "."} {
		_, err := store.Read(context.Background(), name)
		assert.Error(t, err, name)
	}
}

func TestReadEncoded(t *testing.T) {
	store := MapStore{"iglu-config.json": []byte("resolver")}

	encoded, err := ReadEncoded(context.Background(), store, "iglu-config.json")
	require.NoError(t, err)
	assert.Equal(t, Encode([]byte("resolver")), encoded)

	_, err = ReadEncoded(context.Background(), store, "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

type fakeObjects struct {
	objects map[string]string
	err     error
	keys    []string
}

func (f *fakeObjects) ReadObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	f.keys = append(f.keys, bucket+"/"+key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestObjectStore_Read(t *testing.T) {
	objects := &fakeObjects{objects: map[string]string{"recovery/config/iglu-config.json": "resolver"}}
	store := &ObjectStore{client: objects, bucket: "configs", prefix: "/recovery/config/"}

	data, err := store.Read(context.Background(), "iglu-config.json")
	require.NoError(t, err)
	assert.Equal(t, "resolver", string(data))
	assert.Equal(t, []string{"configs/recovery/config/iglu-config.json"}, objects.keys)
}

func TestObjectStore_Errors(t *testing.T) {
	store := &ObjectStore{client: &fakeObjects{}, bucket: "configs"}
	_, err := store.Read(context.Background(), "targets/atomic.json")
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("connection refused")
	store = &ObjectStore{client: &fakeObjects{err: boom}, bucket: "configs"}
	_, err = store.Read(context.Background(), "targets/atomic.json")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "s3://configs/targets/atomic.json")
}

func TestObjectConfig_Validate(t *testing.T) {
	valid := ObjectConfig{Endpoint: "s3.amazonaws.com", Bucket: "configs", Region: "eu-west-1"}
	require.NoError(t, valid.Validate())

	noBucket := valid
	noBucket.Bucket = ""
	assert.Error(t, noBucket.Validate())

	withScheme := valid
	withScheme.Endpoint = "https://s3.amazonaws.com"
	assert.Error(t, withScheme.Validate())

	halfKeys := valid
	halfKeys.AccessKey = "AKIA"
	assert.Error(t, halfKeys.Validate())
}

package recognition

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/q-controller/facerecd/src/pkg/attributes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callLog struct {
	calls []string
}

type fakeObjects struct {
	log    *callLog
	err    error
	bucket string
	name   string
	body   string
}

func (f *fakeObjects) Store(ctx context.Context, bucket, name string, body io.Reader) error {
	f.log.calls = append(f.log.calls, "store")
	f.bucket, f.name = bucket, name
	data, readErr := io.ReadAll(body)
	if readErr != nil {
		return readErr
	}
	f.body = string(data)
	return f.err
}

type fakeLookup struct {
	log    *callLog
	items  map[string]attributes.Attribute
	err    error
	domain string
	id     string
}

func (f *fakeLookup) Lookup(ctx context.Context, domain, identifier string) (attributes.Attribute, bool, error) {
	f.log.calls = append(f.log.calls, "lookup")
	f.domain, f.id = domain, identifier
	if f.err != nil {
		return attributes.Attribute{}, false, f.err
	}
	attr, ok := f.items[identifier]
	return attr, ok, nil
}

func newFakes() (*callLog, *fakeObjects, *fakeLookup) {
	log := &callLog{}
	return log, &fakeObjects{log: log}, &fakeLookup{
		log: log,
		items: map[string]attributes.Attribute{
			"alice": {Name: "result", Value: "match"},
		},
	}
}

func upload(name, body string) Upload {
	return Upload{Name: name, Body: strings.NewReader(body), Size: int64(len(body))}
}

var testSettings = Settings{Bucket: "faces", Domain: "results"}

func TestRecognizeMatch(t *testing.T) {
	log, objects, lookup := newFakes()
	svc := NewService(objects, lookup, testSettings, nil)

	result, err := svc.Recognize(context.Background(), upload("alice.jpg", "jpeg bytes"))
	require.NoError(t, err)

	assert.True(t, result.Matched)
	assert.Equal(t, "alice:match", result.String())
	assert.Equal(t, []string{"store", "lookup"}, log.calls)

	assert.Equal(t, "faces", objects.bucket)
	assert.Equal(t, "alice.jpg", objects.name)
	assert.Equal(t, "jpeg bytes", objects.body)
	assert.Equal(t, "results", lookup.domain)
	assert.Equal(t, "alice", lookup.id)
}

func TestRecognizeNoMatch(t *testing.T) {
	log, objects, lookup := newFakes()
	svc := NewService(objects, lookup, testSettings, nil)

	result, err := svc.Recognize(context.Background(), upload("bob.png", "png"))
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, "bob", result.Identifier)
	assert.Equal(t, []string{"store", "lookup"}, log.calls)
}

func TestRecognizeStoreFailureSkipsLookup(t *testing.T) {
	log, objects, lookup := newFakes()
	objects.err = errors.New("AccessDenied")
	svc := NewService(objects, lookup, testSettings, nil)

	_, err := svc.Recognize(context.Background(), upload("alice.jpg", "x"))
	require.Error(t, err)
	assert.Equal(t, KindStore, KindOf(err))
	assert.ErrorIs(t, err, objects.err)
	assert.Equal(t, []string{"store"}, log.calls, "lookup must not run after a failed store")

	var recErr *Error
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "faces", recErr.Resource)
	assert.Equal(t, "alice.jpg", recErr.Key)
}

func TestRecognizeMissingSeparatorAfterStore(t *testing.T) {
	log, objects, lookup := newFakes()
	svc := NewService(objects, lookup, testSettings, nil)

	_, err := svc.Recognize(context.Background(), upload("noextension", "x"))
	require.Error(t, err)
	assert.Equal(t, KindInput, KindOf(err))
	assert.ErrorIs(t, err, ErrMissingSeparator)
	assert.Equal(t, []string{"store"}, log.calls, "the object is stored before the name is parsed")
}

func TestRecognizeLookupFailure(t *testing.T) {
	log, objects, lookup := newFakes()
	lookup.err = errors.New("throttled")
	svc := NewService(objects, lookup, testSettings, nil)

	_, err := svc.Recognize(context.Background(), upload("alice.jpg", "x"))
	require.Error(t, err)
	assert.Equal(t, KindLookup, KindOf(err))
	assert.ErrorIs(t, err, lookup.err)
	assert.Equal(t, []string{"store", "lookup"}, log.calls)

	var recErr *Error
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "results", recErr.Resource)
	assert.Equal(t, "alice", recErr.Key)
}

func TestRecognizeIsRepeatable(t *testing.T) {
	_, objects, lookup := newFakes()
	svc := NewService(objects, lookup, testSettings, nil)

	first, err := svc.Recognize(context.Background(), upload("alice.jpg", "x"))
	require.NoError(t, err)
	second, err := svc.Recognize(context.Background(), upload("alice.jpg", "x"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "input", KindInput.String())
	assert.Equal(t, "store", KindStore.String())
	assert.Equal(t, "lookup", KindLookup.String())
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

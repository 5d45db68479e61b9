package recognition

import (
	"context"
	"io"
	"time"

	"github.com/q-controller/facerecd/src/pkg/attributes"
	"github.com/q-controller/facerecd/src/pkg/metrics"
	"github.com/q-controller/facerecd/src/pkg/objectstore"
)

type Upload struct {
	Name string
	Body io.Reader
	Size int64
}

type Result struct {
	Identifier string
	Value      string
	Matched    bool
}

// String renders the success body, "<identifier>:<value>".
func (r Result) String() string {
	return r.Identifier + ":" + r.Value
}

type Settings struct {
	Bucket string
	Domain string
}

// Service stores an upload and then looks up the result an external pipeline
// computed for it.
type Service struct {
	objects  objectstore.Store
	lookup   attributes.Lookup
	settings Settings
	observer metrics.Observer
}

func NewService(objects objectstore.Store, lookup attributes.Lookup, settings Settings, observer metrics.Observer) *Service {
	if observer == nil {
		observer = metrics.Nop()
	}
	return &Service{
		objects:  objects,
		lookup:   lookup,
		settings: settings,
		observer: observer,
	}
}

// Recognize runs the two steps in order. The lookup only runs once the store
// call returned successfully: the external pipeline fills the attribute store
// after the object becomes visible. A stored object is never rolled back.
func (s *Service) Recognize(ctx context.Context, upload Upload) (Result, error) {
	if err := s.store(ctx, upload); err != nil {
		return Result{}, err
	}

	id, idErr := ItemIdentifier(upload.Name)
	if idErr != nil {
		return Result{}, &Error{
			Kind:     KindInput,
			Op:       "derive identifier",
			Resource: s.settings.Bucket,
			Key:      upload.Name,
			Err:      idErr,
		}
	}

	return s.find(ctx, id)
}

func (s *Service) store(ctx context.Context, upload Upload) error {
	start := time.Now()
	err := s.objects.Store(ctx, s.settings.Bucket, upload.Name, upload.Body)
	s.observer.RecordStore(time.Since(start), err)
	if err != nil {
		return &Error{
			Kind:     KindStore,
			Op:       "store",
			Resource: s.settings.Bucket,
			Key:      upload.Name,
			Err:      err,
		}
	}
	return nil
}

func (s *Service) find(ctx context.Context, id string) (Result, error) {
	start := time.Now()
	attr, found, err := s.lookup.Lookup(ctx, s.settings.Domain, id)
	s.observer.RecordLookup(time.Since(start), err)
	if err != nil {
		return Result{}, &Error{
			Kind:     KindLookup,
			Op:       "lookup",
			Resource: s.settings.Domain,
			Key:      id,
			Err:      err,
		}
	}

	if !found {
		return Result{Identifier: id}, nil
	}
	return Result{Identifier: id, Value: attr.Value, Matched: true}, nil
}

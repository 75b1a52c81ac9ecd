package metadatastore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trac-dap/flowcore/graph"
)

const (
	defaultObjectsCollection   = "flowcore_objects"
	defaultResourcesCollection = "flowcore_resources"
	defaultOpTimeout           = 5 * time.Second
)

// Options configures the Mongo-backed metadata/resource store.
type Options struct {
	Client              *mongodriver.Client
	Database            string
	ObjectsCollection   string
	ResourcesCollection string
	Timeout             time.Duration
}

// Store wraps two Mongo collections: one holding ObjectDefinition
// documents keyed by selector, the other ModelResource documents keyed by
// name. It exposes each as the narrower graph bundle interface the graph
// core depends on.
type Store struct {
	objects   *mongodriver.Collection
	resources *mongodriver.Collection
	timeout   time.Duration
}

// New returns a Store backed by opts.Client.
func New(opts Options) (*Store, error) {
	if opts.Client == nil {
		return nil, errors.New("mongo client is required")
	}
	if opts.Database == "" {
		return nil, errors.New("database name is required")
	}
	objectsCollection := opts.ObjectsCollection
	if objectsCollection == "" {
		objectsCollection = defaultObjectsCollection
	}
	resourcesCollection := opts.ResourcesCollection
	if resourcesCollection == "" {
		resourcesCollection = defaultResourcesCollection
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	db := opts.Client.Database(opts.Database)
	objects := db.Collection(objectsCollection)
	resources := db.Collection(resourcesCollection)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := ensureIndexes(ctx, objects, resources); err != nil {
		return nil, err
	}
	return &Store{objects: objects, resources: resources, timeout: timeout}, nil
}

func ensureIndexes(ctx context.Context, objects, resources *mongodriver.Collection) error {
	objIndex := mongodriver.IndexModel{
		Keys:    bson.D{{Key: "selector", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := objects.Indexes().CreateOne(ctx, objIndex); err != nil {
		return err
	}
	resIndex := mongodriver.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := resources.Indexes().CreateOne(ctx, resIndex); err != nil {
		return err
	}
	return nil
}

// objectDocument mirrors graph.ObjectDefinition for BSON storage.
type objectDocument struct {
	Selector string                  `bson:"selector"`
	Kind     graph.ObjectKind        `bson:"kind"`
	Schema   *graph.SchemaDefinition `bson:"schema,omitempty"`
	Resource *graph.ModelResource    `bson:"resource,omitempty"`
	Model    *graph.ModelDefinition  `bson:"model,omitempty"`
}

func (d objectDocument) toObjectDefinition() graph.ObjectDefinition {
	return graph.ObjectDefinition{
		Kind:     d.Kind,
		Selector: d.Selector,
		Schema:   d.Schema,
		Resource: d.Resource,
		Model:    d.Model,
	}
}

func fromObjectDefinition(obj graph.ObjectDefinition) objectDocument {
	return objectDocument{
		Selector: obj.Selector,
		Kind:     obj.Kind,
		Schema:   obj.Schema,
		Resource: obj.Resource,
		Model:    obj.Model,
	}
}

// resourceDocument mirrors a named graph.ModelResource for BSON storage.
type resourceDocument struct {
	Name     string             `bson:"name"`
	Resource graph.ModelResource `bson:"resource"`
}

// PutObject upserts the object definition under its selector.
func (s *Store) PutObject(obj graph.ObjectDefinition) error {
	ctx, cancel := s.withTimeout()
	defer cancel()
	doc := fromObjectDefinition(obj)
	_, err := s.objects.UpdateOne(ctx,
		bson.M{"selector": obj.Selector},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	return err
}

// PutResource upserts the named resource.
func (s *Store) PutResource(name string, resource graph.ModelResource) error {
	ctx, cancel := s.withTimeout()
	defer cancel()
	_, err := s.resources.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": resourceDocument{Name: name, Resource: resource}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// MetadataBundle returns a graph.MetadataBundle view over this store's
// objects collection.
func (s *Store) MetadataBundle() graph.MetadataBundle {
	return objectBundle{store: s}
}

// ResourceBundle returns a graph.ResourceBundle view over this store's
// resources collection.
func (s *Store) ResourceBundle() graph.ResourceBundle {
	return resourceBundle{store: s}
}

type objectBundle struct{ store *Store }

func (b objectBundle) Lookup(selector string) (graph.ObjectDefinition, bool) {
	ctx, cancel := b.store.withTimeout()
	defer cancel()
	var doc objectDocument
	if err := b.store.objects.FindOne(ctx, bson.M{"selector": selector}).Decode(&doc); err != nil {
		return graph.ObjectDefinition{}, false
	}
	return doc.toObjectDefinition(), true
}

type resourceBundle struct{ store *Store }

func (b resourceBundle) Lookup(name string) (graph.ModelResource, bool) {
	ctx, cancel := b.store.withTimeout()
	defer cancel()
	var doc resourceDocument
	if err := b.store.resources.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		return graph.ModelResource{}, false
	}
	return doc.Resource, true
}

package metadatastore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trac-dap/flowcore/graph"
)

var (
	testMongoClient    *mongodriver.Client
	testMongoContainer testcontainers.Container
	skipMongoTests     bool
)

func setupMongoDB() {
	ctx := context.Background()

	var containerErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				containerErr = fmt.Errorf("docker not available: %v", r)
			}
		}()
		req := testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections"),
			Tmpfs:        map[string]string{"/data/db": "rw"},
		}
		testMongoContainer, containerErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
	}()
	if containerErr != nil {
		skipMongoTests = true
		return
	}

	host, err := testMongoContainer.Host(ctx)
	if err != nil {
		skipMongoTests = true
		return
	}
	port, err := testMongoContainer.MappedPort(ctx, "27017")
	if err != nil {
		skipMongoTests = true
		return
	}

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	testMongoClient, err = mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		skipMongoTests = true
		return
	}
	if err := testMongoClient.Ping(ctx, nil); err != nil {
		skipMongoTests = true
	}
}

func getTestStore(t *testing.T) *Store {
	t.Helper()
	if testMongoClient == nil && !skipMongoTests {
		setupMongoDB()
	}
	if skipMongoTests {
		t.Skip("Docker not available, skipping MongoDB test")
	}

	store, err := New(Options{
		Client:              testMongoClient,
		Database:            "flowcore_test",
		ObjectsCollection:   "objects_" + t.Name(),
		ResourcesCollection: "resources_" + t.Name(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.objects.Drop(context.Background())
		_ = store.resources.Drop(context.Background())
	})
	return store
}

func TestPutObjectThenLookupRoundTrips(t *testing.T) {
	store := getTestStore(t)

	obj := graph.ObjectDefinition{
		Kind:     graph.ObjectKindData,
		Selector: "widgets",
		Schema: &graph.SchemaDefinition{
			Kind: graph.SchemaKindTable,
			Table: &graph.TableSchema{
				Fields: []graph.FieldSchema{{FieldName: "id", FieldType: graph.FieldTypeInteger, NotNull: true}},
			},
		},
	}
	require.NoError(t, store.PutObject(obj))

	bundle := store.MetadataBundle()
	got, ok := bundle.Lookup("widgets")
	require.True(t, ok)
	assert.Equal(t, obj.Kind, got.Kind)
	assert.Equal(t, obj.Selector, got.Selector)
	require.NotNil(t, got.Schema)
	assert.Equal(t, graph.SchemaKindTable, got.Schema.Kind)
	require.Len(t, got.Schema.Table.Fields, 1)
	assert.Equal(t, "id", got.Schema.Table.Fields[0].FieldName)
}

func TestPutObjectUpsertsOnSelector(t *testing.T) {
	store := getTestStore(t)

	require.NoError(t, store.PutObject(graph.ObjectDefinition{Kind: graph.ObjectKindData, Selector: "s"}))
	require.NoError(t, store.PutObject(graph.ObjectDefinition{Kind: graph.ObjectKindResource, Selector: "s"}))

	got, ok := store.MetadataBundle().Lookup("s")
	require.True(t, ok)
	assert.Equal(t, graph.ObjectKindResource, got.Kind, "second PutObject must overwrite, not duplicate")
}

func TestMetadataBundleLookupMissingReturnsFalse(t *testing.T) {
	store := getTestStore(t)

	_, ok := store.MetadataBundle().Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestPutResourceThenLookupRoundTrips(t *testing.T) {
	store := getTestStore(t)

	resource := graph.ModelResource{ResourceType: "gpu", Protocol: "grpc", System: map[string]string{"pool": "a100"}}
	require.NoError(t, store.PutResource("gpu-pool", resource))

	got, ok := store.ResourceBundle().Lookup("gpu-pool")
	require.True(t, ok)
	assert.Equal(t, resource, got)
}

func TestResourceBundleLookupMissingReturnsFalse(t *testing.T) {
	store := getTestStore(t)

	_, ok := store.ResourceBundle().Lookup("does-not-exist")
	assert.False(t, ok)
}

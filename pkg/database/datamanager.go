// Package database provides the DataManager for cached database operations.
package database

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultOpTimeout bounds store operations when the caller's context
// carries no deadline of its own.
const defaultOpTimeout = 5 * time.Second

// DataManagerOptions contains configuration for a DataManager.
type DataManagerOptions struct {
	MaxCacheSize int
}

// CacheManager provides an LRU cache shared across DataManagers.
type CacheManager struct {
	cache     map[string]*list.Element
	cacheList *list.List
	mu        sync.RWMutex
}

// cacheEntry holds a cached value with its key.
type cacheEntry struct {
	key   string
	value interface{}
}

// globalCacheManager is shared across all DataManager instances.
var globalCacheManager = &CacheManager{
	cache:     make(map[string]*list.Element),
	cacheList: list.New(),
}

// DataManager provides cached access to a MongoDB collection. Writes go
// through to the database first and update the cache only after the
// replace succeeds, so a cached read never sees an uncommitted document.
type DataManager[T any] struct {
	collection *mongo.Collection
	dbInstance *Database
	options    DataManagerOptions
}

// DefaultDataManagerOptions returns default options for DataManager.
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
	}
}

// NewDataManager creates a new DataManager for a collection.
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	return &DataManager[T]{
		collection: db.GetCollection(collectionName),
		dbInstance: db,
		options:    dmOptions,
	}
}

// mapStoreErr classifies transient store failures as retryable timeouts
// per the ledger's error contract; everything else passes through.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return fmt.Errorf("%w: %v", moderation.ErrStoreTimeout, err)
	}
	return err
}

// opContext derives a bounded context for a single store operation.
func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, defaultOpTimeout)
}

// generateCacheKey creates a unique, deterministic key from a query.
// It sorts the keys to ensure consistent ordering regardless of map
// iteration order.
func (dm *DataManager[T]) generateCacheKey(query bson.M) string {
	collName := ""
	if dm.collection != nil {
		collName = dm.collection.Name()
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", collName, strings.Join(parts, ","))
}

// cloneDocument deep-copies a document through its BSON representation.
// Callers of Get and Set mutate the returned document freely; the cache
// must never share memory with them or an uncommitted edit would leak
// into every later read.
func cloneDocument[T any](src *T) (*T, error) {
	raw, err := bson.Marshal(src)
	if err != nil {
		return nil, err
	}
	var dst T
	if err := bson.Unmarshal(raw, &dst); err != nil {
		return nil, err
	}
	return &dst, nil
}

// Get retrieves a document from cache or database. A missing document is
// (nil, nil). The returned document is always a private copy.
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	cacheKey := dm.generateCacheKey(query)

	globalCacheManager.mu.RLock()
	if elem, exists := globalCacheManager.cache[cacheKey]; exists {
		globalCacheManager.mu.RUnlock()
		globalCacheManager.mu.Lock()
		globalCacheManager.cacheList.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		globalCacheManager.mu.Unlock()
		copied, err := cloneDocument(entry.value.(*T))
		if err != nil {
			return nil, err
		}
		return copied, nil
	}
	globalCacheManager.mu.RUnlock()

	if !dm.dbInstance.Connected() || dm.collection == nil {
		return nil, fmt.Errorf("%w: database not connected", moderation.ErrStoreTimeout)
	}

	opCtx, cancel := opContext(ctx)
	defer cancel()

	var result T
	err := dm.collection.FindOne(opCtx, query).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		logger.Warn(fmt.Sprintf("Fallo al leer de la DB (%s): %v", dm.collection.Name(), err), "DataManager")
		return nil, mapStoreErr(err)
	}

	cached, err := cloneDocument(&result)
	if err != nil {
		return nil, err
	}
	globalCacheManager.mu.Lock()
	defer globalCacheManager.mu.Unlock()
	dm.cacheStoreLocked(cacheKey, cached)

	return &result, nil
}

// GetAll retrieves all documents matching a query, bypassing the cache.
func (dm *DataManager[T]) GetAll(ctx context.Context, query bson.M) ([]*T, error) {
	if !dm.dbInstance.Connected() || dm.collection == nil {
		return nil, fmt.Errorf("%w: database not connected", moderation.ErrStoreTimeout)
	}

	opCtx, cancel := context.WithTimeout(ctx, 2*defaultOpTimeout)
	defer cancel()

	cursor, err := dm.collection.Find(opCtx, query)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	defer func() { _ = cursor.Close(opCtx) }()

	var results []*T
	for cursor.Next(opCtx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		results = append(results, &doc)
	}

	return results, mapStoreErr(cursor.Err())
}

// Distinct returns the distinct values of a field across matching
// documents.
func (dm *DataManager[T]) Distinct(ctx context.Context, field string, query bson.M) ([]interface{}, error) {
	if !dm.dbInstance.Connected() || dm.collection == nil {
		return nil, fmt.Errorf("%w: database not connected", moderation.ErrStoreTimeout)
	}

	opCtx, cancel := opContext(ctx)
	defer cancel()

	values, err := dm.collection.Distinct(opCtx, field, query)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return values, nil
}

// Set upserts a document in the database, then updates the cache. When
// the database is unreachable the write fails with a retryable error; it
// is never queued, so a failed mutation leaves no partial state.
func (dm *DataManager[T]) Set(ctx context.Context, query bson.M, data interface{}) (*T, error) {
	cacheKey := dm.generateCacheKey(query)

	if !dm.dbInstance.Connected() || dm.collection == nil {
		return nil, fmt.Errorf("%w: database not connected", moderation.ErrStoreTimeout)
	}

	opCtx, cancel := opContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result T
	err := dm.collection.FindOneAndUpdate(opCtx, query, bson.M{"$set": data}, opts).Decode(&result)
	if err != nil {
		logger.Error(fmt.Sprintf("Error en 'set' para '%s': %v", dm.collection.Name(), err), "DataManager")
		return nil, mapStoreErr(err)
	}

	cached, err := cloneDocument(&result)
	if err != nil {
		return nil, err
	}
	globalCacheManager.mu.Lock()
	defer globalCacheManager.mu.Unlock()

	if elem, exists := globalCacheManager.cache[cacheKey]; exists {
		elem.Value = &cacheEntry{key: cacheKey, value: cached}
		globalCacheManager.cacheList.MoveToFront(elem)
	} else {
		dm.cacheStoreLocked(cacheKey, cached)
	}

	return &result, nil
}

// cacheStoreLocked inserts into the LRU cache, evicting the oldest entry
// over capacity. Caller holds globalCacheManager.mu.
func (dm *DataManager[T]) cacheStoreLocked(cacheKey string, value *T) {
	entry := &cacheEntry{key: cacheKey, value: value}
	elem := globalCacheManager.cacheList.PushFront(entry)
	globalCacheManager.cache[cacheKey] = elem

	if dm.options.MaxCacheSize > 0 && globalCacheManager.cacheList.Len() > dm.options.MaxCacheSize {
		oldest := globalCacheManager.cacheList.Back()
		if oldest != nil {
			oldEntry := oldest.Value.(*cacheEntry)
			delete(globalCacheManager.cache, oldEntry.key)
			globalCacheManager.cacheList.Remove(oldest)
		}
	}
}

// Delete removes a document from the database and cache.
func (dm *DataManager[T]) Delete(ctx context.Context, query bson.M) error {
	cacheKey := dm.generateCacheKey(query)

	globalCacheManager.mu.Lock()
	if elem, exists := globalCacheManager.cache[cacheKey]; exists {
		globalCacheManager.cacheList.Remove(elem)
		delete(globalCacheManager.cache, cacheKey)
	}
	globalCacheManager.mu.Unlock()

	if !dm.dbInstance.Connected() || dm.collection == nil {
		return fmt.Errorf("%w: database not connected", moderation.ErrStoreTimeout)
	}

	opCtx, cancel := opContext(ctx)
	defer cancel()

	if _, err := dm.collection.DeleteOne(opCtx, query); err != nil {
		logger.Error(fmt.Sprintf("Error en 'delete' para '%s': %v", dm.collection.Name(), err), "DataManager")
		return mapStoreErr(err)
	}

	return nil
}

// ClearCache clears the entire shared cache.
func (dm *DataManager[T]) ClearCache() {
	globalCacheManager.mu.Lock()
	defer globalCacheManager.mu.Unlock()

	globalCacheManager.cache = make(map[string]*list.Element)
	globalCacheManager.cacheList = list.New()
}

// CacheSize returns the current cache size.
func (dm *DataManager[T]) CacheSize() int {
	globalCacheManager.mu.RLock()
	defer globalCacheManager.mu.RUnlock()
	return globalCacheManager.cacheList.Len()
}

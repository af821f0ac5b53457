package resources

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for resource storage. Listing returns
// rows ordered by published_at descending.
type Repository interface {
	ListPublished(ctx context.Context) ([]Resource, error)
	GetBySlug(ctx context.Context, slug string) (*Resource, error)
	ListAll(ctx context.Context) ([]Resource, error)
	Create(ctx context.Context, r *Resource) (*Resource, error)
	Update(ctx context.Context, r *Resource) (*Resource, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is a Repository backed by a map, used in development and tests.
type InMemoryRepository struct {
	mu        sync.RWMutex
	resources map[string]*Resource
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{resources: make(map[string]*Resource)}
}

func (r *InMemoryRepository) list(includeUnpublished bool) []Resource {
	r.mu.RLock()
	out := make([]Resource, 0, len(r.resources))
	for _, res := range r.resources {
		if !includeUnpublished && !res.Published {
			continue
		}
		out = append(out, *res)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}

// ListPublished returns published resources newest first.
func (r *InMemoryRepository) ListPublished(ctx context.Context) ([]Resource, error) {
	return r.list(false), nil
}

// ListAll returns every resource, drafts included, newest first.
func (r *InMemoryRepository) ListAll(ctx context.Context) ([]Resource, error) {
	return r.list(true), nil
}

// GetBySlug returns the resource with the given slug.
func (r *InMemoryRepository) GetBySlug(ctx context.Context, slug string) (*Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.resources {
		if res.Slug == slug {
			cp := *res
			return &cp, nil
		}
	}
	return nil, ErrResourceNotFound
}

// Create stores a new resource, assigning id, slug and timestamps as needed.
func (r *InMemoryRepository) Create(ctx context.Context, res *Resource) (*Resource, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}

	cp := *res
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if cp.Slug == "" {
		cp.Slug = Slugify(cp.Title)
	}
	if cp.PublishedAt.IsZero() {
		cp.PublishedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.resources {
		if existing.Slug == cp.Slug && existing.ID != cp.ID {
			return nil, ErrSlugTaken
		}
	}
	r.resources[cp.ID] = &cp

	out := cp
	return &out, nil
}

// Update replaces an existing resource.
func (r *InMemoryRepository) Update(ctx context.Context, res *Resource) (*Resource, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resources[res.ID]; !ok {
		return nil, ErrResourceNotFound
	}
	cp := *res
	r.resources[res.ID] = &cp

	out := cp
	return &out, nil
}

// Delete removes a resource by id.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resources[id]; !ok {
		return ErrResourceNotFound
	}
	delete(r.resources, id)
	return nil
}

package catalog

import (
	"context"
	"sync"

	"github.com/fixly-labs/backend-fixly/internal/obs"
)

// FetchFunc loads the child rows of one parent node.
type FetchFunc[T any] func(ctx context.Context, parentID string) ([]T, error)

// Loader fetches the child list for the currently selected parent and drops
// responses that arrive after the selection has moved on. Each Load cancels
// the fetch still in flight and advances a generation; a response is applied
// only while its generation is still current. Comparing generations rather
// than parent ids keeps a superseded fetch from clobbering a fresh one when
// the same parent is re-selected in quick succession.
type Loader[T any] struct {
	mu     sync.Mutex
	fetch  FetchFunc[T]
	gen    uint64
	cancel context.CancelFunc
	items  []T
	failed bool
}

// NewLoader constructs a Loader around fetch.
func NewLoader[T any](fetch FetchFunc[T]) *Loader[T] {
	return &Loader[T]{fetch: fetch}
}

// Reset clears the list without fetching. Used when the parent selection is
// cleared entirely.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	l.items = nil
	l.failed = false
}

// Load starts fetching the children of parentID. The returned channel closes
// once the response has been applied or dropped, so callers can synchronise
// without polling.
func (l *Loader[T]) Load(ctx context.Context, parentID string) <-chan struct{} {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		items, err := l.fetch(fetchCtx, parentID)
		cancel()

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.gen != gen {
			obs.CountCatalogStaleDrop()
			return
		}
		if err != nil {
			l.items = []T{}
			l.failed = true
			return
		}
		if items == nil {
			items = []T{}
		}
		l.items = items
		l.failed = false
	}()
	return done
}

// Snapshot returns a copy of the current list and whether the last applied
// fetch failed. An empty list with failed=false is a legitimate answer.
func (l *Loader[T]) Snapshot() ([]T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out, l.failed
}

// Selection holds the device-type > brand > model chain picked so far.
// Setting a level clears every level beneath it.
type Selection struct {
	mu        sync.Mutex
	typeID    string
	brandID   string
	modelID   string
	serviceID string
}

// SetDeviceType records a device type and clears brand, model, and service.
func (s *Selection) SetDeviceType(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typeID = id
	s.brandID = ""
	s.modelID = ""
	s.serviceID = ""
}

// SetBrand records a brand and clears the model.
func (s *Selection) SetBrand(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brandID = id
	s.modelID = ""
}

// SetModel records a model.
func (s *Selection) SetModel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelID = id
}

// SetService records a service for the selected device type.
func (s *Selection) SetService(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serviceID = id
}

// Clear resets every level.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typeID, s.brandID, s.modelID, s.serviceID = "", "", "", ""
}

// Chain returns the current device type, brand, and model ids.
func (s *Selection) Chain() (typeID, brandID, modelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typeID, s.brandID, s.modelID
}

// ServiceID returns the selected service id.
func (s *Selection) ServiceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serviceID
}

// Resolver drives the dependent pickers of an intake form: a selection chain
// plus one loader per child list. Selecting a parent kicks off the child
// fetches and invalidates anything still in flight for the old parent.
type Resolver struct {
	sel      Selection
	brands   *Loader[Brand]
	models   *Loader[Model]
	services *Loader[ServiceItem]
}

// NewResolver constructs a Resolver on top of a catalog Service.
func NewResolver(svc *Service) *Resolver {
	return &Resolver{
		brands:   NewLoader(svc.BrandsForType),
		models:   NewLoader(svc.ModelsForBrand),
		services: NewLoader(svc.ServicesForType),
	}
}

// SelectDeviceType picks a device type, clears the descendant selections, and
// refreshes the brand and service lists. The returned channel closes when both
// fetches have settled. An empty id clears everything.
func (r *Resolver) SelectDeviceType(ctx context.Context, id string) <-chan struct{} {
	r.sel.SetDeviceType(id)
	r.models.Reset()
	done := make(chan struct{})
	if id == "" {
		r.brands.Reset()
		r.services.Reset()
		close(done)
		return done
	}
	bdone := r.brands.Load(ctx, id)
	sdone := r.services.Load(ctx, id)
	go func() {
		<-bdone
		<-sdone
		close(done)
	}()
	return done
}

// SelectBrand picks a brand, clears the model, and refreshes the model list.
func (r *Resolver) SelectBrand(ctx context.Context, id string) <-chan struct{} {
	r.sel.SetBrand(id)
	if id == "" {
		r.models.Reset()
		done := make(chan struct{})
		close(done)
		return done
	}
	return r.models.Load(ctx, id)
}

// SelectModel picks a model.
func (r *Resolver) SelectModel(id string) {
	r.sel.SetModel(id)
}

// Chain returns the current selection chain.
func (r *Resolver) Chain() (typeID, brandID, modelID string) {
	return r.sel.Chain()
}

// Brands returns the current brand list and its error flag.
func (r *Resolver) Brands() ([]Brand, bool) { return r.brands.Snapshot() }

// Models returns the current model list and its error flag.
func (r *Resolver) Models() ([]Model, bool) { return r.models.Snapshot() }

// Services returns the current service list and its error flag.
func (r *Resolver) Services() ([]ServiceItem, bool) { return r.services.Snapshot() }

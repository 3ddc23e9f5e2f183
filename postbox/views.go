package postbox

import (
	"sync"
	"time"

	"github.com/G-Node/postbox/postbox/contact"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// view is one mounted contact form.
type view struct {
	id   string
	ctrl *contact.Controller
}

// viewStore keeps the controllers of the mounted views.  Views are discarded
// when closed, when idle longer than ttl, or when the store is full (least
// recently used first).
type viewStore struct {
	// mu keeps a concurrent close from being undone by the refresh in get.
	mu    sync.Mutex
	views *expirable.LRU[string, *view]
}

func newViewStore(ttl time.Duration, limit int) *viewStore {
	return &viewStore{views: expirable.NewLRU[string, *view](limit, nil, ttl)}
}

// mount registers a new view with the controller built by newCtrl.
func (vs *viewStore) mount(newCtrl func(id string) *contact.Controller) *view {
	id := uuid.New().String()
	v := &view{id: id, ctrl: newCtrl(id)}
	vs.views.Add(id, v)
	return v
}

// get returns the view with the given ID and restarts its idle timer.
func (vs *viewStore) get(id string) (*view, bool) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	v, ok := vs.views.Get(id)
	if !ok {
		return nil, false
	}
	vs.views.Add(id, v)
	return v, true
}

// close discards the view and reports whether it existed.
func (vs *viewStore) close(id string) bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.views.Remove(id)
}

func (vs *viewStore) len() int {
	return vs.views.Len()
}

package reconcile

import (
	"sync"

	"github.com/squili/tug/internal/logger"
	"github.com/squili/tug/internal/plan"
)

// Label name constants, written on every resource this tool creates.
const (
	LabelGroup             = "X-Tug-Group"
	LabelName              = "X-Tug-Name"
	LabelInjectFingerprint = "X-Tug-Inject-Fingerprint"
	LabelSecretFingerprint = "X-Tug-Secret-Fingerprint"
)

// ResolvedTables holds the four resolved-ref -> runtime-identifier maps
// shared across every step task in a run. Inserts are monotonic: once a
// ref is recorded it is never removed or overwritten for the life of the
// run.
type ResolvedTables struct {
	mu       sync.Mutex
	images   map[plan.ResolvedRef]string
	networks map[plan.ResolvedRef]string
	volumes  map[plan.ResolvedRef]string
	secrets  map[plan.ResolvedRef]string
}

// NewResolvedTables returns an empty set of resolved-ref tables.
func NewResolvedTables() *ResolvedTables {
	return &ResolvedTables{
		images:   make(map[plan.ResolvedRef]string),
		networks: make(map[plan.ResolvedRef]string),
		volumes:  make(map[plan.ResolvedRef]string),
		secrets:  make(map[plan.ResolvedRef]string),
	}
}

func (t *ResolvedTables) SetImage(ref plan.ResolvedRef, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.images[ref] = id
}

func (t *ResolvedTables) Image(ref plan.ResolvedRef) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.images[ref]
	return id, ok
}

func (t *ResolvedTables) SetNetwork(ref plan.ResolvedRef, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.networks[ref] = name
}

func (t *ResolvedTables) Network(ref plan.ResolvedRef) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	name, ok := t.networks[ref]
	return name, ok
}

func (t *ResolvedTables) SetVolume(ref plan.ResolvedRef, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.volumes[ref] = name
}

func (t *ResolvedTables) Volume(ref plan.ResolvedRef) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	name, ok := t.volumes[ref]
	return name, ok
}

func (t *ResolvedTables) SetSecret(ref plan.ResolvedRef, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.secrets[ref] = id
}

func (t *ResolvedTables) Secret(ref plan.ResolvedRef) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.secrets[ref]
	return id, ok
}

// ActionQueue is an append-only list of post-actions, safe for concurrent
// Push calls from many step tasks. Drain empties the queue and returns
// everything appended so far.
type ActionQueue struct {
	mu      sync.Mutex
	actions []plan.PostAction
}

func (q *ActionQueue) Push(action plan.PostAction) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.actions = append(q.actions, action)
}

func (q *ActionQueue) Drain() []plan.PostAction {
	q.mu.Lock()
	defer q.mu.Unlock()
	actions := q.actions
	q.actions = nil
	return actions
}

// Context bundles everything a reconciler needs for one step: the
// runtime capability, the active group, the document root (for resolving
// inject host paths), a logger, the shared resolved-ref tables, and the
// backtrack/finalize queues reconcilers append compensating actions to.
type Context struct {
	Runtime   Runtime
	Group     string
	RootDir   string
	Logger    *logger.Logger
	Resolved  *ResolvedTables
	Backtrack *ActionQueue
	Finalize  *ActionQueue
}

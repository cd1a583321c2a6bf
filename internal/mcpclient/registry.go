package mcpclient

import (
	"context"
	"sync"

	"mcpflow/internal/mcperr"
	"mcpflow/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// ToolCatalog is the immutable snapshot handed to the Planner: server-id
// to the list of tools that server advertised at last refresh.
type ToolCatalog map[string][]Tool

// ServerHealth is one entry of the aggregated health report.
type ServerHealth struct {
	ServerID string
	Healthy  bool
}

// Registry owns the server-id → *Connection map, guarded by a RWMutex so
// that add/remove and shutdown stay race-free. Get hands out the
// *Connection itself; a Connection obtained that way is closed by a later
// Remove or Shutdown.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Connection
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Connection)}
}

// Start dials every enabled descriptor concurrently. A descriptor that
// fails to dial is logged and omitted from the registry; it does not
// abort startup for the others.
func (r *Registry) Start(ctx context.Context, descriptors []ServerDescriptor) {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		got = make(map[string]*Connection)
	)

	for _, d := range descriptors {
		if !d.Enabled {
			continue
		}
		d := d
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := Dial(ctx, d)
			if err != nil {
				logging.Error("mcpclient.registry", "dial %s failed, omitting from registry: %v", d.ID, err)
				return
			}
			mu.Lock()
			got[d.ID] = conn
			mu.Unlock()
		}()
	}
	wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, conn := range got {
		r.conns[id] = conn
	}
}

// Add dials descriptor and inserts it under descriptor.ID. It fails if
// the id is already present.
func (r *Registry) Add(ctx context.Context, descriptor ServerDescriptor) error {
	r.mu.Lock()
	if _, exists := r.conns[descriptor.ID]; exists {
		r.mu.Unlock()
		return mcperr.New(mcperr.KindInvalidRequest, "server id already registered: "+descriptor.ID)
	}
	r.mu.Unlock()

	conn, err := Dial(ctx, descriptor)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.conns[descriptor.ID]; exists {
		_ = conn.Close()
		return mcperr.New(mcperr.KindInvalidRequest, "server id already registered: "+descriptor.ID)
	}
	r.conns[descriptor.ID] = conn
	return nil
}

// Remove closes and forgets the connection for id, if present.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	conn, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
	}
	r.mu.Unlock()
	if !ok {
		return mcperr.New(mcperr.KindInvalidRequest, "unknown server id: "+id)
	}
	return conn.Close()
}

// Get returns the connection for id, if present.
func (r *Registry) Get(id string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[id]
	return conn, ok
}

// IDs returns the current set of registered server ids, in no particular
// order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	return ids
}

// snapshot copies the current map under the read lock so callers can
// iterate without holding it.
func (r *Registry) snapshot() map[string]*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*Connection, len(r.conns))
	for id, conn := range r.conns {
		out[id] = conn
	}
	return out
}

// AllTools fans out tools/list to every connection. A server that fails
// to answer reports an empty slice rather than failing the aggregate.
func (r *Registry) AllTools(ctx context.Context) ToolCatalog {
	conns := r.snapshot()
	catalog := make(ToolCatalog, len(conns))

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for id, conn := range conns {
		id, conn := id, conn
		g.Go(func() error {
			tools, err := conn.ListTools(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logging.Warn("mcpclient.registry", "tools/list on %s failed: %v", id, err)
				catalog[id] = nil
				return nil
			}
			catalog[id] = tools
			return nil
		})
	}
	_ = g.Wait()
	return catalog
}

// OverallHealth fans out a ping to every connection with per-connection
// isolation: one unhealthy server reports down, it does not fail the
// aggregate.
func (r *Registry) OverallHealth(ctx context.Context) []ServerHealth {
	conns := r.snapshot()
	results := make([]ServerHealth, 0, len(conns))

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for id, conn := range conns {
		id, conn := id, conn
		g.Go(func() error {
			healthy := conn.Ping(ctx)
			mu.Lock()
			results = append(results, ServerHealth{ServerID: id, Healthy: healthy})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// CallTool delegates to the named server's connection.
func (r *Registry) CallTool(ctx context.Context, serverID, name string, arguments map[string]any) (ToolResult, error) {
	conn, ok := r.Get(serverID)
	if !ok {
		return ToolResult{}, mcperr.New(mcperr.KindInvalidRequest, "unknown server id: "+serverID)
	}
	return conn.CallTool(ctx, name, arguments)
}

// Shutdown closes every connection and clears the map.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[string]*Connection)
	r.mu.Unlock()

	for id, conn := range conns {
		if err := conn.Close(); err != nil {
			logging.Warn("mcpclient.registry", "close %s: %v", id, err)
		}
	}
}

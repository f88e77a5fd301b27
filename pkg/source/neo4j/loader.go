package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/network"
)

const (
	nodesQuery = `MATCH (n:Node)
RETURN n.id AS id, n.name AS name, n.type AS type, n.status AS status,
       n.x AS x, n.y AS y, n.metrics AS metrics
ORDER BY coalesce(n.seq, 0), n.id`

	connectionsQuery = `MATCH (a:Node)-[r:FLOWS_TO]->(b:Node)
RETURN a.id AS from, b.id AS to, r.status AS status
ORDER BY coalesce(r.seq, 0), a.id, b.id`

	clearQuery = `MATCH (n:Node) DETACH DELETE n`

	saveNodesQuery = `UNWIND $nodes AS row
MERGE (n:Node {id: row.id})
SET n.name = row.name, n.type = row.type, n.status = row.status,
    n.x = row.x, n.y = row.y, n.metrics = row.metrics, n.seq = row.seq`

	saveConnectionsQuery = `UNWIND $connections AS row
MATCH (a:Node {id: row.from}), (b:Node {id: row.to})
CREATE (a)-[:FLOWS_TO {status: row.status, seq: row.seq}]->(b)`
)

// Loader reads and writes the network through a [Runner].
type Loader struct {
	Runner Runner
}

// NewLoader returns a loader over r.
func NewLoader(r Runner) *Loader {
	return &Loader{Runner: r}
}

// Load reads every node and FLOWS_TO relationship and validates the result.
// Relationships whose endpoints are not :Node nodes never match the query,
// so the returned connections only reference loaded nodes.
func (l *Loader) Load(ctx context.Context) ([]network.Node, []network.Connection, error) {
	nodeRes, err := l.Runner.Run(ctx, nodesQuery, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("load nodes: %w", err)
	}
	nodes := make([]network.Node, 0, len(nodeRes.Records))
	for i, rec := range nodeRes.Records {
		n, err := nodeFromRecord(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("node record %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}

	connRes, err := l.Runner.Run(ctx, connectionsQuery, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("load connections: %w", err)
	}
	conns := make([]network.Connection, 0, len(connRes.Records))
	for i, rec := range connRes.Records {
		c, err := connectionFromRecord(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("connection record %d: %w", i, err)
		}
		conns = append(conns, c)
	}

	if err := network.ValidateNetwork(nodes, conns); err != nil {
		return nil, nil, err
	}
	return nodes, conns, nil
}

// Save replaces the stored network with nodes and conns. Order is kept in a
// seq property so Load returns the same sequence.
func (l *Loader) Save(ctx context.Context, nodes []network.Node, conns []network.Connection) error {
	if err := network.ValidateNetwork(nodes, conns); err != nil {
		return err
	}

	nodeRows := make([]map[string]any, len(nodes))
	for i, n := range nodes {
		metrics := make([]string, len(n.Metrics))
		for j, m := range n.Metrics {
			metrics[j] = m.String()
		}
		nodeRows[i] = map[string]any{
			"id":      n.ID,
			"name":    n.Name,
			"type":    string(n.Type),
			"status":  string(n.Status),
			"x":       n.Position.X,
			"y":       n.Position.Y,
			"metrics": metrics,
			"seq":     i,
		}
	}
	connRows := make([]map[string]any, len(conns))
	for i, c := range conns {
		connRows[i] = map[string]any{
			"from":   c.From,
			"to":     c.To,
			"status": string(c.Status),
			"seq":    i,
		}
	}

	if _, err := l.Runner.Run(ctx, clearQuery, nil); err != nil {
		return fmt.Errorf("clear network: %w", err)
	}
	if _, err := l.Runner.Run(ctx, saveNodesQuery, map[string]any{"nodes": nodeRows}); err != nil {
		return fmt.Errorf("save nodes: %w", err)
	}
	if _, err := l.Runner.Run(ctx, saveConnectionsQuery, map[string]any{"connections": connRows}); err != nil {
		return fmt.Errorf("save connections: %w", err)
	}
	return nil
}

func nodeFromRecord(rec *neo4j.Record) (network.Node, error) {
	id, err := str(rec, "id", true)
	if err != nil {
		return network.Node{}, err
	}
	name, _ := str(rec, "name", false)
	typ, err := str(rec, "type", true)
	if err != nil {
		return network.Node{}, err
	}
	status, err := str(rec, "status", false)
	if err != nil {
		return network.Node{}, err
	}
	if status == "" {
		status = string(network.Normal)
	}

	nodeType, err := network.ParseNodeType(typ)
	if err != nil {
		return network.Node{}, fmt.Errorf("node %s: %w", id, err)
	}
	st, err := network.ParseStatus(status)
	if err != nil {
		return network.Node{}, fmt.Errorf("node %s: %w", id, err)
	}
	x, err := num(rec, "x")
	if err != nil {
		return network.Node{}, err
	}
	y, err := num(rec, "y")
	if err != nil {
		return network.Node{}, err
	}

	n := network.Node{
		ID:       id,
		Name:     name,
		Type:     nodeType,
		Status:   st,
		Position: network.Point{X: x, Y: y},
	}
	if raw, ok := rec.Get("metrics"); ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return network.Node{}, apperrors.New(apperrors.ErrCodeInvalidFormat, "node %s: metrics must be a list", id)
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if m, ok := network.ParseMetric(s); ok {
				n.Metrics = append(n.Metrics, m)
			}
		}
	}
	return n, nil
}

func connectionFromRecord(rec *neo4j.Record) (network.Connection, error) {
	from, err := str(rec, "from", true)
	if err != nil {
		return network.Connection{}, err
	}
	to, err := str(rec, "to", true)
	if err != nil {
		return network.Connection{}, err
	}
	status, err := str(rec, "status", false)
	if err != nil {
		return network.Connection{}, err
	}
	if status == "" {
		status = string(network.Normal)
	}
	st, err := network.ParseStatus(status)
	if err != nil {
		return network.Connection{}, fmt.Errorf("connection %s→%s: %w", from, to, err)
	}
	return network.Connection{From: from, To: to, Status: st}, nil
}

// str reads a string column. A missing or null column is "" unless required.
func str(rec *neo4j.Record, key string, required bool) (string, error) {
	raw, ok := rec.Get(key)
	if !ok || raw == nil {
		if required {
			return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "missing %s", key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "%s is %T, want string", key, raw)
	}
	if required && s == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "empty %s", key)
	}
	return s, nil
}

// num reads a numeric column; Neo4j returns integers as int64.
func num(rec *neo4j.Record, key string) (float64, error) {
	raw, ok := rec.Get(key)
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	default:
		return 0, apperrors.New(apperrors.ErrCodeInvalidFormat, "%s is %T, want number", key, raw)
	}
}

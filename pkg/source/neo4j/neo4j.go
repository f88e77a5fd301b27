// Package neo4j loads and stores the supply-chain network in a Neo4j graph.
//
// Nodes are stored as (:Node {id, name, type, status, x, y, metrics}) where
// metrics is a list of "Label=Value" strings, since Neo4j properties cannot
// hold maps. Connections are [:FLOWS_TO {status}] relationships.
package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/retailreboot/retailreboot/pkg/retry"
)

// Runner executes a Cypher query and returns the fully buffered result.
// [Executor] is the production implementation; tests supply fakes.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// Executor runs queries through the official driver against one database.
type Executor struct {
	Driver neo4j.DriverWithContext
	DBName string
}

// NewExecutor creates a driver with basic auth. It does not connect; call
// [Executor.Verify] to check connectivity.
func NewExecutor(uri, user, password, dbName string) (*Executor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	return &Executor{Driver: driver, DBName: dbName}, nil
}

// Verify checks that the server is reachable with the given credentials.
// Connectivity errors are retried with backoff, since a freshly started
// server refuses connections for a few seconds.
func (e *Executor) Verify(ctx context.Context) error {
	return retry.WithBackoff(ctx, func() error {
		err := e.Driver.VerifyConnectivity(ctx)
		if neo4j.IsConnectivityError(err) {
			return retry.Transient(err)
		}
		return err
	})
}

// Run executes query with ExecuteQuery, which manages the session and
// transaction.
func (e *Executor) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, e.Driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.DBName))
	if err != nil {
		return nil, fmt.Errorf("neo4j query: %w", err)
	}
	return result, nil
}

// Close closes the driver.
func (e *Executor) Close(ctx context.Context) error {
	return e.Driver.Close(ctx)
}

var _ Runner = (*Executor)(nil)

package cli

import (
	"context"
	"fmt"

	"github.com/retailreboot/retailreboot/pkg/config"
	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/network"
	neo4jsrc "github.com/retailreboot/retailreboot/pkg/source/neo4j"
)

// openNeo4j connects to the database named in the [neo4j] config section.
func (c *CLI) openNeo4j(ctx context.Context, cfg config.Config) (*neo4jsrc.Executor, error) {
	if !cfg.Neo4j.Enabled() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			"neo4j is not configured (set [neo4j] uri in the config file)")
	}
	exec, err := neo4jsrc.NewExecutor(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		return nil, err
	}
	if err := exec.Verify(ctx); err != nil {
		_ = exec.Close(ctx)
		return nil, fmt.Errorf("connect to neo4j at %s: %w", cfg.Neo4j.URI, err)
	}
	c.Logger.Debug("Connected to neo4j", "uri", cfg.Neo4j.URI, "database", cfg.Neo4j.Database)
	return exec, nil
}

// loadNetwork returns the unfiltered network from Neo4j or from the dataset.
func (c *CLI) loadNetwork(ctx context.Context, cfg config.Config, fromNeo4j bool) ([]network.Node, []network.Connection, error) {
	if !fromNeo4j {
		d, err := c.loadDataset(cfg)
		if err != nil {
			return nil, nil, err
		}
		return d.Network.Nodes, d.Network.Connections, nil
	}

	exec, err := c.openNeo4j(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	defer exec.Close(ctx)

	nodes, conns, err := neo4jsrc.NewLoader(exec).Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load network from neo4j: %w", err)
	}
	c.Logger.Debugf("Loaded %d nodes and %d connections from neo4j", len(nodes), len(conns))
	return nodes, conns, nil
}

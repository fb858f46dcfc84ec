// Package graph queries the friends graph kept in RedisGraph.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Doer is the slice of the go-redis client the graph client needs.
type Doer interface {
	Do(ctx context.Context, args ...any) *redis.Cmd
}

type Client struct {
	rdb   Doer
	graph string
}

func New(rdb Doer, graph string) *Client {
	return &Client{rdb: rdb, graph: graph}
}

const friendsQuery = `MATCH (:User { name: $user }) -[r:friends]- (u:User) RETURN u.name as name`

// Friends returns the usernames linked to username by a friends edge.
func (c *Client) Friends(ctx context.Context, username string) ([]string, error) {
	rows, err := c.ReadOnlyQuery(ctx, friendsQuery, map[string]string{"user": username})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row["name"].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// ReadOnlyQuery runs GRAPH.RO_QUERY and returns rows keyed by column.
func (c *Client) ReadOnlyQuery(ctx context.Context, query string, params map[string]string) ([]map[string]any, error) {
	reply, err := c.rdb.Do(ctx, "GRAPH.RO_QUERY", c.graph, withParams(query, params)).Slice()
	if err != nil {
		return nil, err
	}
	return parseReply(reply)
}

// withParams prepends the CYPHER parameter header, keys sorted so the
// query text is stable.
func withParams(query string, params map[string]string) string {
	if len(params) == 0 {
		return query
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("CYPHER")
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, strconv.Quote(params[k]))
	}
	b.WriteByte(' ')
	b.WriteString(query)
	return b.String()
}

var errMalformedReply = errors.New("graph: malformed reply")

// parseReply decodes [header, rows, stats]. A reply with only stats has
// no result set.
func parseReply(reply []any) ([]map[string]any, error) {
	if len(reply) < 3 {
		return nil, nil
	}

	header, ok := reply[0].([]any)
	if !ok {
		return nil, errMalformedReply
	}

	columns := make([]string, len(header))
	for i, h := range header {
		switch col := h.(type) {
		case string:
			columns[i] = col
		case []any:
			// compact form: [type, name]
			if len(col) != 2 {
				return nil, errMalformedReply
			}
			name, ok := col[1].(string)
			if !ok {
				return nil, errMalformedReply
			}
			columns[i] = name
		default:
			return nil, errMalformedReply
		}
	}

	rawRows, ok := reply[1].([]any)
	if !ok {
		return nil, errMalformedReply
	}

	rows := make([]map[string]any, 0, len(rawRows))
	for _, r := range rawRows {
		values, ok := r.([]any)
		if !ok || len(values) != len(columns) {
			return nil, errMalformedReply
		}
		row := make(map[string]any, len(columns))
		for i, v := range values {
			row[columns[i]] = v
		}
		rows = append(rows, row)
	}

	return rows, nil
}

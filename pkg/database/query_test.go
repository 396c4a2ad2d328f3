package database

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/stormquery/pkg/mapper"
)

// recordingExecutor, çağrıları kaydeden ve sabit satırlar döndüren sahte Executor.
type recordingExecutor struct {
	rows   []mapper.Row
	err    error
	calls  int
	query  string
	params []any
}

func (r *recordingExecutor) Execute(_ context.Context, query string, params []any) ([]mapper.Row, error) {
	r.calls++
	r.query = query
	r.params = params
	return r.rows, r.err
}

func customerMap() *mapper.Map {
	return mapper.From(mapper.Cols("customer_id", "id", "customer_name", "name"))
}

func ordersMap() *mapper.Map {
	return mapper.Many("orders", mapper.Cols("order_id", "id"))
}

type testCustomer struct {
	ID     int64
	Name   string
	Orders []*testOrder
}

func (c *testCustomer) SetField(p string, v any) error {
	switch p {
	case "id":
		c.ID = mapper.Int64(v)
	case "name":
		c.Name = mapper.String(v)
	default:
		return mapper.UnknownProperty(c, p)
	}
	return nil
}

func (c *testCustomer) SetOne(p string, _ mapper.Entity) error { return mapper.UnknownProperty(c, p) }

func (c *testCustomer) AddMany(p string, e mapper.Entity) error {
	if p != "orders" {
		return mapper.UnknownProperty(c, p)
	}
	c.Orders = append(c.Orders, e.(*testOrder))
	return nil
}

type testOrder struct{ ID int64 }

func (o *testOrder) SetField(p string, v any) error {
	if p != "id" {
		return mapper.UnknownProperty(o, p)
	}
	o.ID = mapper.Int64(v)
	return nil
}

func (o *testOrder) SetOne(p string, _ mapper.Entity) error { return mapper.UnknownProperty(o, p) }

func (o *testOrder) AddMany(p string, _ mapper.Entity) error { return mapper.UnknownProperty(o, p) }

func TestQuery_StructuralErrorsNeverReachExecutor(t *testing.T) {
	tests := []struct {
		name  string
		build func(q *Queries) *Query
		want  error
	}{
		{
			name: "from without alias",
			build: func(q *Queries) *Query {
				return q.From("customers", customerMap()).
					LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap())
			},
			want: ErrAliasRequired,
		},
		{
			name: "join without alias",
			build: func(q *Queries) *Query {
				return q.From("customers c", customerMap()).
					LeftJoin("orders", "orders.customer_id", "c.customer_id", ordersMap())
			},
			want: ErrAliasRequired,
		},
		{
			name: "from without map",
			build: func(q *Queries) *Query {
				return q.From("customers c").
					LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap())
			},
			want: ErrMapRequired,
		},
		{
			name: "join without map",
			build: func(q *Queries) *Query {
				return q.From("customers c", customerMap()).
					LeftJoin("orders o", "o.customer_id", "c.customer_id", nil)
			},
			want: ErrMapRequired,
		},
		{
			name: "unknown parent",
			build: func(q *Queries) *Query {
				return q.From("customers c", customerMap()).
					LeftJoin("orders o", "o.customer_id", "x.customer_id", ordersMap())
			},
			want: ErrParentUnknown,
		},
		{
			name: "duplicate alias",
			build: func(q *Queries) *Query {
				return q.From("customers c", customerMap()).
					LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap()).
					LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap())
			},
			want: mapper.ErrInvalidTopology,
		},
		{
			name: "non-root map on from",
			build: func(q *Queries) *Query {
				return q.From("customers c", ordersMap())
			},
			want: ErrInvalidQuery,
		},
		{
			name: "from after joins",
			build: func(q *Queries) *Query {
				return q.From("customers c", customerMap()).
					LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap()).
					From("people p", mapper.From(mapper.Cols("person_id", "id")))
			},
			want: ErrInvalidQuery,
		},
		{
			name: "empty where column",
			build: func(q *Queries) *Query {
				return q.From("customers c", customerMap()).WhereOp("", "IN", []int{1, 2})
			},
			want: ErrInvalidQuery,
		},
		{
			name: "missing table",
			build: func(q *Queries) *Query {
				return q.Select("id")
			},
			want: ErrTableRequired,
		},
		{
			name: "invalid operator",
			build: func(q *Queries) *Query {
				return q.From("customers").WhereOp("id", "===", 1)
			},
			want: ErrInvalidOperator,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordingExecutor{}
			query := tt.build(New(exec))

			_, err := query.Find(context.Background())
			assert.ErrorIs(t, err, tt.want)
			_, err = query.FindAll(context.Background())
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidQuery)
			assert.Zero(t, exec.calls, "executor must not be called")
		})
	}
}

func TestQuery_FirstErrorWins(t *testing.T) {
	q := New(nil).From("customers", customerMap()).
		LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap()).
		LeftJoin("shippers", "shippers.id", "o.shipper_id", nil)
	require.Error(t, q.Err())
	assert.Contains(t, q.Err().Error(), `table "customers" needs an alias`)
	assert.Equal(t, "", q.SQL())
	assert.Nil(t, q.Parameters())
}

func TestQuery_DefaultSelect(t *testing.T) {
	q := New(nil).From("customers c", customerMap()).
		LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap()).
		Where("c.customer_id", 7)
	require.NoError(t, q.Err())
	assert.Equal(t, "SELECT c.customer_id, c.customer_name, o.order_id\n"+
		"FROM customers c\n"+
		"LEFT JOIN orders o ON o.customer_id = c.customer_id\n"+
		"WHERE c.customer_id = ?", q.SQL())
	assert.Equal(t, []any{7}, q.Parameters())

	assert.Equal(t, "SELECT *\nFROM customers", New(nil).From("customers").SQL())
	assert.Equal(t, "SELECT id\nFROM customers", New(nil).Select("id").From("customers").SQL())
}

func TestQuery_FindAllHydrates(t *testing.T) {
	exec := &recordingExecutor{rows: []mapper.Row{
		{"customer_id": int64(7), "customer_name": "Ann", "order_id": int64(1)},
		{"customer_id": int64(7), "customer_name": "Ann", "order_id": int64(2)},
		{"customer_id": int64(8), "customer_name": "Bob", "order_id": nil},
	}}
	all, err := New(exec, WithDialect("sqlsrv")).
		From("customers c", customerMap()).
		LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap()).
		OrderByAsc("c.customer_id").
		Limit(10).
		FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, exec.calls)
	assert.Contains(t, exec.query, "OFFSET 0 ROWS\nFETCH NEXT 10 ROWS ONLY")

	ann := all[0].(*mapper.Record)
	assert.Equal(t, "Ann", ann.String("name"))
	assert.Len(t, ann.Many("orders"), 2)
	bob := all[1].(*mapper.Record)
	assert.False(t, bob.Has("orders"))
}

func TestQuery_FindNotFound(t *testing.T) {
	exec := &recordingExecutor{}
	_, err := New(exec).From("customers c", customerMap()).Where("c.customer_id", 404).Find(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, exec.calls)

	all, err := New(exec).From("customers c", customerMap()).FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestQuery_ExecutorErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	exec := &recordingExecutor{err: boom}
	var buf bytes.Buffer

	_, err := New(exec, WithLogger(log.New(&buf, "", 0))).From("customers").Find(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "connection reset")
}

func TestFindAs_Typed(t *testing.T) {
	exec := &recordingExecutor{rows: []mapper.Row{
		{"customer_id": int64(7), "customer_name": "Ann", "order_id": int64(1)},
		{"customer_id": int64(7), "customer_name": "Ann", "order_id": int64(2)},
	}}
	q := New(exec).
		From("customers c", customerMap().Into(mapper.Type[testCustomer]())).
		LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap().Into(mapper.Type[testOrder]()))

	c, err := FindAs[*testCustomer](context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.Name)
	require.Len(t, c.Orders, 2)
	assert.Equal(t, int64(2), c.Orders[1].ID)

	all, err := FindAllAs[*testCustomer](context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = FindAs[*testOrder](context.Background(), q)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestQuery_JoinOnDerivesParent(t *testing.T) {
	q := New(nil).From("customers c", customerMap()).
		LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap()).
		JoinOn(LeftJoin, "shippers sh",
			NewCondition().WhereString("sh.shipper_id = o.shipper_id").WhereOp("sh.active", "=", 1),
			mapper.One("shipper", mapper.Cols("shipper_id", "id")))
	require.NoError(t, q.Err())

	nodes := q.Topology().Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "o", nodes[1].Parent)
	assert.Equal(t, []any{1}, q.Parameters())
	assert.Contains(t, q.SQL(), "LEFT JOIN shippers sh ON sh.shipper_id = o.shipper_id AND sh.active = ?")

	bad := New(nil).From("customers c", customerMap()).
		JoinOn(LeftJoin, "orders o", NewCondition().WhereString("o.customer_id = 7"), ordersMap())
	assert.ErrorIs(t, bad.Err(), ErrParentUnknown)

	empty := New(nil).From("customers c", customerMap()).JoinOn(LeftJoin, "orders o", nil, ordersMap())
	assert.ErrorIs(t, empty.Err(), ErrInvalidQuery)
}

func TestQuery_JoinSub(t *testing.T) {
	sub := NewSelectBuilder(nil).
		Select("customer_id", "count(*) AS order_count").
		From("orders").
		WhereOp("status", "!=", "cancelled").
		GroupBy("customer_id")

	q := New(nil).From("customers c", customerMap()).
		JoinSub(InnerJoin, sub, "oc", "oc.customer_id", "c.customer_id",
			mapper.One("stats", mapper.Cols("customer_id", "customer_id", "order_count", "count"))).
		Where("c.country", "DE")
	require.NoError(t, q.Err())
	assert.Equal(t, "SELECT c.customer_id, c.customer_name, oc.customer_id, oc.order_count\n"+
		"FROM customers c\n"+
		"INNER JOIN (SELECT customer_id, count(*) AS order_count\nFROM orders\nWHERE status != ?\nGROUP BY customer_id) oc ON oc.customer_id = c.customer_id\n"+
		"WHERE c.country = ?", q.SQL())
	assert.Equal(t, []any{"cancelled", "DE"}, q.Parameters())
}

func TestQuery_FromWithoutJoinsCanBeRepeated(t *testing.T) {
	q := New(nil).From("customers c", customerMap()).From("people p", mapper.From(mapper.Cols("person_id", "id")))
	require.NoError(t, q.Err())
	assert.Equal(t, "SELECT p.person_id\nFROM people p", q.SQL())
}

func TestQuery_RightJoinSkipsRowsWithoutRoot(t *testing.T) {
	exec := &recordingExecutor{rows: []mapper.Row{
		{"customer_id": int64(1), "customer_name": "Ann", "order_id": int64(10)},
		{"customer_id": nil, "customer_name": nil, "order_id": int64(11)},
		{"customer_id": int64(1), "customer_name": "Ann", "order_id": int64(12)},
	}}
	q := New(exec).From("customers c", customerMap()).
		RightJoin("orders o", "o.customer_id", "c.customer_id", ordersMap())
	require.NoError(t, q.Err())
	assert.Equal(t, "SELECT c.customer_id, c.customer_name, o.order_id\n"+
		"FROM customers c\n"+
		"RIGHT JOIN orders o ON o.customer_id = c.customer_id", q.SQL())

	all, err := q.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	orders := all[0].(*mapper.Record).Many("orders")
	require.Len(t, orders, 2)
	assert.Equal(t, int64(10), orders[0].Get("id"))
	assert.Equal(t, int64(12), orders[1].Get("id"))
}

func TestQuery_CrossJoinRejected(t *testing.T) {
	q := New(nil).From("customers c", customerMap()).
		JoinOn(CrossJoin, "regions r", NewCondition().WhereString("r.id = c.region_id"), mapper.One("region", mapper.Cols("region_id", "id")))
	assert.ErrorIs(t, q.Err(), ErrInvalidQuery)
}

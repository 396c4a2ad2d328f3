package querydef

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/stormquery/pkg/database"
	"github.com/biyonik/stormquery/pkg/dbtest"
	"github.com/biyonik/stormquery/pkg/mapper"
)

const customerOrders = `
name: customer_orders
from:
  table: customers c
  columns:
    customer_id: id
    customer_name: name
joins:
  - type: left
    table: orders o
    on: [o.customer_id, c.customer_id]
    kind: many
    property: orders
    columns:
      order_id: id
      order_date: date
  - type: inner
    table: shippers sh
    on: [sh.shipper_id, o.shipper_id]
    kind: one
    property: shipper
    columns: [shipper_id, shipper_name]
where:
  - column: c.country
    op: in
    value: [DE, FR]
  - raw: o.order_date >= ?
    params: ["2024-01-01"]
  - column: c.customer_id
    value: 7
    or: true
order_by:
  - column: o.order_id
    dir: desc
limit: 10
offset: 20
`

func TestParse_ColumnOrderIsPreserved(t *testing.T) {
	def, err := Parse([]byte(customerOrders))
	require.NoError(t, err)

	assert.Equal(t, "customer_orders", def.Name)
	assert.Equal(t, ColumnList{
		{Name: "customer_id", Property: "id"},
		{Name: "customer_name", Property: "name"},
	}, def.From.Columns)
	require.Len(t, def.Joins, 2)
	assert.Equal(t, ColumnList{
		{Name: "shipper_id", Property: "shipper_id"},
		{Name: "shipper_name", Property: "shipper_name"},
	}, def.Joins[1].Columns)
}

func TestDefinition_Build(t *testing.T) {
	def, err := Parse([]byte(customerOrders))
	require.NoError(t, err)

	q := def.Build(database.New(nil))
	require.NoError(t, q.Err())
	assert.Equal(t, "SELECT c.customer_id, c.customer_name, o.order_id, o.order_date, sh.shipper_id, sh.shipper_name\n"+
		"FROM customers c\n"+
		"LEFT JOIN orders o ON o.customer_id = c.customer_id\n"+
		"INNER JOIN shippers sh ON sh.shipper_id = o.shipper_id\n"+
		"WHERE c.country IN (?, ?) AND o.order_date >= ? OR c.customer_id = ?\n"+
		"ORDER BY o.order_id DESC\n"+
		"OFFSET 20\n"+
		"LIMIT 10", q.SQL())
	assert.Equal(t, []any{"DE", "FR", "2024-01-01", 7}, q.Parameters())

	nodes := q.Topology().Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "o", nodes[1].Parent)
	assert.Equal(t, mapper.KindOne, nodes[1].Map.Kind())
}

func TestDefinition_DialectOverride(t *testing.T) {
	def, err := Parse([]byte(`
dialect: sqlsrv
select: [country, count(*) AS n]
from:
  table: customers
group_by: [country]
having:
  - column: count(*)
    op: ">"
    value: 1
limit: 5
`))
	require.NoError(t, err)

	queries := database.New(nil)
	q := def.Build(queries)
	assert.Equal(t, "SELECT country, count(*) AS n\n"+
		"FROM customers\n"+
		"GROUP BY country\n"+
		"HAVING count(*) > ?\n"+
		"OFFSET 0 ROWS\n"+
		"FETCH NEXT 5 ROWS ONLY", q.SQL())
	assert.Equal(t, []any{1}, q.Parameters())

	// Queries'in kendi lehçesi değişmez.
	assert.Equal(t, "SELECT *\nFROM customers\nLIMIT 5", queries.From("customers").Limit(5).SQL())
}

func TestDefinition_StructuralErrorsSurfaceOnBuild(t *testing.T) {
	def, err := Parse([]byte(`
from:
  table: customers
  columns: {customer_id: id}
joins:
  - table: orders o
    on: [o.customer_id, customers.customer_id]
    kind: many
    property: orders
    columns: {order_id: id}
`))
	require.NoError(t, err)
	assert.ErrorIs(t, def.Build(database.New(nil)).Err(), database.ErrAliasRequired)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing table", "limit: 1\n", "from.table is required"},
		{"unknown field", "from: {table: t}\nwherre: []\n", "field wherre not found"},
		{"bad join type", "from: {table: t a}\njoins: [{type: full, table: u b, on: [b.id, a.id]}]\n", "unsupported join type"},
		{"bad join kind", "from: {table: t a}\njoins: [{table: u b, on: [b.id, a.id], kind: few}]\n", "unknown kind"},
		{"short on", "from: {table: t a}\njoins: [{table: u b, on: [b.id]}]\n", "on needs two columns"},
		{"bad direction", "from: {table: t}\norder_by: [{column: id, dir: up}]\n", "unknown direction"},
		{"negative limit", "from: {table: t}\nlimit: -1\n", "limit must not be negative"},
		{"nested columns", "from: {table: t, columns: {id: [a]}}\n", "column mapping must be scalar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customerOrders), 0o600))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, def.Where, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading query definition")
}

func TestDefinition_RunsAgainstSQLite(t *testing.T) {
	db := dbtest.RefreshDatabase(t, "", dbtest.ShopSchema()...)

	def, err := Parse([]byte(`
from:
  table: customers c
  columns: {customer_id: id, customer_name: name}
joins:
  - table: orders o
    on: [o.customer_id, c.customer_id]
    kind: many
    property: orders
    columns: {order_id: id}
  - table: shippers sh
    on: [sh.shipper_id, o.shipper_id]
    kind: one
    property: shipper
    columns: {shipper_id: id, shipper_name: name}
where:
  - column: c.country
    op: "!="
    value: UK
order_by:
  - column: c.customer_id
  - column: o.order_id
`))
	require.NoError(t, err)

	all, err := def.Build(database.New(database.NewConn(db, database.DriverSQLite))).FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	alfreds := all[0].(*mapper.Record)
	orders := alfreds.Many("orders")
	require.Len(t, orders, 2)
	assert.Equal(t, "Speedy Express", orders[0].One("shipper").String("name"))
	assert.False(t, orders[1].Has("shipper"))
}

package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/stormquery/pkg/mapper"
)

// -----------------------------------------------------------------------------
// Uçtan uca testler: modernc.org/sqlite üzerinde gerçek JOIN'ler ve hidrasyon.
// -----------------------------------------------------------------------------

var fixtureSchema = []string{
	`CREATE TABLE customers (customer_id INTEGER PRIMARY KEY, customer_name TEXT NOT NULL, country TEXT)`,
	`CREATE TABLE shippers (shipper_id INTEGER PRIMARY KEY, shipper_name TEXT NOT NULL)`,
	`CREATE TABLE orders (order_id INTEGER PRIMARY KEY, customer_id INTEGER NOT NULL, shipper_id INTEGER)`,
	`CREATE TABLE products (product_id INTEGER PRIMARY KEY, product_name TEXT NOT NULL, price REAL NOT NULL)`,
	`CREATE TABLE order_details (order_detail_id INTEGER PRIMARY KEY, order_id INTEGER NOT NULL, product_id INTEGER NOT NULL, quantity INTEGER NOT NULL)`,
	`CREATE TABLE tags (tag_id INTEGER PRIMARY KEY, name TEXT NOT NULL)`,
	`CREATE TABLE products_tags (product_id INTEGER NOT NULL, tag_id INTEGER NOT NULL)`,

	`INSERT INTO customers VALUES (7, 'Blondel père et fils', 'France'), (8, 'Ana Trujillo', 'Mexico'), (9, 'Lonely Shop', 'Peru')`,
	`INSERT INTO shippers VALUES (1, 'Speedy Express'), (2, 'United Package')`,
	`INSERT INTO orders VALUES (10436, 7, 2), (10437, 7, NULL), (10500, 8, 1)`,
	`INSERT INTO products VALUES (45, 'Spegesild', 12.0), (46, 'Chai', 18.0), (47, 'Tofu', 23.25)`,
	`INSERT INTO order_details VALUES (497, 10436, 45, 5), (498, 10436, 46, 10), (499, 10500, 47, 2)`,
	`INSERT INTO tags VALUES (1, 'cheap'), (2, 'premium'), (3, 'organic')`,
	`INSERT INTO products_tags VALUES (45, 1), (46, 2), (46, 3)`,
}

func openFixture(t *testing.T) *sql.DB {
	t.Helper()
	cfg := DefaultDBConfig()
	cfg.Driver = DriverSQLite
	cfg.DSN = ":memory:"
	// :memory: veritabanı bağlantıya özeldir; tek bağlantıda tutulur.
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1

	db, err := Connect(cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range fixtureSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return db
}

func TestSQLite_AllJoinKindsInOneQuery(t *testing.T) {
	db := openFixture(t)
	q := New(NewConn(db, DriverSQLite))

	found, err := q.From("customers c", mapper.From(mapper.Cols("customer_id", "id", "customer_name", "name"))).
		LeftJoin("orders o", "o.customer_id", "c.customer_id", mapper.Many("orders", mapper.Cols("order_id", "id"))).
		LeftJoin("shippers sh", "sh.shipper_id", "o.shipper_id", mapper.One("shipper", mapper.Cols("shipper_id", "id", "shipper_name", "name"))).
		LeftJoin("order_details od", "od.order_id", "o.order_id", mapper.Many("details", mapper.Cols("order_detail_id", "id", "quantity", "quantity"))).
		LeftJoin("products p", "p.product_id", "od.product_id", mapper.One("product", mapper.Cols("product_id", "id", "product_name", "name", "price", "price"))).
		LeftJoin("products_tags pt", "pt.product_id", "p.product_id", mapper.Join()).
		LeftJoin("tags t", "t.tag_id", "pt.tag_id", mapper.Many("tags", mapper.Cols("tag_id", "id", "name", "name"))).
		Where("c.customer_id", 7).
		OrderByAsc("o.order_id").
		OrderByAsc("od.order_detail_id").
		OrderByAsc("t.tag_id").
		Find(context.Background())
	require.NoError(t, err)

	customer := found.(*mapper.Record)
	assert.Equal(t, int64(7), customer.Int64("id"))
	assert.Equal(t, "Blondel père et fils", customer.String("name"))

	orders := customer.Many("orders")
	require.Len(t, orders, 2)
	assert.Equal(t, int64(10436), orders[0].Int64("id"))
	assert.Equal(t, "United Package", orders[0].One("shipper").String("name"))

	details := orders[0].Many("details")
	require.Len(t, details, 2)
	assert.Equal(t, int64(497), details[0].Int64("id"))
	assert.Equal(t, int64(5), details[0].Int64("quantity"))
	assert.Equal(t, "Spegesild", details[0].One("product").String("name"))

	tags := details[0].One("product").Many("tags")
	require.Len(t, tags, 1)
	assert.Equal(t, "cheap", tags[0].String("name"))
	assert.Len(t, details[1].One("product").Many("tags"), 2)

	// sevkiyatsız ve detaysız sipariş
	assert.False(t, orders[1].Has("shipper"))
	assert.False(t, orders[1].Has("details"))
}

func TestSQLite_ManyToMany(t *testing.T) {
	db := openFixture(t)
	q := New(NewConn(db, DriverSQLite))

	products, err := q.From("products p", mapper.From(mapper.Cols("product_id", "id", "product_name", "name"))).
		LeftJoin("products_tags pt", "pt.product_id", "p.product_id", mapper.Join()).
		LeftJoin("tags t", "t.tag_id", "pt.tag_id", mapper.Many("tags", mapper.Cols("tag_id", "id", "name", "name"))).
		WhereOp("p.product_id", "in", []int{45, 46, 47, 48}).
		OrderByAsc("p.product_id").
		OrderByAsc("t.tag_id").
		FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	chai := products[1].(*mapper.Record)
	require.Len(t, chai.Many("tags"), 2)
	assert.Equal(t, "premium", chai.Many("tags")[0].String("name"))
	assert.False(t, products[2].(*mapper.Record).Has("tags"))
}

func TestSQLite_TypedFindAll(t *testing.T) {
	db := openFixture(t)
	q := New(NewConn(db, DriverSQLite)).
		From("customers c", customerMap().Into(mapper.Type[testCustomer]())).
		LeftJoin("orders o", "o.customer_id", "c.customer_id", ordersMap().Into(mapper.Type[testOrder]())).
		OrderByAsc("c.customer_id").
		OrderByAsc("o.order_id")

	customers, err := FindAllAs[*testCustomer](context.Background(), q)
	require.NoError(t, err)
	require.Len(t, customers, 3)
	assert.Len(t, customers[0].Orders, 2)
	assert.Len(t, customers[1].Orders, 1)
	assert.Empty(t, customers[2].Orders)
	assert.Equal(t, "Lonely Shop", customers[2].Name)
}

func TestSQLite_GroupByHavingAndLimit(t *testing.T) {
	db := openFixture(t)
	q := New(NewConn(db, DriverSQLite))

	rows, err := q.Select("o.customer_id", "count(*) AS n").
		From("orders o").
		GroupBy("o.customer_id").
		HavingOp("count(*)", ">", 1).
		Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 7, rows[0]["customer_id"])
	assert.EqualValues(t, 2, rows[0]["n"])

	all, err := q.Select("customer_id", "country").
		From("customers").
		WhereOp("country", "!=", "France").
		OrderByDesc("customer_id").
		Limit(1).
		FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	rec := all[0].(*mapper.Record)
	assert.Equal(t, []string{"country", "customer_id"}, rec.Keys())
	assert.Equal(t, "Peru", rec.String("country"))
}

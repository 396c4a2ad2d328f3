package database

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/stormquery/pkg/mapper"
)

// customerGraph, tüm join türlerini içeren müşteri sorgusunu kurar.
func customerGraph(q *Queries) *Query {
	return q.From("customers c", mapper.From(mapper.Cols("customer_id", "id", "customer_name", "name"))).
		LeftJoin("orders o", "o.customer_id", "c.customer_id", mapper.Many("orders", mapper.Cols("order_id", "id"))).
		LeftJoin("shippers sh", "sh.shipper_id", "o.shipper_id", mapper.One("shipper", mapper.Cols("shipper_id", "id", "shipper_name", "name"))).
		LeftJoin("order_details od", "od.order_id", "o.order_id", mapper.Many("details", mapper.Cols("order_detail_id", "id", "quantity", "quantity"))).
		LeftJoin("products p", "p.product_id", "od.product_id", mapper.One("product", mapper.Cols("product_id", "id", "product_name", "name", "price", "price"))).
		LeftJoin("products_tags pt", "pt.product_id", "p.product_id", mapper.Join()).
		LeftJoin("tags t", "t.tag_id", "pt.tag_id", mapper.Many("tags", mapper.Cols("tag_id", "id", "name", "name"))).
		Where("c.customer_id", 7).
		OrderByAsc("o.order_id")
}

func TestGoldenSQL(t *testing.T) {
	tests := []struct {
		name  string
		query func() *Query
	}{
		{
			name:  "customer_graph",
			query: func() *Query { return customerGraph(New(nil)) },
		},
		{
			name:  "customer_graph_sqlsrv",
			query: func() *Query { return customerGraph(New(nil, WithDialect("sqlsrv"))).Limit(5) },
		},
		{
			name: "group_by_having",
			query: func() *Query {
				return New(nil).
					Select("country", "city", "count(*)").
					From("customers").
					WhereOp("country", "NOT IN", []string{"Peru"}).
					GroupBy("country, city, count(*)").
					HavingOp("count(*)", ">=", 2).
					OrderByDesc("count(*)").
					Offset(10).
					Limit(5)
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := tt.query().Statement()
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(stmt.SQL()))
		})
	}
}

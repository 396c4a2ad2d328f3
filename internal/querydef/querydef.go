// -----------------------------------------------------------------------------
// Query Definitions
// -----------------------------------------------------------------------------
// Bu paket, stormq aracının çalıştırdığı YAML sorgu tanımlarını okur ve
// bunları database.Query'ye çevirir.
//
// Örnek tanım:
//
//	from:
//	  table: customers c
//	  columns:
//	    customer_id: id
//	    customer_name: name
//	joins:
//	  - type: left
//	    table: orders o
//	    on: [o.customer_id, c.customer_id]
//	    kind: many
//	    property: orders
//	    columns:
//	      order_id: id
//	where:
//	  - column: c.customer_id
//	    value: 7
//	order_by:
//	  - column: o.order_id
//	limit: 10
//
// columns eşlemesi dosyadaki sırayla okunur; ilk kolon identity kolonudur.
// -----------------------------------------------------------------------------

package querydef

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/biyonik/stormquery/pkg/database"
	"github.com/biyonik/stormquery/pkg/mapper"
)

// ErrInvalidDefinition, tanım dosyası anlamsal olarak geçersiz olduğunda döner.
var ErrInvalidDefinition = errors.New("querydef: invalid definition")

// Definition, tek bir sorgunun YAML tanımıdır.
type Definition struct {
	Name    string      `yaml:"name,omitempty"`
	Dialect string      `yaml:"dialect,omitempty"`
	Select  []string    `yaml:"select,omitempty"`
	From    Source      `yaml:"from"`
	Joins   []Join      `yaml:"joins,omitempty"`
	Where   []Condition `yaml:"where,omitempty"`
	GroupBy []string    `yaml:"group_by,omitempty"`
	Having  []Condition `yaml:"having,omitempty"`
	OrderBy []Order     `yaml:"order_by,omitempty"`
	Limit   *int        `yaml:"limit,omitempty"`
	Offset  *int        `yaml:"offset,omitempty"`
}

// Source, FROM tablosu ve kök kolon eşlemesidir. columns boşsa Map
// kullanılmaz ve sonuç satırları olduğu gibi Record'a dönüşür.
type Source struct {
	Table   string     `yaml:"table"`
	Columns ColumnList `yaml:"columns,omitempty"`
}

// Join, bir JOIN ve onun hidrasyon eşlemesidir.
type Join struct {
	Type     string     `yaml:"type"` // left, inner, right
	Table    string     `yaml:"table"`
	On       []string   `yaml:"on"`
	Kind     string     `yaml:"kind"` // one, many, join
	Property string     `yaml:"property,omitempty"`
	Columns  ColumnList `yaml:"columns,omitempty"`
}

// Condition, tek bir WHERE/HAVING koşuludur. Raw verilirse ham parça
// olarak eklenir; aksi halde column/op/value kullanılır.
type Condition struct {
	Column string `yaml:"column,omitempty"`
	Op     string `yaml:"op,omitempty"`
	Value  any    `yaml:"value,omitempty"`
	Raw    string `yaml:"raw,omitempty"`
	Params []any  `yaml:"params,omitempty"`
	Or     bool   `yaml:"or,omitempty"`
}

// Order, ORDER BY elemanıdır. Dir boşsa ASC kabul edilir.
type Order struct {
	Column string `yaml:"column"`
	Dir    string `yaml:"dir,omitempty"`
}

// ColumnList, YAML eşlemesindeki sırayı koruyan kolon listesidir.
type ColumnList mapper.Columns

// UnmarshalYAML implements yaml.Unmarshaler for ColumnList.
//
// Eşleme (kolon: property) veya kolon adlarının listesi kabul edilir;
// liste biçiminde property, kolon adının kendisidir.
func (c *ColumnList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		cols := make(ColumnList, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: column mapping must be scalar", k.Line)
			}
			cols = append(cols, mapper.Column{Name: k.Value, Property: v.Value})
		}
		*c = cols
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		cols := make(ColumnList, 0, len(names))
		for _, n := range names {
			cols = append(cols, mapper.Column{Name: n, Property: n})
		}
		*c = cols
		return nil
	default:
		return fmt.Errorf("line %d: expected mapping or list of columns", node.Line)
	}
}

// Parse, YAML içeriğinden Definition okur ve doğrular.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("parsing query definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Load, dosyadan Definition okur.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Validate, YAML'dan gelen serbest metin alanlarını kontrol eder. Yapısal
// kontroller (alias, parent) Build sırasında database paketinde yapılır.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.From.Table) == "" {
		return fmt.Errorf("%w: from.table is required", ErrInvalidDefinition)
	}
	for i, j := range d.Joins {
		if _, err := joinType(j.Type); err != nil {
			return fmt.Errorf("%w: joins[%d]: %w", ErrInvalidDefinition, i, err)
		}
		if len(j.On) != 2 || j.On[0] == "" || j.On[1] == "" {
			return fmt.Errorf("%w: joins[%d]: on needs two columns", ErrInvalidDefinition, i)
		}
		if _, err := j.mapping(); err != nil {
			return fmt.Errorf("%w: joins[%d]: %w", ErrInvalidDefinition, i, err)
		}
	}
	for _, o := range d.OrderBy {
		if _, err := direction(o.Dir); err != nil {
			return fmt.Errorf("%w: order_by %s: %w", ErrInvalidDefinition, o.Column, err)
		}
	}
	if d.Limit != nil && *d.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidDefinition)
	}
	if d.Offset != nil && *d.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", ErrInvalidDefinition)
	}
	return nil
}

// Build, tanımı verilen Queries üzerinde bir Query'ye çevirir. Tanımda
// dialect varsa Queries'in lehçesi yerine o kullanılır.
func (d *Definition) Build(q *database.Queries) *database.Query {
	if d.Dialect != "" {
		q = q.Dialect(d.Dialect)
	}

	var query *database.Query
	if len(d.From.Columns) > 0 {
		query = q.From(d.From.Table, mapper.From(mapper.Columns(d.From.Columns)))
	} else {
		query = q.From(d.From.Table)
	}
	if len(d.Select) > 0 {
		query.Select(d.Select...)
	}

	for _, j := range d.Joins {
		kind, _ := joinType(j.Type)
		m, _ := j.mapping()
		switch kind {
		case database.InnerJoin:
			query.InnerJoin(j.Table, j.On[0], j.On[1], m)
		case database.RightJoin:
			query.RightJoin(j.Table, j.On[0], j.On[1], m)
		default:
			query.LeftJoin(j.Table, j.On[0], j.On[1], m)
		}
	}

	for _, c := range d.Where {
		applyWhere(query, c)
	}
	if len(d.GroupBy) > 0 {
		query.GroupBy(d.GroupBy...)
	}
	for _, c := range d.Having {
		applyHaving(query, c)
	}
	for _, o := range d.OrderBy {
		dir, _ := direction(o.Dir)
		query.OrderBy(o.Column, dir)
	}
	if d.Limit != nil {
		query.Limit(*d.Limit)
	}
	if d.Offset != nil {
		query.Offset(*d.Offset)
	}
	return query
}

func applyWhere(q *database.Query, c Condition) {
	switch {
	case c.Raw != "" && c.Or:
		q.OrWhereString(c.Raw, c.Params...)
	case c.Raw != "":
		q.WhereString(c.Raw, c.Params...)
	case c.Or:
		q.OrWhereOp(c.Column, c.operator(), c.Value)
	default:
		q.WhereOp(c.Column, c.operator(), c.Value)
	}
}

func applyHaving(q *database.Query, c Condition) {
	switch {
	case c.Raw != "":
		q.HavingString(c.Raw, c.Params...)
	case c.Or:
		q.OrHavingOp(c.Column, c.operator(), c.Value)
	default:
		q.HavingOp(c.Column, c.operator(), c.Value)
	}
}

func (c Condition) operator() string {
	if c.Op == "" {
		return "="
	}
	return c.Op
}

func (j Join) mapping() (*mapper.Map, error) {
	cols := mapper.Columns(j.Columns)
	switch strings.ToLower(j.Kind) {
	case "one":
		return mapper.One(j.Property, cols), nil
	case "many":
		return mapper.Many(j.Property, cols), nil
	case "join", "":
		return mapper.Join(cols...), nil
	default:
		return nil, fmt.Errorf("unknown kind %q (one, many or join)", j.Kind)
	}
}

func joinType(s string) (database.JoinType, error) {
	switch strings.ToLower(s) {
	case "left", "":
		return database.LeftJoin, nil
	case "inner":
		return database.InnerJoin, nil
	case "right":
		return database.RightJoin, nil
	default:
		return "", fmt.Errorf("unsupported join type %q (left, inner or right)", s)
	}
}

func direction(s string) (database.OrderDirection, error) {
	switch strings.ToLower(s) {
	case "asc", "":
		return database.OrderAsc, nil
	case "desc":
		return database.OrderDesc, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

package mapper

import (
	"fmt"
	"strings"
)

// Node, topolojideki bir join girdisidir.
type Node struct {
	Alias  string // Join edilen tablonun alias'ı
	Parent string // Bağlandığı (daha önce tanımlanmış) alias
	Map    *Map
}

// Topology, kök tablo ve sıralı join'lerden oluşan hidrasyon ağacıdır.
// Statement composer'a bildirilen join topolojisinin aynısıdır.
type Topology struct {
	rootAlias string
	root      *Map
	nodes     []Node
	aliases   map[string]struct{}
}

// NewTopology, kök alias ve Map ile yeni bir topoloji oluşturur.
// Join olmayan sorgularda alias ve Map boş olabilir.
func NewTopology(rootAlias string, root *Map) *Topology {
	t := &Topology{
		rootAlias: rootAlias,
		root:      root,
		aliases:   make(map[string]struct{}),
	}
	if rootAlias != "" {
		t.aliases[rootAlias] = struct{}{}
	}
	return t
}

// RootAlias, kök tablonun alias'ını döndürür.
func (t *Topology) RootAlias() string { return t.rootAlias }

// Root, kök Map'i döndürür.
func (t *Topology) Root() *Map { return t.root }

// Nodes, join girdilerini bildirim sırasıyla döndürür.
func (t *Topology) Nodes() []Node {
	nodes := make([]Node, len(t.nodes))
	copy(nodes, t.nodes)
	return nodes
}

// Has, alias'ın topolojide tanımlı olup olmadığını bildirir.
func (t *Topology) Has(alias string) bool {
	_, ok := t.aliases[alias]
	return ok
}

// Add, topolojiye yeni bir join ekler.
//
// Kurallar:
//   - Kök tablonun alias'ı ve Map'i olmalıdır
//   - Alias boş olamaz ve tekrar edemez
//   - Parent daha önce tanımlanmış olmalıdır
//   - Map geçerli ve kök olmayan bir Map olmalıdır
func (t *Topology) Add(alias, parent string, m *Map) error {
	if t.rootAlias == "" {
		return fmt.Errorf("%w: root table requires an alias when joins exist", ErrInvalidTopology)
	}
	if t.root == nil {
		return fmt.Errorf("%w: root table requires a map when joins exist", ErrInvalidTopology)
	}
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return fmt.Errorf("%w: join requires an alias", ErrInvalidTopology)
	}
	if t.Has(alias) {
		return fmt.Errorf("%w: alias %q declared twice", ErrInvalidTopology, alias)
	}
	if !t.Has(parent) {
		return fmt.Errorf("%w: parent alias %q of %q is not declared", ErrInvalidTopology, parent, alias)
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if m.kind == KindRoot {
		return fmt.Errorf("%w: join %q cannot use a root map", ErrInvalidMap, alias)
	}
	t.nodes = append(t.nodes, Node{Alias: alias, Parent: parent, Map: m})
	t.aliases[alias] = struct{}{}
	return nil
}

// -----------------------------------------------------------------------------
// Mapping Definitions
// -----------------------------------------------------------------------------
// Bu dosya, bir tablonun kolonlarının hedef nesneye nasıl yansıtılacağını
// tanımlayan Map yapısını içerir. Her JOIN, tam olarak bir Map ile eşlenir.
//
// Dört tür ilişki vardır:
//   - Root: sorgunun ana varlığı (FROM tablosu)
//   - One:  tekil iç içe nesne (örn: order.shipper)
//   - Many: çoğul iç içe koleksiyon (örn: customer.orders)
//   - Join: sadece iki tabloyu bağlayan ara (pivot) tablo
//
// Kolon listesinin İLK elemanı her zaman identity kolonudur. Bu kolonun
// değeri, JOIN fan-out nedeniyle tekrar eden satırların tekilleştirilmesinde
// anahtar olarak kullanılır.
// -----------------------------------------------------------------------------

package mapper

import (
	"fmt"
	"strings"
)

// Kind, bir Map'in ilişki türünü temsil eder.
type Kind int

const (
	KindRoot Kind = iota
	KindOne
	KindMany
	KindJoin
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindOne:
		return "one"
	case KindMany:
		return "many"
	case KindJoin:
		return "join"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column, sonuç kümesindeki bir kolonun hedef property'ye eşlemesidir.
type Column struct {
	Name     string // Sonuç kümesindeki kolon alias'ı
	Property string // Hedef nesnedeki property adı
}

// Columns, sıralı kolon eşlemesidir. İlk eleman identity kolonudur.
type Columns []Column

// Cols, "kolon", "property" çiftlerinden Columns üretir.
//
// Örnek:
//
//	mapper.Cols("customer_id", "id", "customer_name", "name")
//
// Tek sayıda argüman programcı hatasıdır ve panic atar.
func Cols(pairs ...string) Columns {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("mapper: Cols requires column/property pairs, got %d arguments", len(pairs)))
	}
	cols := make(Columns, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		cols = append(cols, Column{Name: pairs[i], Property: pairs[i+1]})
	}
	return cols
}

// Identity, identity kolonunu döndürür. Kolon yoksa false döner.
func (c Columns) Identity() (Column, bool) {
	if len(c) == 0 {
		return Column{}, false
	}
	return c[0], true
}

// Map, bir tablonun hedef ilişkiye nasıl hidrate edileceğini tanımlar.
//
// Map değerleri sorgu başına bir kez oluşturulur ve render/hidrasyon
// başladıktan sonra değiştirilmemelidir.
type Map struct {
	kind     Kind
	property string
	columns  Columns
	factory  Factory
}

// From, kök varlık için Map oluşturur.
//
// Örnek:
//
//	mapper.From(mapper.Cols("customer_id", "id", "customer_name", "name"))
func From(columns Columns) *Map {
	return &Map{kind: KindRoot, columns: columns}
}

// One, tekil ilişki (örn: order.shipper) için Map oluşturur.
// Aynı identity'ye sahip tekrar eden satırlar aynı instance'ı üretir.
func One(property string, columns Columns) *Map {
	return &Map{kind: KindOne, property: property, columns: columns}
}

// Many, çoğul ilişki (örn: customer.orders) için Map oluşturur.
// Koleksiyon, identity'ye göre tekilleştirilir ve ilk görülme sırasını korur.
func Many(property string, columns Columns) *Map {
	return &Map{kind: KindMany, property: property, columns: columns}
}

// Join, kendi property'si olmayan ara (pivot) tablo için Map oluşturur.
//
// Kolon verilirse ilki identity kabul edilir; değeri NULL olan satırlarda
// bu join'in altındaki tüm join'ler atlanır.
//
// Örnek (many-to-many):
//
//	q.LeftJoin("products_tags pt", "pt.product_id", "p.product_id", mapper.Join()).
//	  LeftJoin("tags t", "t.tag_id", "pt.tag_id", mapper.Many("tags", tagCols))
func Join(columns ...Column) *Map {
	return &Map{kind: KindJoin, columns: Columns(columns)}
}

// Into, tipli hidrasyon için hedef tipi belirler. Factory verilmezse
// hidrator generic Record üretir.
//
// Örnek:
//
//	mapper.Many("orders", cols).Into(mapper.Type[Order]())
func (m *Map) Into(factory Factory) *Map {
	cp := *m
	cp.factory = factory
	return &cp
}

// Kind, ilişki türünü döndürür.
func (m *Map) Kind() Kind { return m.kind }

// Property, hedef property adını döndürür (root ve join için boş).
func (m *Map) Property() string { return m.property }

// Columns, kolon eşlemesinin bir kopyasını döndürür.
func (m *Map) Columns() Columns {
	cols := make(Columns, len(m.columns))
	copy(cols, m.columns)
	return cols
}

// Typed, Map'in tipli hidrasyon kullanıp kullanmadığını bildirir.
func (m *Map) Typed() bool { return m.factory != nil }

// Validate, Map'in yapısal olarak geçerli olup olmadığını kontrol eder.
func (m *Map) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: map is nil", ErrInvalidMap)
	}
	switch m.kind {
	case KindRoot:
		if len(m.columns) == 0 {
			return fmt.Errorf("%w: root map requires at least one column", ErrInvalidMap)
		}
	case KindOne, KindMany:
		if strings.TrimSpace(m.property) == "" {
			return fmt.Errorf("%w: %s map requires a property", ErrInvalidMap, m.kind)
		}
		if len(m.columns) == 0 {
			return fmt.Errorf("%w: %s map %q requires at least one column", ErrInvalidMap, m.kind, m.property)
		}
	case KindJoin:
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidMap, m.kind)
	}
	for _, col := range m.columns {
		if col.Name == "" || col.Property == "" {
			return fmt.Errorf("%w: empty column or property in %s map", ErrInvalidMap, m.kind)
		}
	}
	return nil
}

// newEntity, Map'e göre yeni bir varlık üretir.
func (m *Map) newEntity() Entity {
	if m.factory != nil {
		return m.factory()
	}
	return NewRecord()
}

package mapper

// -----------------------------------------------------------------------------
// ENTITY CAPABILITY
// -----------------------------------------------------------------------------
// Hidrator, hedef tipleri reflection ile örneklemek yerine Entity arayüzü
// üzerinden doldurur. Tipli hidrasyon isteyen her model bu arayüzü kendi
// property adlarına göre implement eder; tip verilmezse generic Record
// kullanılır. İki yol da aynı identity/dedup mantığını paylaşır.
// -----------------------------------------------------------------------------

// Entity, satır kolonlarından inşa edilebilen bir hedef nesnedir.
//
// Örnek implementasyon:
//
//	func (o *Order) SetField(p string, v any) error {
//	    switch p {
//	    case "id":
//	        o.ID = mapper.Int64(v)
//	        return nil
//	    }
//	    return mapper.UnknownProperty(o, p)
//	}
type Entity interface {
	// SetField, eşlenmiş bir kolon değerini property'ye atar.
	SetField(property string, value any) error

	// SetOne, tekil ilişkiyi atar. Aynı instance ile tekrar çağrılması
	// sonucu değiştirmemelidir.
	SetOne(property string, related Entity) error

	// AddMany, çoğul ilişkiye bir eleman ekler. Hidrator aynı identity'yi
	// aynı parent için yalnızca bir kez ekler.
	AddMany(property string, related Entity) error
}

// Factory, yeni ve boş bir Entity üretir.
type Factory func() Entity

// Type, *T Entity implement ettiği sürece T için bir Factory döndürür.
//
// Örnek:
//
//	mapper.From(cols).Into(mapper.Type[Customer]())
func Type[T any, PT interface {
	*T
	Entity
}]() Factory {
	return func() Entity {
		return PT(new(T))
	}
}

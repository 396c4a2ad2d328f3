package mapper

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMap, yapısal olarak hatalı Map tanımlarında döner.
	ErrInvalidMap = errors.New("mapper: invalid map")

	// ErrInvalidTopology, alias veya parent tanımı hatalı topolojilerde döner.
	ErrInvalidTopology = errors.New("mapper: invalid topology")

	// ErrMissingColumn, satırda Map'in beklediği bir kolon bulunmadığında döner.
	// Satır şekli ile tanımlanan eşleme uyuşmuyor demektir.
	ErrMissingColumn = errors.New("mapper: column missing from row")

	// ErrUnknownProperty, Entity bir property'yi tanımadığında döner.
	ErrUnknownProperty = errors.New("mapper: unknown property")
)

// UnknownProperty, Entity implementasyonları için standart hata üretir.
func UnknownProperty(entity any, property string) error {
	return fmt.Errorf("%w: %T has no property %q", ErrUnknownProperty, entity, property)
}

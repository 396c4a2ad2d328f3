// -----------------------------------------------------------------------------
// Hydrator
// -----------------------------------------------------------------------------
// JOIN'ler düz ve tekrar eden satırlar üretir: bir müşterinin 4 siparişi varsa
// müşteri kolonları 4 satırda tekrar eder. Hydrator bu satırları topoloji
// üzerinde yürüyerek tekilleştirilmiş, iç içe bir nesne grafiğine dönüştürür.
//
// Her satır için:
//  1. Kök identity okunur, (alias, identity) cache'te varsa aynı instance
//     kullanılır, yoksa yeni varlık üretilip cache'lenir. Kök identity
//     NULL ise satırın tamamı atlanır.
//  2. Join'ler bildirim sırasıyla yürünür. Identity NULL ise o join ve
//     altındaki tüm join'ler bu satır için atlanır.
//  3. Tekil ilişki idempotent olarak atanır, çoğul ilişkiye aynı identity
//     aynı parent için yalnızca bir kez eklenir.
//
// Cache tek bir Hydrate çağrısına aittir ve çağrı bitince atılır.
// -----------------------------------------------------------------------------

package mapper

import (
	"fmt"
	"sort"
)

// resolved, bir satırda bir alias için çözümlenen sahip varlıktır.
// Pass-through join'ler parent'ın sahibini devralır.
type resolved struct {
	owner Entity
	key   string
}

type hydration struct {
	topology *Topology
	entities map[string]Entity
	oneSet   map[string]string
	manySet  map[string]struct{}
	roots    []Entity
}

// Hydrate, satırları topolojiye göre kök varlık listesine dönüştürür.
// Kök varlıklar ilk görülme sırasıyla döner.
func Hydrate(t *Topology, rows []Row) ([]Entity, error) {
	if t.root == nil {
		if len(t.nodes) > 0 {
			return nil, fmt.Errorf("%w: root table requires a map when joins exist", ErrInvalidTopology)
		}
		return recordsOf(rows), nil
	}

	h := &hydration{
		topology: t,
		entities: make(map[string]Entity),
		oneSet:   make(map[string]string),
		manySet:  make(map[string]struct{}),
	}
	for i, row := range rows {
		if err := h.hydrateRow(row); err != nil {
			return nil, fmt.Errorf("mapper: row %d: %w", i, err)
		}
	}
	return h.roots, nil
}

// HydrateOne, ilk kök varlığı döndürür. Satır yoksa nil, nil döner.
func HydrateOne(t *Topology, rows []Row) (Entity, error) {
	roots, err := Hydrate(t, rows)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, nil
	}
	return roots[0], nil
}

func (h *hydration) hydrateRow(row Row) error {
	t := h.topology
	id, err := identityOf(t.root, row)
	if err != nil {
		return err
	}
	if id == nil {
		// Kök yok (örn: RIGHT JOIN eşleşmesiz satır); bağlanacak varlık yok.
		return nil
	}

	rootKey := cacheKey(t.rootAlias, id)
	root, created, err := h.resolve(rootKey, t.root, row)
	if err != nil {
		return fmt.Errorf("alias %q: %w", t.rootAlias, err)
	}
	if created {
		h.roots = append(h.roots, root)
	}

	current := map[string]resolved{
		t.rootAlias: {owner: root, key: rootKey},
	}

	for _, n := range t.nodes {
		parent, ok := current[n.Parent]
		if !ok {
			// Parent bu satırda yok (NULL identity) → alt ağaç atlanır.
			continue
		}

		if n.Map.kind == KindJoin {
			if len(n.Map.columns) > 0 {
				id, err := identityOf(n.Map, row)
				if err != nil {
					return fmt.Errorf("alias %q: %w", n.Alias, err)
				}
				if id == nil {
					continue
				}
			}
			current[n.Alias] = parent
			continue
		}

		id, err := identityOf(n.Map, row)
		if err != nil {
			return fmt.Errorf("alias %q: %w", n.Alias, err)
		}
		if id == nil {
			continue
		}

		key := cacheKey(n.Alias, id)
		child, _, err := h.resolve(key, n.Map, row)
		if err != nil {
			return fmt.Errorf("alias %q: %w", n.Alias, err)
		}
		if err := h.attach(parent, n.Map, key, child); err != nil {
			return fmt.Errorf("alias %q: %w", n.Alias, err)
		}
		current[n.Alias] = resolved{owner: child, key: key}
	}
	return nil
}

// resolve, cache'teki varlığı döndürür ya da satırdan yenisini üretir.
func (h *hydration) resolve(key string, m *Map, row Row) (Entity, bool, error) {
	if e, ok := h.entities[key]; ok {
		return e, false, nil
	}
	e := m.newEntity()
	for _, col := range m.columns {
		v, ok := row[col.Name]
		if !ok {
			return nil, false, fmt.Errorf("%w: %q", ErrMissingColumn, col.Name)
		}
		if err := e.SetField(col.Property, v); err != nil {
			return nil, false, err
		}
	}
	h.entities[key] = e
	return e, true, nil
}

func (h *hydration) attach(parent resolved, m *Map, childKey string, child Entity) error {
	slot := parent.key + "\x00" + m.property
	switch m.kind {
	case KindOne:
		if h.oneSet[slot] == childKey {
			return nil
		}
		if err := parent.owner.SetOne(m.property, child); err != nil {
			return err
		}
		h.oneSet[slot] = childKey
	case KindMany:
		entry := slot + "\x00" + childKey
		if _, ok := h.manySet[entry]; ok {
			return nil
		}
		if err := parent.owner.AddMany(m.property, child); err != nil {
			return err
		}
		h.manySet[entry] = struct{}{}
	}
	return nil
}

// identityOf, Map'in identity kolon değerini satırdan okur.
// Değer NULL ise nil döner.
func identityOf(m *Map, row Row) (*string, error) {
	col, ok := m.columns.Identity()
	if !ok {
		return nil, fmt.Errorf("%w: map has no identity column", ErrInvalidMap)
	}
	v, ok := row[col.Name]
	if !ok {
		return nil, fmt.Errorf("%w: identity %q", ErrMissingColumn, col.Name)
	}
	if v == nil {
		return nil, nil
	}
	key := identityKey(v)
	return &key, nil
}

func cacheKey(alias string, id *string) string {
	return alias + "\x00" + *id
}

// recordsOf, Map'siz sorgularda her satırı kolon adına göre sıralı bir
// Record'a çevirir. Tekilleştirme yapılmaz.
func recordsOf(rows []Row) []Entity {
	out := make([]Entity, 0, len(rows))
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rec := NewRecord()
		for _, k := range keys {
			rec.put(k, row[k])
		}
		out = append(out, rec)
	}
	return out
}

package database

import (
	"database/sql"

	"github.com/biyonik/stormquery/pkg/mapper"
)

// -----------------------------------------------------------------------------
// RESULT HELPERS
// -----------------------------------------------------------------------------
// SQL'den dönen sonuçları kolon adı → değer satırlarına çevirir. Bazı
// sürücüler (mysql) metin kolonlarını []byte döndürür; bunlar string'e
// çevrilir ki hydrator ve JSON çıktısı sürücüden bağımsız olsun.
// -----------------------------------------------------------------------------

// rowsToMaps, sql.Rows'ı []mapper.Row biçimine dönüştürür.
func rowsToMaps(rows *sql.Rows) ([]mapper.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := make([]mapper.Row, 0)

	for rows.Next() {
		columns := make([]any, len(cols))
		columnPointers := make([]any, len(cols))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		m := make(mapper.Row, len(cols))
		for i, colName := range cols {
			val := *(columnPointers[i].(*any))
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			m[colName] = val
		}

		res = append(res, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

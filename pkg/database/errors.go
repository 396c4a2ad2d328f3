package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// HATA TAKSONOMİSİ
// -----------------------------------------------------------------------------
// Yapısal hatalar (ErrInvalidQuery altındakiler) programcı hatasıdır ve
// sorgu veritabanına gönderilmeden önce döner. ErrNotFound, tekil sorgu
// hiç satır döndürmediğinde döner. Executor hataları olduğu gibi iletilir.
// -----------------------------------------------------------------------------

var (
	// ErrInvalidQuery, tüm yapısal yapılandırma hatalarının köküdür.
	ErrInvalidQuery = errors.New("database: invalid query")

	ErrTableRequired   = fmt.Errorf("%w: table required", ErrInvalidQuery)
	ErrAliasRequired   = fmt.Errorf("%w: alias required", ErrInvalidQuery)
	ErrMapRequired     = fmt.Errorf("%w: map required", ErrInvalidQuery)
	ErrParentUnknown   = fmt.Errorf("%w: join parent unknown", ErrInvalidQuery)
	ErrInvalidOperator = fmt.Errorf("%w: invalid operator", ErrInvalidQuery)

	// ErrNotFound, Find sıfır satır döndürdüğünde döner.
	// errors.Is(err, sql.ErrNoRows) de true döner.
	ErrNotFound = fmt.Errorf("database: record not found: %w", sql.ErrNoRows)
)

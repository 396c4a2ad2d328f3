package mapper

import (
	"fmt"
	"strconv"
	"time"
)

// Row, sürücüden dönen tek bir düz satırdır: kolon alias'ı → değer.
type Row map[string]any

// Int64, sürücüden gelen sayısal değeri int64'e çevirir.
// Çevrilemeyen değerler için 0 döner.
func Int64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return int64(n)
	case float64:
		return int64(n)
	case []byte:
		i, _ := strconv.ParseInt(string(n), 10, 64)
		return i
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	default:
		return 0
	}
}

// Float64, sürücüden gelen sayısal değeri float64'e çevirir.
func Float64(v any) float64 {
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	case []byte:
		f, _ := strconv.ParseFloat(string(n), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	case nil:
		return 0
	default:
		return float64(Int64(v))
	}
}

// String, sürücüden gelen değeri string'e çevirir. NULL için boş string döner.
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		return fmt.Sprint(s)
	}
}

// identityKey, identity değerini cache anahtarına normalize eder.
// Farklı genişlikteki tamsayılar ve []byte/string aynı anahtarı üretir.
func identityKey(v any) string {
	switch n := v.(type) {
	case []byte:
		return string(n)
	case string:
		return n
	case time.Time:
		return n.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(n)
	}
}

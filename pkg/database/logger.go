package database

import (
	"log"
	"os"
)

// DefaultLogger, logger verilmeyen bileşenlerin kullandığı stderr logger'ıdır.
func DefaultLogger() *log.Logger {
	return log.New(os.Stderr, "[stormquery] ", log.LstdFlags)
}

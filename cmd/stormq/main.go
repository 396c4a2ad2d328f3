// Package main, YAML sorgu tanımlarını render eden ve çalıştıran stormq
// komut satırı aracıdır.
//
// Kullanım:
//
//	stormq [--config stormq.yaml] <command>
//
// Komutlar:
//   - render: tanımdan üretilen SQL'i ve parametreleri yazdırır (veritabanı gerekmez)
//   - run:    sorguyu çalıştırır ve hidrate edilmiş sonucu JSON olarak yazdırır
//   - cache:  sorgu sonucu cache'ini temizler veya istatistiklerini gösterir
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// Package sqlite, go-dbal'ın SQLite giriş noktasıdır.
// mattn/go-sqlite3 sürücüsünü kaydeder ve kısıt hatalarını sınıflandıran
// yardımcılar sunar.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package sqlite

import (
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/biyonik/go-dbal"
)

// Open, verilen dosya yoluyla bir bağlantı açar. Bellek içi veritabanı için
// ":memory:" kullanılabilir.
//
// Örnek:
//
//	conn, err := sqlite.Open("file:app.db?_foreign_keys=on")
func Open(path string, opts ...dbal.Option) (*dbal.Connection, error) {
	return dbal.Connect("sqlite3", path, opts...)
}

// OpenMemory, testler ve geçici veriler için bellek içi bir veritabanı açar.
func OpenMemory(opts ...dbal.Option) (*dbal.Connection, error) {
	return Open(":memory:", opts...)
}

// Version, bağlı SQLite kütüphanesinin sürüm bilgisini döndürür.
func Version() string {
	version, _, _ := sqlite3.Version()
	return version
}

// IsConstraint, hatanın herhangi bir kısıt ihlalinden kaynaklanıp
// kaynaklanmadığını döndürür.
func IsConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}

// IsUniqueViolation, hatanın UNIQUE kısıt ihlalinden kaynaklanıp
// kaynaklanmadığını döndürür.
func IsUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

// IsBusy, veritabanının kilitli olduğu durumları yakalar. Eşzamanlı
// yazarlarda kısa bir bekleme sonrası yeniden denenebilir.
func IsBusy(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && (se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked)
}

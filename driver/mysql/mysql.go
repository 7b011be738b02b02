// Package mysql, go-dbal'ın MySQL/MariaDB giriş noktasıdır.
// go-sql-driver/mysql sürücüsünü kaydeder, DSN üretimini sürücünün kendi
// Config tipine devreder ve motor hatalarını sınıflandıran yardımcılar sunar.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package mysql

import (
	"errors"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/biyonik/go-dbal"
)

// MySQL sunucu hata kodları.
const (
	errDuplicateEntry = 1062
	errDeadlock       = 1213
	errLockWait       = 1205
)

// Open, sürücünün kendi Config tipiyle bir bağlantı açar. DSN kaçışları ve
// parametre sıralaması sürücüye bırakılır; elle DSN birleştirmeye göre daha
// güvenlidir.
//
// Örnek:
//
//	cfg := gomysql.NewConfig()
//	cfg.User = "app"
//	cfg.Passwd = "secret"
//	cfg.Net = "tcp"
//	cfg.Addr = "localhost:3306"
//	cfg.DBName = "shop"
//	conn, err := mysql.Open(cfg)
func Open(cfg *gomysql.Config, opts ...dbal.Option) (*dbal.Connection, error) {
	if cfg == nil {
		cfg = gomysql.NewConfig()
	}
	return dbal.Connect("mysql", cfg.FormatDSN(), opts...)
}

// OpenConfig, dbal.Config'i sürücü Config'ine çevirip bağlantı açar.
// Charset ve collation DSN parametresi olarak taşınır.
func OpenConfig(cfg *dbal.Config, opts ...dbal.Option) (*dbal.Connection, error) {
	if cfg == nil {
		cfg = dbal.DefaultConfig()
	}

	dc := gomysql.NewConfig()
	dc.User = cfg.Username
	dc.Passwd = cfg.Password
	dc.Net = "tcp"
	dc.Addr = cfg.Host + ":" + strconv.Itoa(cfg.Port)
	dc.DBName = cfg.Database
	dc.ParseTime = true
	if cfg.Charset != "" {
		dc.Params = map[string]string{"charset": cfg.Charset}
		if cfg.Collation != "" {
			dc.Collation = cfg.Collation
		}
	}
	if cfg.TLS {
		dc.TLSConfig = "true"
	}

	return Open(dc, opts...)
}

// IsDuplicateEntry, hatanın UNIQUE ihlalinden (1062) kaynaklanıp
// kaynaklanmadığını döndürür.
func IsDuplicateEntry(err error) bool {
	return hasNumber(err, errDuplicateEntry)
}

// IsDeadlock, hatanın deadlock (1213) veya kilit bekleme zaman aşımından
// (1205) kaynaklanıp kaynaklanmadığını döndürür. Bu hatalarda transaction'ın
// tamamı yeniden denenmelidir.
func IsDeadlock(err error) bool {
	return hasNumber(err, errDeadlock) || hasNumber(err, errLockWait)
}

// hasNumber, hata zincirinde verilen MySQL hata numarasını arar.
func hasNumber(err error, number uint16) bool {
	var me *gomysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

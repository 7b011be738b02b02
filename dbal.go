package dbal

import (
	"database/sql"

	"github.com/biyonik/go-dbal/platform"
)

//
// =====================================================================================
// 📚 GO-DBAL – GİRİŞ NOKTASI
// -------------------------------------------------------------------------------------
// Bu dosya, kütüphanenin kuruluş fonksiyonlarını içerir: Connect ile doğrudan
// DSN üzerinden, ConnectWithConfig ile Config üzerinden bağlantı açılır;
// New ile bağlantısız, yalnızca SQL üreten bir Builder alınır.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// Version, go-dbal kütüphanesinin mevcut sürümünü belirtir.
const Version = "0.1.0-alpha"

// Connect, verilen driver ve veri kaynağıyla yeni bir bağlantı oluşturur.
// Platform, driver adından çözümlenir; bağlantı Ping ile doğrulanır.
//
// Örnek:
//
//	conn, err := dbal.Connect("mysql", "user:pass@tcp(localhost:3306)/dbname")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
func Connect(driverName, dataSourceName string, opts ...Option) (*Connection, error) {
	p, err := platform.ByName(driverName)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, WrapError("connect", err)
	}

	// Bağlantıyı doğrula
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, WrapError("ping", err)
	}

	driver := NewSQLDriver(sqlDB, p.BeginTransactionSQL())
	return NewConnection(driver, p, opts...), nil
}

// ConnectWithConfig, Config yapısı kullanarak yeni bir bağlantı oluşturur.
// DSN'i üretir ve bağlantı havuz ayarlarını uygular.
//
// Örnek:
//
//	cfg := &dbal.Config{
//	    Driver:   "mysql",
//	    Host:     "localhost",
//	    Port:     3306,
//	    Database: "mydb",
//	    Username: "user",
//	    Password: "pass",
//	}
//	conn, err := dbal.ConnectWithConfig(cfg)
func ConnectWithConfig(cfg *Config, opts ...Option) (*Connection, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	p, err := platform.ByName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, WrapError("connect", err)
	}

	// Bağlantı havuz ayarlarını uygula
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLife)
	}
	if cfg.ConnMaxIdle > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, WrapError("ping", err)
	}

	driver := NewSQLDriver(sqlDB, p.BeginTransactionSQL())
	return NewConnection(driver, p, opts...), nil
}

// New, veritabanı bağlantısı olmadan yeni bir Builder oluşturur.
// SQL metni üretmek ve sorguyu yürütmeden hazırlamak için kullanılır.
//
// Örnek:
//
//	b := dbal.New(platform.MySQL())
//	sqlText, err := b.Select("id", "name").
//	    From("users", "u").
//	    Where("u.status = ?").
//	    SQL()
func New(p platform.Platform) *Builder {
	return NewBuilder(p)
}

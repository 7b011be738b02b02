package dbal

import (
	"context"
	"database/sql"
)

//
// =====================================================================================
// 📚 GO-DBAL – DRIVER BİRİMİ
// -------------------------------------------------------------------------------------
// Bu dosya, Connection'ın altındaki ham komut yüzeyini tanımlar. Driver, tek bir
// veritabanı oturumunu temsil eder ve transaction kontrol komutlarını (BEGIN,
// COMMIT, ROLLBACK, SAVEPOINT ...) düz SQL olarak yürütür.
//
// database/sql üzerinde transaction'lar normalde *sql.Tx ile yönetilir; ancak
// savepoint'li iç içe transaction'lar ve platforma özgü açılış komutları için
// komutların tek bir fiziksel bağlantıda, literal olarak çalışması gerekir.
// Bu yüzden sqlDriver havuzdan adanmış bir *sql.Conn oturumu ayırır ve tüm
// trafiği o oturumdan geçirir.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// Driver, tek bir veritabanı oturumunun komut yüzeyidir.
// Implementasyonlar goroutine-güvenli olmak zorunda değildir; eşzamanlılık
// üst katmanda (Connection) sağlanır.
type Driver interface {
	// Execute, sonuç kümesi dönmeyen bir cümle çalıştırır.
	Execute(ctx context.Context, query string, args []any) (sql.Result, error)

	// Query, sonuç kümesi dönen bir cümle çalıştırır.
	Query(ctx context.Context, query string, args []any) (*sql.Rows, error)

	// Begin, platformun transaction açma komutunu yürütür.
	Begin(ctx context.Context) error

	// Commit, açık transaction'ı kalıcılaştırır.
	Commit(ctx context.Context) error

	// Rollback, açık transaction'ı geri alır.
	Rollback(ctx context.Context) error

	// Close, oturumu ve altındaki kaynakları kapatır.
	Close() error
}

// sqlDriver, Driver arayüzünü database/sql üzerinde implemente eder.
// İlk kullanımda havuzdan bir oturum (*sql.Conn) ayrılır ve bağlantı
// kapanana kadar tüm komutlar o oturumda çalışır.
type sqlDriver struct {
	db       *sql.DB
	session  *sql.Conn
	beginSQL string
}

// NewSQLDriver, verilen havuz ve transaction açma komutuyla bir Driver oluşturur.
// beginSQL genellikle platform.BeginTransactionSQL() çıktısıdır.
func NewSQLDriver(db *sql.DB, beginSQL string) Driver {
	if beginSQL == "" {
		beginSQL = "BEGIN"
	}
	return &sqlDriver{db: db, beginSQL: beginSQL}
}

// acquire, adanmış oturumu döndürür; yoksa havuzdan ayırır.
func (d *sqlDriver) acquire(ctx context.Context) (*sql.Conn, error) {
	if d.db == nil {
		return nil, ErrConnectionClosed
	}
	if d.session == nil {
		session, err := d.db.Conn(ctx)
		if err != nil {
			return nil, WrapError("acquire session", err)
		}
		d.session = session
	}
	return d.session, nil
}

func (d *sqlDriver) Execute(ctx context.Context, query string, args []any) (sql.Result, error) {
	session, err := d.acquire(ctx)
	if err != nil {
		return nil, err
	}
	result, err := session.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, NewQueryError(err, query, args, "dbal: execute")
	}
	return result, nil
}

func (d *sqlDriver) Query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	session, err := d.acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := session.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewQueryError(err, query, args, "dbal: query")
	}
	return rows, nil
}

func (d *sqlDriver) Begin(ctx context.Context) error {
	_, err := d.Execute(ctx, d.beginSQL, nil)
	return err
}

func (d *sqlDriver) Commit(ctx context.Context) error {
	_, err := d.Execute(ctx, "COMMIT", nil)
	return err
}

func (d *sqlDriver) Rollback(ctx context.Context) error {
	_, err := d.Execute(ctx, "ROLLBACK", nil)
	return err
}

// Close, oturumu havuza iade eder ve havuzu kapatır.
func (d *sqlDriver) Close() error {
	var sessionErr error
	if d.session != nil {
		sessionErr = d.session.Close()
		d.session = nil
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			return WrapError("close pool", err)
		}
		d.db = nil
	}
	if sessionErr != nil {
		return WrapError("close session", sessionErr)
	}
	return nil
}

// Derleme zamanı kontratı.
var _ Driver = (*sqlDriver)(nil)

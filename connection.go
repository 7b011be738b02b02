package dbal

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/biyonik/go-dbal/platform"
)

//
// =====================================================================================
// 📚 GO-DBAL – CONNECTION BİRİMİ
// -------------------------------------------------------------------------------------
// Bu dosya, kütüphanenin dış yüzü olan Connection'ı içerir. Connection; sürücü,
// platform, ifade kurucusu, transaction yöneticisi, logger ve opsiyonel sonuç
// önbelleğini tek bir fasad altında birleştirir:
//
//   conn, err := mysql.Open(cfg)
//   stmt, err := conn.Query(ctx, "SELECT * FROM users WHERE id = ?", 1)
//   rows, err := stmt.FetchAll()
//
// Tüm sorgular parametre çözümlemesinden geçer: yer tutucular taranır, bağlı
// değerlerle eşleştirilir ve hedef motorun stiliyle yeniden yazılır. Ham SQL
// bile olsa hiçbir değer doğrudan metne gömülmez.
//
// Connection metotları mutex ile korunur; tek bir Connection birden çok
// goroutine'den çağrılabilir, ancak transaction akışları doğal olarak
// sıralı kullanım gerektirir.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// Connection, tek bir veritabanı oturumunun fasadıdır.
type Connection struct {
	driver   Driver
	platform platform.Platform
	expr     *ExpressionBuilder
	tx       *TxManager
	logger   Logger
	scanner  *DefaultScanner
	cache    ResultCache
	cacheTTL time.Duration
	debug    bool

	mu           sync.Mutex
	closed       bool
	lastInsertID int64
}

// NewConnection, verilen sürücü ve platform üzerinde bir Connection oluşturur.
// Davranış, fonksiyonel opsiyonlarla özelleştirilir.
func NewConnection(driver Driver, p platform.Platform, opts ...Option) *Connection {
	c := &Connection{
		driver:   driver,
		platform: p,
		expr:     NewExpressionBuilder(p),
		logger:   NopLogger{},
		scanner:  NewDefaultScanner(),
		cacheTTL: time.Minute,
	}
	c.tx = NewTxManager(driver, p, c.logger)

	applyOptions(c, opts)
	return c
}

// Platform, bağlantının lehçe implementasyonunu döndürür.
func (c *Connection) Platform() platform.Platform {
	return c.platform
}

// Driver, alttaki sürücüyü döndürür.
func (c *Connection) Driver() Driver {
	return c.driver
}

// Expr, paylaşılan ifade kurucusunu döndürür.
func (c *Connection) Expr() *ExpressionBuilder {
	return c.expr
}

// Builder, bu bağlantıya bağlı yeni bir SQL builder döndürür.
func (c *Connection) Builder() *Builder {
	b := NewBuilder(c.platform)
	b.conn = c
	b.expr = c.expr
	return b
}

// Schema, bağlantının şema okuyucusunu döndürür.
func (c *Connection) Schema() *SchemaManager {
	return NewSchemaManager(c)
}

// Close, bağlantıyı ve alttaki kaynakları kapatır. Tekrarlı çağrılar zararsızdır.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.driver.Close()
}

// IsClosed, bağlantının kapanıp kapanmadığını bildirir.
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// ----------------------------------------------------------------------------
// Query / Execute
// ----------------------------------------------------------------------------

// Query, SELECT benzeri bir cümleyi konumsal parametrelerle çalıştırır ve
// gezinilebilir bir Statement döndürür.
func (c *Connection) Query(ctx context.Context, query string, params ...any) (*Statement, error) {
	resolved, args, err := c.resolvePositional(query, params)
	if err != nil {
		return nil, err
	}
	return c.queryArgs(ctx, resolved, args)
}

// QueryNamed, isimli parametrelerle sorgu çalıştırır.
//
//	conn.QueryNamed(ctx, "SELECT * FROM users WHERE id = :id", map[string]any{"id": 1})
func (c *Connection) QueryNamed(ctx context.Context, query string, params map[string]any) (*Statement, error) {
	bag := NewParameterBag()
	for name, value := range params {
		bag.BindNamed(name, value)
	}
	resolved, args, err := bag.Resolve(query, c.platform)
	if err != nil {
		return nil, err
	}
	return c.queryArgs(ctx, resolved, args)
}

// Execute, yazma cümlesini konumsal parametrelerle çalıştırır ve etkilenen
// satır sayısını döndürür.
func (c *Connection) Execute(ctx context.Context, query string, params ...any) (int64, error) {
	resolved, args, err := c.resolvePositional(query, params)
	if err != nil {
		return 0, err
	}

	result, err := c.execArgs(ctx, resolved, args)
	if err != nil {
		return 0, err
	}
	return NewQueryResult(result).RowsAffected()
}

// LastInsertID, bu bağlantıda son çalıştırılan INSERT'in ürettiği kimliği döndürür.
func (c *Connection) LastInsertID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastInsertID
}

// resolvePositional, konumsal parametre dilimini torbaya bağlayıp çözümler.
func (c *Connection) resolvePositional(query string, params []any) (string, []any, error) {
	bag := NewParameterBag()
	for i, p := range params {
		bag.BindPositional(i, p)
	}
	return bag.Resolve(query, c.platform)
}

// queryArgs, çözümlenmiş SQL'i çalıştırır. Builder ve Query buradan geçer.
func (c *Connection) queryArgs(ctx context.Context, query string, args []any) (*Statement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrConnectionClosed
	}

	start := time.Now()
	rows, err := c.driver.Query(ctx, query, args)
	c.logger.Log(query, args, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return newStatement(rows, c.scanner), nil
}

// execArgs, çözümlenmiş yazma cümlesini çalıştırır ve son eklenen kimliği saklar.
func (c *Connection) execArgs(ctx context.Context, query string, args []any) (sql.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrConnectionClosed
	}

	start := time.Now()
	result, err := c.driver.Execute(ctx, query, args)
	c.logger.Log(query, args, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if id, idErr := result.LastInsertId(); idErr == nil && id > 0 {
			c.lastInsertID = id
		}
	}
	return result, nil
}

// ----------------------------------------------------------------------------
// Convenience Writers
// ----------------------------------------------------------------------------

// Insert, verilen kolon değerleriyle tek satır ekler ve etkilenen satır
// sayısını döndürür. Değerler her zaman bağlı parametre olarak gönderilir.
func (c *Connection) Insert(ctx context.Context, table string, values map[string]any) (int64, error) {
	if len(values) == 0 {
		return 0, ErrNoValues
	}

	b := c.Builder().Insert(table)
	for _, column := range sortedKeys(values) {
		b.SetValue(column, b.CreatePositionalParameter(values[column]))
	}

	query, args, err := b.ResolvedSQL()
	if err != nil {
		return 0, err
	}
	result, err := c.execArgs(ctx, query, args)
	if err != nil {
		return 0, err
	}
	return NewQueryResult(result).RowsAffected()
}

// Update, identifier ile eşleşen satırları günceller. Slice identifier
// değerleri IN predicate'ine dönüşür.
func (c *Connection) Update(ctx context.Context, table string, values, identifier map[string]any) (int64, error) {
	if len(values) == 0 {
		return 0, ErrNoValues
	}

	b := c.Builder().Update(table, "")
	for _, column := range sortedKeys(values) {
		b.Set(column, b.CreatePositionalParameter(values[column]))
	}
	c.applyIdentifier(b, identifier)

	query, args, err := b.ResolvedSQL()
	if err != nil {
		return 0, err
	}
	result, err := c.execArgs(ctx, query, args)
	if err != nil {
		return 0, err
	}
	return NewQueryResult(result).RowsAffected()
}

// Delete, identifier ile eşleşen satırları siler.
func (c *Connection) Delete(ctx context.Context, table string, identifier map[string]any) (int64, error) {
	b := c.Builder().Delete(table, "")
	c.applyIdentifier(b, identifier)

	query, args, err := b.ResolvedSQL()
	if err != nil {
		return 0, err
	}
	result, err := c.execArgs(ctx, query, args)
	if err != nil {
		return 0, err
	}
	return NewQueryResult(result).RowsAffected()
}

// applyIdentifier, kolon → değer eşlemesini WHERE koşullarına çevirir.
// Slice değerler tek yer tutucuya bağlanır; genişletme çözümleme sırasında yapılır.
func (c *Connection) applyIdentifier(b *Builder, identifier map[string]any) {
	for _, column := range sortedKeys(identifier) {
		value := identifier[column]
		if _, isList := expandListValue(value); isList {
			b.Where(c.expr.In(column, b.CreatePositionalParameter(value)))
			continue
		}
		if value == nil {
			b.Where(c.expr.IsNull(column))
			continue
		}
		b.Where(c.expr.Eq(column, b.CreatePositionalParameter(value)))
	}
}

// sortedKeys, map anahtarlarını deterministik sırada döndürür.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ----------------------------------------------------------------------------
// Transactions
// ----------------------------------------------------------------------------

// Begin, transaction derinliğini artırır. Detaylı semantik için TxManager'a bakınız.
func (c *Connection) Begin(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	return c.tx.Begin(ctx)
}

// Commit, transaction derinliğini azaltır; en dış seviyede gerçek COMMIT yürütülür.
func (c *Connection) Commit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tx.Commit(ctx)
}

// Rollback, aktif transaction bloğunu geri alır.
func (c *Connection) Rollback(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tx.Rollback(ctx)
}

// Transaction, fn'i bir transaction içinde çalıştırır. fn hata döndürür veya
// panik yaparsa transaction geri alınır; panik yeniden fırlatılır.
func (c *Connection) Transaction(ctx context.Context, fn func(c *Connection) error) error {
	return c.tx.Transaction(ctx, func(ctx context.Context) error {
		return fn(c)
	})
}

// TransactionDepth, aktif iç içe transaction derinliğini döndürür.
func (c *Connection) TransactionDepth() int {
	return c.tx.Depth()
}

// InTransaction, açık bir transaction olup olmadığını döndürür.
func (c *Connection) InTransaction() bool {
	return c.tx.InTransaction()
}

// SetNestTransactionsWithSavepoints, iç içe transaction'ların savepoint
// kullanıp kullanmayacağını ayarlar.
func (c *Connection) SetNestTransactionsWithSavepoints(enabled bool) error {
	return c.tx.SetNestTransactionsWithSavepoints(enabled)
}

// SetRollbackOnly, aktif transaction'ı yalnızca geri alınabilir olarak işaretler.
func (c *Connection) SetRollbackOnly() error {
	return c.tx.SetRollbackOnly()
}

// IsRollbackOnly, aktif transaction'ın geri-al işaretini döndürür.
func (c *Connection) IsRollbackOnly() (bool, error) {
	return c.tx.IsRollbackOnly()
}

// CreateSavepoint, isimli bir savepoint oluşturur.
func (c *Connection) CreateSavepoint(ctx context.Context, name string) error {
	return c.tx.CreateSavepoint(ctx, name)
}

// ReleaseSavepoint, isimli bir savepoint'i serbest bırakır.
func (c *Connection) ReleaseSavepoint(ctx context.Context, name string) error {
	return c.tx.ReleaseSavepoint(ctx, name)
}

// RollbackSavepoint, isimli bir savepoint'e geri döner.
func (c *Connection) RollbackSavepoint(ctx context.Context, name string) error {
	return c.tx.RollbackSavepoint(ctx, name)
}

// SetTransactionIsolation, oturumun izolasyon seviyesini değiştirir.
func (c *Connection) SetTransactionIsolation(ctx context.Context, level platform.IsolationLevel) error {
	query, err := c.platform.SetTransactionIsolationSQL(level)
	if err != nil {
		return err
	}
	_, err = c.execArgs(ctx, query, nil)
	return err
}

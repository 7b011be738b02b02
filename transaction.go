package dbal

import (
	"context"
	"strconv"

	"github.com/biyonik/go-dbal/platform"
)

// -----------------------------------------------------------------------------
//  Transaction Yönetimi — Bir İşlemin Kalbi, Bir Akışın Güvencesi
//
//  Bu dosya, bir bağlantının transaction durum makinesini yöneten TxManager'ı
//  içerir. Amaç yalnızca BEGIN/COMMIT/ROLLBACK komutlarını iletmek değil;
//  iç içe geçmiş transaction taleplerini de tutarlı bir bütün olarak yönetmektir.
//
//  Model şöyle çalışır:
//
//   • İlk Begin gerçek bir transaction açar (derinlik 1)
//   • Sonraki Begin çağrıları derinliği artırır; savepoint kipi açıksa her
//     seviye için bir savepoint oluşturulur, kapalıysa çağrı sessizce sayaçtan
//     ibarettir
//   • Commit derinliği azaltır; yalnızca en dış Commit gerçek COMMIT yürütür
//   • Rollback savepoint kipinde yalnızca en içteki bloğu geri alır; savepoint
//     kipi kapalıyken iç bloktan gelen Rollback tüm transaction'ı geri alır
//
//  Değişmezler: derinlik asla negatif olmaz; savepoint yığını derinlikle
//  birlikte büyür/küçülür (len(stack) == depth-1); üretilen savepoint adları
//  bağlantı ömrü boyunca tekildir.
//
//  TxManager thread-safe değildir; eşzamanlı erişim Connection katmanında
//  kilitle sağlanır.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// savepointPrefix, otomatik üretilen savepoint adlarının ön ekidir.
const savepointPrefix = "DBAL_SAVEPOINT_"

// TxManager, tek bir bağlantının transaction durum makinesidir.
type TxManager struct {
	driver   Driver
	platform platform.Platform
	logger   Logger

	depth              int
	savepoints         []string
	savepointCounter   int
	nestWithSavepoints bool
	rollbackOnly       bool
}

// NewTxManager, verilen sürücü ve platform için bir TxManager oluşturur.
func NewTxManager(driver Driver, p platform.Platform, logger Logger) *TxManager {
	if logger == nil {
		logger = NopLogger{}
	}
	return &TxManager{
		driver:   driver,
		platform: p,
		logger:   logger,
	}
}

// Depth, aktif iç içe transaction derinliğini döndürür. 0, transaction
// olmadığı anlamına gelir.
func (m *TxManager) Depth() int {
	return m.depth
}

// InTransaction, açık bir transaction olup olmadığını döndürür.
func (m *TxManager) InTransaction() bool {
	return m.depth > 0
}

// NestWithSavepoints, savepoint kipinin açık olup olmadığını döndürür.
func (m *TxManager) NestWithSavepoints() bool {
	return m.nestWithSavepoints
}

// SetNestTransactionsWithSavepoints, iç içe Begin çağrılarının savepoint
// oluşturup oluşturmayacağını ayarlar. Açık bir transaction varken veya
// platform savepoint desteklemiyorken kip değiştirilemez.
func (m *TxManager) SetNestTransactionsWithSavepoints(enabled bool) error {
	if m.depth > 0 {
		return ErrNestingInTransaction
	}
	if enabled && !m.platform.SupportsSavepoints() {
		return ErrSavepointsNotSupported
	}
	m.nestWithSavepoints = enabled
	return nil
}

// SetRollbackOnly, aktif transaction'ı yalnızca geri alınabilir olarak
// işaretler. İşaretli bir transaction'da Commit, ErrCommitRollbackOnly döner.
func (m *TxManager) SetRollbackOnly() error {
	if m.depth == 0 {
		return ErrNoActiveTransaction
	}
	m.rollbackOnly = true
	return nil
}

// IsRollbackOnly, aktif transaction'ın geri-al işaretini döndürür.
func (m *TxManager) IsRollbackOnly() (bool, error) {
	if m.depth == 0 {
		return false, ErrNoActiveTransaction
	}
	return m.rollbackOnly, nil
}

// Begin, transaction derinliğini bir artırır. Derinlik 0'dan 1'e çıkarken
// gerçek transaction açılır; daha derin seviyelerde savepoint kipi açıksa
// savepoint oluşturulur, kapalıysa yalnızca sayaç ilerler.
func (m *TxManager) Begin(ctx context.Context) error {
	if m.depth == 0 {
		if err := m.driver.Begin(ctx); err != nil {
			return err
		}
		m.depth = 1
		m.rollbackOnly = false
		return nil
	}

	if m.nestWithSavepoints {
		name := m.nextSavepointName()
		if err := m.createSavepoint(ctx, name); err != nil {
			return err
		}
		m.savepoints = append(m.savepoints, name)
	}
	m.depth++
	return nil
}

// Commit, transaction derinliğini bir azaltır. En dış seviyede gerçek COMMIT
// yürütülür; iç seviyelerde savepoint kipi açıksa savepoint serbest bırakılır.
func (m *TxManager) Commit(ctx context.Context) error {
	if m.depth == 0 {
		return ErrNoActiveTransaction
	}
	if m.rollbackOnly {
		return ErrCommitRollbackOnly
	}

	if m.depth == 1 {
		if err := m.driver.Commit(ctx); err != nil {
			return err
		}
		m.reset()
		return nil
	}

	if m.nestWithSavepoints {
		name := m.popSavepoint()
		if err := m.releaseSavepoint(ctx, name); err != nil {
			return err
		}
	}
	m.depth--
	return nil
}

// Rollback, transaction'ı geri alır. En dış seviyede gerçek ROLLBACK yürütülür.
// İç seviyelerde savepoint kipi açıksa yalnızca en içteki savepoint'e dönülür;
// savepoint kipi kapalıysa kısmi geri alma mümkün olmadığından tüm transaction
// geri alınır ve derinlik sıfırlanır.
func (m *TxManager) Rollback(ctx context.Context) error {
	if m.depth == 0 {
		return ErrNoActiveTransaction
	}

	if m.depth == 1 || !m.nestWithSavepoints {
		if err := m.driver.Rollback(ctx); err != nil {
			return err
		}
		m.reset()
		return nil
	}

	name := m.popSavepoint()
	if err := m.rollbackSavepoint(ctx, name); err != nil {
		return err
	}
	m.depth--
	return nil
}

// Transaction, fn'i bir transaction içinde çalıştırır. fn hata döndürür veya
// panik yaparsa transaction geri alınır; panik yeniden fırlatılır.
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := m.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = m.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx); err != nil {
		if rbErr := m.Rollback(ctx); rbErr != nil {
			return rbErr
		}
		return err
	}

	return m.Commit(ctx)
}

// ----------------------------------------------------------------------------
// Manual Savepoints
// ----------------------------------------------------------------------------

// CreateSavepoint, isimli bir savepoint oluşturur.
func (m *TxManager) CreateSavepoint(ctx context.Context, name string) error {
	if m.depth == 0 {
		return ErrNoActiveTransaction
	}
	return m.createSavepoint(ctx, name)
}

// ReleaseSavepoint, isimli bir savepoint'i serbest bırakır. RELEASE
// desteklemeyen platformlarda çağrı sessizce başarılı sayılır.
func (m *TxManager) ReleaseSavepoint(ctx context.Context, name string) error {
	if m.depth == 0 {
		return ErrNoActiveTransaction
	}
	return m.releaseSavepoint(ctx, name)
}

// RollbackSavepoint, isimli bir savepoint'e geri döner.
func (m *TxManager) RollbackSavepoint(ctx context.Context, name string) error {
	if m.depth == 0 {
		return ErrNoActiveTransaction
	}
	return m.rollbackSavepoint(ctx, name)
}

func (m *TxManager) createSavepoint(ctx context.Context, name string) error {
	if !m.platform.SupportsSavepoints() {
		return ErrSavepointsNotSupported
	}
	sql, err := m.platform.CreateSavepointSQL(name)
	if err != nil {
		return err
	}
	_, err = m.driver.Execute(ctx, sql, nil)
	return err
}

func (m *TxManager) releaseSavepoint(ctx context.Context, name string) error {
	if !m.platform.SupportsSavepoints() {
		return ErrSavepointsNotSupported
	}
	if !m.platform.SupportsReleaseSavepoints() {
		return nil
	}
	sql, err := m.platform.ReleaseSavepointSQL(name)
	if err != nil {
		return err
	}
	_, err = m.driver.Execute(ctx, sql, nil)
	return err
}

func (m *TxManager) rollbackSavepoint(ctx context.Context, name string) error {
	if !m.platform.SupportsSavepoints() {
		return ErrSavepointsNotSupported
	}
	sql, err := m.platform.RollbackSavepointSQL(name)
	if err != nil {
		return err
	}
	_, err = m.driver.Execute(ctx, sql, nil)
	return err
}

// ----------------------------------------------------------------------------
// Internal State
// ----------------------------------------------------------------------------

// nextSavepointName, bağlantı ömrü boyunca tekil bir savepoint adı üretir.
// Sayaç geri almalarda azalmaz; adlar asla yeniden kullanılmaz.
func (m *TxManager) nextSavepointName() string {
	m.savepointCounter++
	return savepointPrefix + strconv.Itoa(m.savepointCounter)
}

// popSavepoint, yığının tepesindeki savepoint adını çıkarır.
func (m *TxManager) popSavepoint() string {
	last := len(m.savepoints) - 1
	name := m.savepoints[last]
	m.savepoints = m.savepoints[:last]
	return name
}

// reset, durum makinesini transaction-dışı hale döndürür.
func (m *TxManager) reset() {
	m.depth = 0
	m.savepoints = m.savepoints[:0]
	m.rollbackOnly = false
}

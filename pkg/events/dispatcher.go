// -----------------------------------------------------------------------------
// Event Dispatcher
// -----------------------------------------------------------------------------
// Dispatcher, sorgu event'lerini kayıtlı listener'lara iletir.
//
// Dispatch senkrondur ve sorguyu çalıştıran goroutine'de çalışır; yavaş
// listener'lar DispatchAsync ile arka plana alınabilir. Async event'ler
// Shutdown ile beklenir.
// -----------------------------------------------------------------------------

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Dispatcher, event'leri yöneten merkezi yapıdır. Eşzamanlı kullanım
// için güvenlidir.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	logger    Logger
	wg        sync.WaitGroup // Async event'leri takip etmek için
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewDispatcher, yeni bir Dispatcher oluşturur.
//
// Dispatcher kullanımı bittiğinde Shutdown çağrılmalıdır:
//
//	d := events.NewDispatcher(logger)
//	defer d.Shutdown()
func NewDispatcher(logger Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		listeners: make(map[string][]Listener),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Listen, belirtilen event'e bir listener kaydeder. Listener'lar kayıt
// sırasıyla çağrılır.
func (d *Dispatcher) Listen(eventName string, listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventName] = append(d.listeners[eventName], listener)
}

// Subscribe, bir listener'ı birden fazla event'e aynı anda kaydeder.
func (d *Dispatcher) Subscribe(eventNames []string, listener Listener) {
	for _, name := range eventNames {
		d.Listen(name, listener)
	}
}

// Dispatch, event'i tüm listener'lara sırayla gönderir.
//
// Bir listener hata dönerse loglanır ve diğerleri çalışmaya devam eder;
// tüm hatalar birleştirilerek döndürülür.
func (d *Dispatcher) Dispatch(event Event) error {
	d.mu.RLock()
	listeners := d.listeners[event.Name()]
	d.mu.RUnlock()

	var errs []error
	for _, listener := range listeners {
		if err := listener.Handle(event); err != nil {
			d.logger.Printf("❌ Listener error for '%s': %v", event.Name(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DispatchAsync, event'i goroutine'de dispatch eder ve hemen döner.
// Shutdown'dan sonra gelen event'ler yok sayılır.
func (d *Dispatcher) DispatchAsync(event Event) {
	select {
	case <-d.ctx.Done():
		d.logger.Printf("⚠️  Dispatcher is shutting down, async event '%s' ignored", event.Name())
		return
	default:
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.Dispatch(event); err != nil {
			d.logger.Printf("❌ Async dispatch error for '%s': %v", event.Name(), err)
		}
	}()
}

// HasListeners, belirtilen event için listener olup olmadığını bildirir.
func (d *Dispatcher) HasListeners(eventName string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[eventName]) > 0
}

// Forget, belirtilen event için tüm listener'ları kaldırır.
func (d *Dispatcher) Forget(eventName string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.listeners, eventName)
}

// Stats, event adı -> listener sayısı eşlemesini döndürür.
func (d *Dispatcher) Stats() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := make(map[string]int, len(d.listeners))
	for name, listeners := range d.listeners {
		stats[name] = len(listeners)
	}
	return stats
}

// Shutdown, yeni async event'leri reddeder ve bekleyenlerin bitmesini bekler.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	d.wg.Wait()
}

// ShutdownWithTimeout, Shutdown'ı en fazla timeout kadar bekler.
func (d *Dispatcher) ShutdownWithTimeout(timeout time.Duration) error {
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		d.logger.Println("⚠️  Event dispatcher shutdown timeout - some events may not have completed")
		return fmt.Errorf("shutdown timeout exceeded after %s", timeout)
	}
}

// -----------------------------------------------------------------------------
// Event Listeners
// -----------------------------------------------------------------------------

package events

// Listener, event'leri dinleyen ve işleyen interface.
//
// Handle hata dönerse dispatcher bu hatayı loglar ancak diğer
// listener'ların çalışmasını engellemez.
type Listener interface {
	Handle(event Event) error
}

// ListenerFunc, fonksiyonları Listener interface'ine çevirir.
//
//	d.Listen(events.QueryFailed, events.ListenerFunc(func(e events.Event) error {
//	    log.Println("sorgu başarısız:", e.(*events.QueryEvent).Err)
//	    return nil
//	}))
type ListenerFunc func(Event) error

// Handle implements Listener.
func (f ListenerFunc) Handle(event Event) error {
	return f(event)
}

// Logger, log interface'i (dependency injection için). *log.Logger uyar.
type Logger interface {
	Printf(format string, v ...any)
	Println(v ...any)
}

// ConditionalListener, sadece koşul sağlandığında çalışan listener.
//
//	slow := events.NewConditionalListener(report, func(e events.Event) bool {
//	    return e.(*events.QueryEvent).Duration > 500*time.Millisecond
//	})
type ConditionalListener struct {
	listener  Listener
	condition func(Event) bool
}

// NewConditionalListener, yeni bir ConditionalListener oluşturur.
func NewConditionalListener(listener Listener, condition func(Event) bool) *ConditionalListener {
	return &ConditionalListener{
		listener:  listener,
		condition: condition,
	}
}

// Handle, koşul sağlanıyorsa listener'ı çalıştırır.
func (c *ConditionalListener) Handle(event Event) error {
	if c.condition(event) {
		return c.listener.Handle(event)
	}
	return nil
}

package service

// SyncNotifier schedules a best-effort mirror of one table. Implementations
// must return immediately; failures never reach the caller.
type SyncNotifier interface {
	Notify(tabla string)
}

type noopNotifier struct{}

func (noopNotifier) Notify(string) {}

func notifierOrNoop(n SyncNotifier) SyncNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

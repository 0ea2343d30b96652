package service

import "sync"

type observer[T any] struct {
	id int
	fn func(T)
}

// observers keeps subscription order.
type observers[T any] struct {
	mu     sync.Mutex
	nextID int
	list   []observer[T]
}

func (o *observers[T]) subscribe(fn func(T)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.list = append(o.list, observer[T]{id, fn})

	var once sync.Once
	return func() {
		once.Do(func() { o.remove(id) })
	}
}

func (o *observers[T]) remove(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.list {
		if o.list[i].id == id {
			o.list = append(o.list[:i:i], o.list[i+1:]...)
			return
		}
	}
}

func (o *observers[T]) notify(v T) {
	o.mu.Lock()
	list := o.list
	o.mu.Unlock()

	for _, obs := range list {
		obs.fn(v)
	}
}

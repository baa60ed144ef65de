package lock

import "time"

// parker blocks a single goroutine until it is unparked. An unpark that
// happens before park is remembered, so the following park returns at once.
type parker struct {
	permit chan struct{}
	timer  *time.Timer
}

func newParker() *parker {
	return &parker{permit: make(chan struct{}, 1)}
}

func (p *parker) park() {
	<-p.permit
}

// parkTimeout parks for at most d. The timer is reused between calls, so only
// the goroutine owning the parker may call it.
func (p *parker) parkTimeout(d time.Duration) {
	if p.timer == nil {
		p.timer = time.NewTimer(d)
	} else {
		p.timer.Reset(d)
	}
	select {
	case <-p.permit:
		p.timer.Stop()
	case <-p.timer.C:
	}
}

func (p *parker) unpark() {
	select {
	case p.permit <- struct{}{}:
	default:
	}
}

package reveal

import (
	"time"

	"ascendant/internal/render"
)

// Scheduler defers a callback. Deferred stages are fire-and-forget: nothing
// cancels them and a stage whose recipient has gone is simply dropped.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler runs callbacks on time.AfterFunc
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Play emits the zero-delay stages synchronously and hands the rest to sched.
// It returns the effects emitted synchronously.
func Play(sched Scheduler, stages []Stage, emit func([]render.Effect)) []render.Effect {
	var now []render.Effect
	for _, st := range stages {
		if st.After <= 0 {
			now = append(now, st.Effects...)
			continue
		}
		effects := st.Effects
		sched.AfterFunc(st.After, func() { emit(effects) })
	}
	return now
}

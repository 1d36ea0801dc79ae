package clock

import (
	"testing"
	"time"
)

func TestFakeAdvanceFiresInOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFake(start)

	var order []string
	c.AfterFunc(2*time.Second, func() { order = append(order, "second") })
	c.AfterFunc(time.Second, func() { order = append(order, "first") })

	c.Advance(500 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("Таймеры не должны были сработать, сработало: %v", order)
	}

	c.Advance(2 * time.Second)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("Неверный порядок срабатывания: %v", order)
	}
	if got := c.Now(); !got.Equal(start.Add(2500 * time.Millisecond)) {
		t.Errorf("Ожидалось время %v, получено %v", start.Add(2500*time.Millisecond), got)
	}
}

func TestFakeStop(t *testing.T) {
	c := NewFake(time.Unix(0, 0))

	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop должен вернуть true для активного таймера")
	}
	if timer.Stop() {
		t.Error("Повторный Stop должен вернуть false")
	}

	c.Advance(time.Hour)
	if fired {
		t.Error("Остановленный таймер не должен срабатывать")
	}
	if c.Pending() != 0 {
		t.Errorf("Ожидалось 0 активных таймеров, получено %d", c.Pending())
	}
}

func TestFakeTimerScheduledFromCallback(t *testing.T) {
	c := NewFake(time.Unix(0, 0))

	count := 0
	c.AfterFunc(time.Second, func() {
		count++
		c.AfterFunc(time.Second, func() { count++ })
	})

	c.Advance(3 * time.Second)
	if count != 2 {
		t.Errorf("Ожидалось 2 срабатывания, получено %d", count)
	}
}

func TestNextDeadline(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewFake(start)

	if _, ok := c.NextDeadline(); ok {
		t.Error("У пустых часов не должно быть ближайшего таймера")
	}

	c.AfterFunc(3*time.Second, func() {})
	c.AfterFunc(time.Second, func() {})

	deadline, ok := c.NextDeadline()
	if !ok || !deadline.Equal(start.Add(time.Second)) {
		t.Errorf("Ожидался дедлайн %v, получено %v (%v)", start.Add(time.Second), deadline, ok)
	}
}

package board

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-test/deep"

	"github.com/hazadus/playsounds/internal/clock"
	"github.com/hazadus/playsounds/internal/library"
	"github.com/hazadus/playsounds/internal/notify"
	"github.com/hazadus/playsounds/internal/sound"
	"github.com/hazadus/playsounds/internal/storage"
)

// recorder собирает сообщения, которые доска отправляет в цикл обновления
type recorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recorder) emit(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) take() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.msgs
	r.msgs = nil
	return msgs
}

type fixture struct {
	board *Model
	clk   *clock.Fake
	rec   *recorder
	lib   *library.Library
	store *storage.Store
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()

	ctx := context.Background()
	clk := clock.NewFake(time.Unix(0, 0))
	store := storage.NewStore(storage.NewMemory(0), storage.DefaultKey)
	// У уведомлений свои часы: в clk остаются только таймеры жестов
	lib := library.New(store, notify.NewCenter(clock.NewFake(time.Unix(0, 0)), 0))
	for _, n := range names {
		if _, err := lib.Add(ctx, n, n+".mp3", sound.OriginURL); err != nil {
			t.Fatalf("Ошибка добавления %s: %v", n, err)
		}
	}

	rec := &recorder{}
	board := NewModel(ctx, lib, Options{Clock: clk, Threshold: time.Second, Emit: rec.emit})
	board, _ = board.Update(tea.WindowSizeMsg{Width: 4 * cellWidth, Height: 30})

	return &fixture{board: board, clk: clk, rec: rec, lib: lib, store: store}
}

// mouse событие левой кнопки в центре плитки с индексом i
func mouse(action tea.MouseAction, i int) tea.MouseMsg {
	return tea.MouseMsg{
		X:      (i%4)*cellWidth + tileOuterW/2,
		Y:      GridTop + (i/4)*cellHeight + 1,
		Action: action,
		Button: tea.MouseButtonLeft,
	}
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (f *fixture) send(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.board, cmd = f.board.Update(msg)
	return cmd
}

func (f *fixture) names() []string {
	return sound.Names(f.lib.Sounds())
}

func TestClickPlays(t *testing.T) {
	f := newFixture(t, "A", "B", "C")
	a := f.lib.Find("A")
	if f.clk.Pending() != 0 {
		t.Fatalf("До нажатия таймеров быть не должно, получено %d", f.clk.Pending())
	}

	f.send(mouse(tea.MouseActionPress, 0))
	if f.clk.Pending() != 1 {
		t.Fatalf("Нажатие должно запускать таймер удержания, получено %d", f.clk.Pending())
	}
	f.clk.Advance(300 * time.Millisecond)
	f.send(mouse(tea.MouseActionRelease, 0))

	if diff := deep.Equal(f.rec.take(), []tea.Msg{PlayMsg{Sound: a}}); diff != nil {
		t.Error(diff)
	}
	if f.clk.Pending() != 0 {
		t.Error("После отпускания не должно оставаться таймеров")
	}
}

func TestHoldShowsHintThenEdits(t *testing.T) {
	f := newFixture(t, "A", "B")
	a := f.lib.Find("A")

	f.send(mouse(tea.MouseActionPress, 0))
	f.clk.Advance(time.Second)

	msgs := f.rec.take()
	if diff := deep.Equal(msgs, []tea.Msg{HoldMsg{Sound: a}}); diff != nil {
		t.Fatal(diff)
	}
	f.send(msgs[0])
	if f.lib.Editing() != a {
		t.Error("Удержание должно отмечать звук как редактируемый")
	}
	if !strings.Contains(f.board.View(), "Edit ?") {
		t.Error("На плитке должна быть подсказка Edit ?")
	}

	f.clk.Advance(500 * time.Millisecond)
	f.send(mouse(tea.MouseActionRelease, 0))
	if diff := deep.Equal(f.rec.take(), []tea.Msg{EditMsg{Sound: a}}); diff != nil {
		t.Error(diff)
	}
}

func TestLateHoldMsgIgnored(t *testing.T) {
	f := newFixture(t, "A")
	a := f.lib.Find("A")

	f.send(HoldMsg{Sound: a})
	if f.lib.Editing() != nil {
		t.Error("Подсказка без удержания не должна появляться")
	}
}

func TestLeaveCancelsGesture(t *testing.T) {
	f := newFixture(t, "A", "B", "C")

	f.send(mouse(tea.MouseActionPress, 0))
	f.send(tea.MouseMsg{X: 200, Y: 40, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	f.clk.Advance(2 * time.Second)
	f.send(tea.MouseMsg{X: 200, Y: 40, Action: tea.MouseActionRelease})

	if msgs := f.rec.take(); len(msgs) != 0 {
		t.Errorf("Уход с плитки не должен вызывать колбэков: %v", msgs)
	}
	if f.lib.Dragging() {
		t.Error("Перетаскивание должно завершиться")
	}
	if diff := deep.Equal(f.names(), []string{"A", "B", "C"}); diff != nil {
		t.Error(diff)
	}
}

func TestDragOntoLastSound(t *testing.T) {
	f := newFixture(t, "A", "B", "C")

	f.send(mouse(tea.MouseActionPress, 0))
	// Наведение на C ставит заглушку после C: [B, C, заглушка, +]
	f.send(mouse(tea.MouseActionMotion, 2))
	if !f.lib.Dragging() || f.lib.DragSource() != f.lib.Find("A") {
		t.Fatal("Ожидалось перетаскивание A")
	}
	if f.lib.PlaceholderSlot() != 2 {
		t.Errorf("Заглушка должна стоять после C, получено %d", f.lib.PlaceholderSlot())
	}
	if _, ok := f.board.tiles()[2].(placeholderTile); !ok {
		t.Error("Под указателем должна быть заглушка")
	}

	f.send(mouse(tea.MouseActionRelease, 2))

	if diff := deep.Equal(f.names(), []string{"B", "C", "A"}); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(sound.Names(f.store.Load(context.Background())), []string{"B", "C", "A"}); diff != nil {
		t.Errorf("Новый порядок не сохранен: %v", diff)
	}
	if msgs := f.rec.take(); len(msgs) != 0 {
		t.Errorf("Перетаскивание не должно вызывать жестов: %v", msgs)
	}
}

func TestDragOntoAddTileAppends(t *testing.T) {
	f := newFixture(t, "A", "B", "C")

	f.send(mouse(tea.MouseActionPress, 1))
	// Плитка 3 - добавление, то есть конец списка: [A, C, заглушка, +]
	f.send(mouse(tea.MouseActionMotion, 3))
	f.send(mouse(tea.MouseActionRelease, 3))

	if diff := deep.Equal(f.names(), []string{"A", "C", "B"}); diff != nil {
		t.Error(diff)
	}
}

func TestDragCancelledWithEsc(t *testing.T) {
	f := newFixture(t, "A", "B", "C")

	f.send(mouse(tea.MouseActionPress, 0))
	f.send(mouse(tea.MouseActionMotion, 2))
	f.send(keyPress("esc"))
	f.send(mouse(tea.MouseActionRelease, 2))

	if f.lib.Dragging() {
		t.Error("Esc должен отменять перетаскивание")
	}
	if diff := deep.Equal(f.names(), []string{"A", "B", "C"}); diff != nil {
		t.Error(diff)
	}
}

func TestKeyboardMove(t *testing.T) {
	f := newFixture(t, "A", "B", "C")

	f.send(keyPress("m"))
	if !f.lib.Dragging() {
		t.Fatal("m должна начинать перемещение")
	}
	f.send(keyPress("right"))
	f.send(keyPress("right"))
	f.send(keyPress("right"))
	f.send(keyPress("enter"))

	if diff := deep.Equal(f.names(), []string{"B", "C", "A"}); diff != nil {
		t.Error(diff)
	}
	if f.board.Selected() != f.lib.Find("A") {
		t.Error("Курсор должен остаться на перемещенном звуке")
	}
}

func TestKeyboardMoveBackToStart(t *testing.T) {
	f := newFixture(t, "A", "B", "C")

	f.send(keyPress("right"))
	f.send(keyPress("right"))
	f.send(keyPress("m"))
	f.send(keyPress("left"))
	f.send(keyPress("left"))
	f.send(keyPress("enter"))

	if diff := deep.Equal(f.names(), []string{"C", "A", "B"}); diff != nil {
		t.Error(diff)
	}
}

func TestKeyboardActions(t *testing.T) {
	f := newFixture(t, "A", "B")
	a := f.lib.Find("A")

	if msg := f.send(keyPress("enter"))(); msg != (PlayMsg{Sound: a}) {
		t.Errorf("enter: получено %#v", msg)
	}
	if msg := f.send(keyPress("e"))(); msg != (EditMsg{Sound: a}) {
		t.Errorf("e: получено %#v", msg)
	}
	if msg := f.send(keyPress("a"))(); msg != (AddMsg{}) {
		t.Errorf("a: получено %#v", msg)
	}

	if msg := f.send(keyPress("d"))(); msg != (DeletedMsg{Sound: a}) {
		t.Errorf("d: получено %#v", msg)
	}
	if diff := deep.Equal(f.names(), []string{"B"}); diff != nil {
		t.Error(diff)
	}
	if f.board.gestures.Bound(a) {
		t.Error("Жест удаленного звука должен быть отвязан")
	}
	if f.board.Selected() != f.lib.Find("B") {
		t.Error("Курсор должен перейти на оставшийся звук")
	}
}

func TestEnterOnAddTile(t *testing.T) {
	f := newFixture(t, "A")

	f.send(keyPress("right"))
	if msg := f.send(keyPress("enter"))(); msg != (AddMsg{}) {
		t.Errorf("Ожидалось AddMsg, получено %#v", msg)
	}
}

func TestClickAddTile(t *testing.T) {
	f := newFixture(t, "A")

	f.send(mouse(tea.MouseActionPress, 1))
	cmd := f.send(mouse(tea.MouseActionRelease, 1))
	if cmd == nil {
		t.Fatal("Ожидалась команда открытия диалога")
	}
	if msg := cmd(); msg != (AddMsg{}) {
		t.Errorf("Ожидалось AddMsg, получено %#v", msg)
	}
}

func TestFilter(t *testing.T) {
	f := newFixture(t, "Air Horn", "Bell", "Big Bell")

	f.send(keyPress("/"))
	if !f.board.Filtering() {
		t.Fatal("/ должна включать фильтр")
	}
	f.send(keyPress("b"))
	f.send(keyPress("e"))

	tiles := f.board.tiles()
	if len(tiles) != 3 || tiles[0].Sound().Name != "Bell" || tiles[1].Sound().Name != "Big Bell" {
		t.Errorf("Неверный результат фильтра: %d плиток", len(tiles))
	}

	f.send(keyPress("enter"))
	if f.board.Filtering() {
		t.Error("enter должен закрывать строку фильтра")
	}
	f.send(keyPress("m"))
	if f.lib.Dragging() {
		t.Error("Перемещение с активным фильтром недоступно")
	}

	f.send(keyPress("/"))
	f.send(keyPress("esc"))
	if len(f.board.tiles()) != 4 {
		t.Error("esc должен сбрасывать фильтр")
	}
}

func TestTileAt(t *testing.T) {
	f := newFixture(t, "A", "B", "C", "D", "E")

	tests := []struct {
		name string
		x, y int
		want int
	}{
		{"первая плитка", 1, GridTop, 0},
		{"промежуток", tileOuterW, GridTop + 1, -1},
		{"вторая строка", cellWidth + 1, GridTop + cellHeight, 5},
		{"заголовок", 1, 0, -1},
		{"за последней плиткой", 3*cellWidth + 1, GridTop + cellHeight, -1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := f.board.tileAt(test.x, test.y); got != test.want {
				t.Errorf("tileAt(%d, %d) = %d, ожидалось %d", test.x, test.y, got, test.want)
			}
		})
	}
}

func TestViewShowsPlaceholderWhileDragging(t *testing.T) {
	f := newFixture(t, "A", "B")

	f.send(mouse(tea.MouseActionPress, 0))
	f.send(mouse(tea.MouseActionMotion, 1))

	view := f.board.View()
	if !strings.Contains(view, "drop here") || !strings.Contains(view, "Moving A") {
		t.Errorf("Во время перетаскивания должна быть заглушка:\n%s", view)
	}
}

func TestCloseUnbindsAll(t *testing.T) {
	f := newFixture(t, "A", "B")

	f.send(mouse(tea.MouseActionPress, 0))
	if f.clk.Pending() != 1 {
		t.Fatalf("Нажатие должно запускать таймер удержания, получено %d", f.clk.Pending())
	}
	f.board.Close()

	if f.board.gestures.Len() != 0 || f.clk.Pending() != 0 {
		t.Error("Close должен отвязывать жесты и отменять таймеры")
	}
}

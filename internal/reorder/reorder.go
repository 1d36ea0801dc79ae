// Package reorder реализует перестановку элементов списка перетаскиванием
package reorder

// None обозначает отсутствие индекса
const None = -1

// Controller хранит состояние перетаскивания: индекс источника и индекс вставки.
// Нулевое значение T означает "нет цели", то есть вставку в конец списка.
// Нулевое значение Controller готово к использованию.
type Controller[T comparable] struct {
	source    int
	insertion int
	active    bool
}

// Active сообщает, идет ли перетаскивание
func (c *Controller[T]) Active() bool {
	return c.active
}

// SourceIndex индекс перетаскиваемого элемента или None
func (c *Controller[T]) SourceIndex() int {
	if !c.active {
		return None
	}
	return c.source
}

// InsertionIndex текущий индекс вставки в [0, len] или None
func (c *Controller[T]) InsertionIndex() int {
	if !c.active {
		return None
	}
	return c.insertion
}

// BeginDrag начинает перетаскивание элемента. Элемент вне списка игнорируется
func (c *Controller[T]) BeginDrag(list []T, item T) bool {
	idx := indexOf(list, item)
	if idx < 0 {
		c.EndDrag()
		return false
	}
	c.source = idx
	c.insertion = idx
	c.active = true
	return true
}

// DragOver переносит место вставки к target или в конец списка
func (c *Controller[T]) DragOver(list []T, target T) {
	if !c.active {
		return
	}
	c.insertion = targetIndex(list, target)
}

// Drop возвращает новый список с перемещенным элементом и сбрасывает состояние.
// Элемент вставляется на место target в списке без него, при отсутствии
// target - в конец. Входной срез не изменяется
func (c *Controller[T]) Drop(list []T, target T) []T {
	if !c.active {
		return list
	}
	source := c.source
	c.EndDrag()

	if source < 0 || source >= len(list) {
		return list
	}

	dest := targetIndex(list, target)
	if dest == source {
		return list
	}

	item := list[source]
	out := make([]T, 0, len(list))
	out = append(out, list[:source]...)
	out = append(out, list[source+1:]...)

	if dest > len(out) {
		dest = len(out)
	}
	out = append(out, item)
	copy(out[dest+1:], out[dest:len(out)-1])
	out[dest] = item
	return out
}

// EndDrag отменяет перетаскивание без изменения списка
func (c *Controller[T]) EndDrag() {
	c.source = None
	c.insertion = None
	c.active = false
}

// InsertionTarget возвращает элемент, перед которым сейчас стоит место вставки,
// или нулевое значение, если вставка в конец
func (c *Controller[T]) InsertionTarget(list []T) T {
	var zero T
	if !c.active || c.insertion < 0 || c.insertion >= len(list) {
		return zero
	}
	return list[c.insertion]
}

// PlaceholderSlot позиция заглушки в списке, из которого убран перетаскиваемый
// элемент: именно туда он попадет при Drop. list - полный список
func (c *Controller[T]) PlaceholderSlot(list []T) int {
	if !c.active {
		return None
	}
	slot := c.insertion
	if slot > len(list)-1 {
		slot = len(list) - 1
	}
	if slot < 0 {
		slot = 0
	}
	return slot
}

func targetIndex[T comparable](list []T, target T) int {
	var zero T
	if target == zero {
		return len(list)
	}
	if idx := indexOf(list, target); idx >= 0 {
		return idx
	}
	return len(list)
}

func indexOf[T comparable](list []T, item T) int {
	for i, candidate := range list {
		if candidate == item {
			return i
		}
	}
	return -1
}

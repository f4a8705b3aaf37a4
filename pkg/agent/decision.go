package agent

// Action — одно действие, запрошенное моделью.
type Action struct {
	// ID — идентификатор вызова. Нужен чтобы сопоставить наблюдения
	// с действиями при параллельном запуске инструментов.
	ID string

	// Tool — имя инструмента из каталога.
	Tool string

	// Input — вход инструмента одной строкой (обычно JSON).
	Input string

	// Log — сырой фрагмент ответа модели, породивший действие.
	Log string
}

// Decision — sealed interface решения модели: либо финальный ответ,
// либо набор действий. Третьего парсер не возвращает.
type Decision interface {
	decision()
}

// Finish — модель дала финальный ответ.
type Finish struct {
	Output string
}

func (Finish) decision() {}

// Act — модель запросила выполнение действий.
//
// Несколько действий в одном ответе — запрос на параллельный запуск;
// наблюдения возвращаются модели в порядке запроса.
type Act struct {
	Actions []Action
}

func (Act) decision() {}

// Интерфейс провайдера через который работает вся библиотека.

package llm

import "context"

// Provider — контракт для любого AI-сервиса.
//
// Конкретные реализации (OpenAI-совместимые API, локальные модели,
// тестовые стабы) скрыты за этой абстракцией. Оркестрация в pkg/chain
// и pkg/agent зависит только от интерфейса.
type Provider interface {
	// Generate отправляет историю сообщений и возвращает ответ модели.
	//
	// opts — опциональные параметры генерации (WithTemperature и т.д.).
	// Провайдер игнорирует опции, которые не поддерживает.
	Generate(ctx context.Context, messages []Message, opts ...GenerateOption) (Message, error)
}

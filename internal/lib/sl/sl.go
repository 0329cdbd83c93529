// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога,
// например, для передачи информации об ошибках и ссылок на контент.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Удобно использовать в логировании для единообразного вывода ошибок.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Content группирует тип и идентификатор элемента контента под ключом "content".
//
//	log.Info("grant added", sl.Content("tip", "m123"))
func Content(contentType, contentID string) slog.Attr {
	return slog.Group("content",
		slog.String("type", contentType),
		slog.String("id", contentID),
	)
}

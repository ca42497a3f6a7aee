package repo

import (
	"context"
	"io"
)

// Photo хранит файлы фотографий профиля в объектном хранилище
type Photo interface {
	// Save сохраняет файл и возвращает URL, по которому он доступен
	Save(ctx context.Context, objectName, contentType string, data io.Reader, size int64) (string, error)
	// Delete удаляет файл по URL, который вернул Save
	Delete(ctx context.Context, fileURL string) error
}

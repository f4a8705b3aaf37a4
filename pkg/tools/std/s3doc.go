// Инструменты доступа к документам в объектном хранилище.
package std

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ilkoid/kimono-ai/pkg/s3storage"
	"github.com/ilkoid/kimono-ai/pkg/tools"
)

// Вернуть модели мегабайтный документ — убить контекст.
const maxDocumentBytes = 64 * 1024

// S3List перечисляет объекты хранилища по префиксу.
type S3List struct {
	client s3storage.ClientInterface
}

// NewS3List создаёт инструмент листинга поверх клиента хранилища.
func NewS3List(client s3storage.ClientInterface) *S3List {
	return &S3List{client: client}
}

func (t *S3List) Name() string {
	return "s3_list"
}

func (t *S3List) Description() string {
	return "Lists documents in object storage. Input is a path prefix " +
		"(empty string lists everything). Returns one 'key (size)' line per document."
}

func (t *S3List) Call(ctx context.Context, input string) (string, error) {
	objects, err := t.client.ListFiles(ctx, strings.TrimSpace(input))
	if err != nil {
		return "", err
	}
	if len(objects) == 0 {
		return "no documents found", nil
	}

	var sb strings.Builder
	for i, obj := range objects {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s (%d bytes)", obj.Key, obj.Size)
	}
	return sb.String(), nil
}

// S3Fetch скачивает текстовый документ из хранилища.
type S3Fetch struct {
	client s3storage.ClientInterface
}

// NewS3Fetch создаёт инструмент скачивания поверх клиента хранилища.
func NewS3Fetch(client s3storage.ClientInterface) *S3Fetch {
	return &S3Fetch{client: client}
}

func (t *S3Fetch) Name() string {
	return "s3_fetch"
}

func (t *S3Fetch) Description() string {
	return "Fetches a text document from object storage by key. " +
		"Input is the exact document key from s3_list. Returns the document content."
}

func (t *S3Fetch) Call(ctx context.Context, input string) (string, error) {
	key := strings.TrimSpace(input)
	if key == "" {
		return "", fmt.Errorf("s3_fetch: document key must not be empty")
	}

	data, err := t.client.DownloadFile(ctx, key)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("s3_fetch: '%s' is not a text document", key)
	}
	if len(data) > maxDocumentBytes {
		return string(data[:maxDocumentBytes]) + "\n[truncated]", nil
	}
	return string(data), nil
}

var (
	_ tools.Tool = (*S3List)(nil)
	_ tools.Tool = (*S3Fetch)(nil)
)

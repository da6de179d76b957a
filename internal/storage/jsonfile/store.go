// Package jsonfile реализует хранилище карточек пользователей в одном
// JSON-файле: объект с ключами-идентификаторами (десятичная строка) и
// значениями-карточками. Запись выполняется атомарной заменой файла через
// временный файл с суффиксом ".tmp", поэтому читатель в любой момент видит
// либо старую, либо новую версию целиком.
//
// Хранилище никогда не является жёсткой зависимостью: нечитаемый, пустой или
// повреждённый файл трактуется как отсутствие данных, ошибка записи
// логируется и не прерывает вызывающего.
package jsonfile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/financeacademytj/storefront-bot/internal/lib/sl"
	"github.com/financeacademytj/storefront-bot/internal/models"
)

// Store хранилище карточек в одном JSON-файле.
type Store struct {
	path string
	log  *slog.Logger

	// mu сериализует циклы read-modify-write: все карточки живут в одном
	// файле, поэтому конкурентная замена файла без критической секции
	// теряла бы обновления даже для разных пользователей.
	mu sync.Mutex
}

// New создает хранилище поверх файла path. Файл не обязан существовать.
func New(path string, log *slog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Read возвращает все карточки. Отсутствующий, пустой или повреждённый файл
// даёт пустой результат: ошибка логируется и никогда не поднимается выше.
func (s *Store) Read() map[string]models.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Write полностью замещает содержимое хранилища. Ошибка записи логируется,
// вызывающий продолжает работу: изменение применено в памяти, но может не
// пережить рестарт процесса.
func (s *Store) Write(records map[string]models.UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(records)
}

// Update выполняет цикл read-modify-write под общей критической секцией.
// fn получает актуальное содержимое и правит его на месте.
func (s *Store) Update(fn func(records map[string]models.UserRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.read()
	fn(records)
	s.write(records)
}

func (s *Store) read() map[string]models.UserRecord {
	const op = "jsonfile.Read"

	records := make(map[string]models.UserRecord)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("failed to read users file, treating as empty",
				sl.Op(op), slog.String("path", s.path), sl.Err(err))
		}
		return records
	}
	if len(raw) == 0 {
		return records
	}

	// Карточки разбираются по одной: одна повреждённая запись не должна
	// обнулять остальные.
	var byID map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byID); err != nil {
		s.log.Warn("users file is malformed, treating as empty",
			sl.Op(op), slog.String("path", s.path), sl.Err(err))
		return records
	}

	for id, body := range byID {
		var rec models.UserRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			s.log.Warn("skipping malformed user record",
				sl.Op(op), slog.String("id", id), sl.Err(err))
			continue
		}
		records[id] = rec
	}
	return records
}

func (s *Store) write(records map[string]models.UserRecord) {
	const op = "jsonfile.Write"

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		s.log.Error("failed to marshal users", sl.Op(op), sl.Err(err))
		return
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.log.Error("failed to create storage directory",
				sl.Op(op), slog.String("dir", dir), sl.Err(err))
			return
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.log.Error("failed to stage users file",
			sl.Op(op), slog.String("path", tmp), sl.Err(err))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Error("failed to replace users file",
			sl.Op(op), slog.String("path", s.path), sl.Err(err))
	}
}

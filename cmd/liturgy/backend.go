package main

import (
	"context"

	"github.com/FocuswithJustin/JuniperLiturgy/core/bible"
	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/config"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/store"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/store/memstore"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/store/mongostore"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/store/sqlitestore"
)

// documentStore is a PersistAdapter that can read documents back.
type documentStore[T any] interface {
	formats.PersistAdapter[T]
	Load(id string) (T, error)
}

// backend holds the bible and song stores of one configured backend.
type backend struct {
	Bibles documentStore[*bible.Bible]
	Songs  documentStore[*song.Song]

	db    *sqlitestore.DB
	close func() error
}

func bibleKey(b *bible.Bible) (string, string) { return b.ID, b.Name }

func songKey(s *song.Song) (string, string) { return s.ID, s.Name }

func openBackend(cfg config.Config) (*backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return &backend{
			Bibles: memstore.New(func(b *bible.Bible) string { return b.ID }),
			Songs:  memstore.New(func(s *song.Song) string { return s.ID }),
			close:  func() error { return nil },
		}, nil

	case config.BackendMongo:
		client, err := mongostore.Connect(context.Background(), cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
		if err != nil {
			return nil, err
		}
		return &backend{
			Bibles: mongostore.New(client, store.KindBible, bibleKey),
			Songs:  mongostore.New(client, store.KindSong, songKey),
			close:  func() error { return client.Disconnect(context.Background()) },
		}, nil

	case config.BackendSQLite:
		db, err := sqlitestore.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return &backend{
			Bibles: sqlitestore.New(db, store.KindBible, bibleKey),
			Songs:  sqlitestore.New(db, store.KindSong, songKey),
			db:     db,
			close:  db.Close,
		}, nil
	}
	return nil, apperrors.NewValidation("store", "unknown backend "+cfg.Backend)
}

// Close releases the backend.
func (b *backend) Close() error {
	return b.close()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/link-shortener/internal/entity"
)

type LinkRepositoryTestSuite struct {
	suite.Suite
	errUnknown      error
	errAffectedRows error
	columns         []string
	id              uuid.UUID
	mock            sqlmock.Sqlmock
	repo            *LinkRepository
}

func (suite *LinkRepositoryTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.errAffectedRows = errors.New("affected rows error")
	suite.columns = []string{
		"id", "original_url", "alias", "owner_user_id", "owner_fingerprint",
		"visits", "preview_image", "created_at", "updated_at",
	}
	suite.id = uuid.New()
}

func (suite *LinkRepositoryTestSuite) SetupSubTest() {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		suite.T().Fatalf("Failed to create mock database: %v", err)
	}
	suite.T().Cleanup(func() {
		mockDB.Close()
	})

	db := sqlx.NewDb(mockDB, "sqlmock")
	suite.T().Cleanup(func() {
		db.Close()
	})

	suite.mock = mock
	suite.repo = NewLinkRepository(db)
}

func (suite *LinkRepositoryTestSuite) TearDownSubTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *LinkRepositoryTestSuite) row(alias, originalURL string, userID, fingerprint, preview any, visits int64) *sqlmock.Rows {
	return sqlmock.NewRows(suite.columns).
		AddRow(suite.id.String(), originalURL, alias, userID, fingerprint, visits, preview, time.Time{}, time.Time{})
}

func (suite *LinkRepositoryTestSuite) TestCreate() {
	link := &entity.Link{
		OriginalURL:  "https://example.com",
		Alias:        "abc123",
		Owner:        entity.FingerprintOwner("fp-1"),
		PreviewImage: func() *string { s := "https://example.com/og.png"; return &s }(),
	}

	suite.Run("alias exists", func() {
		suite.mock.ExpectQuery(`INSERT INTO links`).
			WithArgs("https://example.com", "abc123", nil, "fp-1", "https://example.com/og.png").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode})

		created, err := suite.repo.Create(context.Background(), link)

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrAliasExists)
		suite.Nil(created)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`INSERT INTO links`).
			WithArgs("https://example.com", "abc123", nil, "fp-1", "https://example.com/og.png").
			WillReturnError(suite.errUnknown)

		created, err := suite.repo.Create(context.Background(), link)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(created)
	})

	suite.Run("success", func() {
		suite.mock.ExpectQuery(`INSERT INTO links`).
			WithArgs("https://example.com", "abc123", nil, "fp-1", "https://example.com/og.png").
			WillReturnRows(suite.row("abc123", "https://example.com", nil, "fp-1", "https://example.com/og.png", 0))

		created, err := suite.repo.Create(context.Background(), link)

		suite.NoError(err)
		suite.NotNil(created)
		suite.Equal(suite.id, created.ID)
		suite.Equal("abc123", created.Alias)
		suite.Equal(entity.FingerprintOwner("fp-1"), created.Owner)
		suite.Require().NotNil(created.PreviewImage)
		suite.Equal("https://example.com/og.png", *created.PreviewImage)
		suite.Zero(created.Visits)
	})

	suite.Run("success without owner", func() {
		suite.mock.ExpectQuery(`INSERT INTO links`).
			WithArgs("https://example.com", "abc123", nil, nil, nil).
			WillReturnRows(suite.row("abc123", "https://example.com", nil, nil, nil, 0))

		created, err := suite.repo.Create(context.Background(), &entity.Link{
			OriginalURL: "https://example.com",
			Alias:       "abc123",
		})

		suite.NoError(err)
		suite.True(created.Owner.IsNone())
		suite.Nil(created.PreviewImage)
	})
}

func (suite *LinkRepositoryTestSuite) TestExistsByAlias() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("abc123").
			WillReturnError(suite.errUnknown)

		exists, err := suite.repo.ExistsByAlias(context.Background(), "abc123")

		suite.ErrorIs(err, suite.errUnknown)
		suite.False(exists)
	})

	suite.Run("exists", func() {
		suite.mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("abc123").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := suite.repo.ExistsByAlias(context.Background(), "abc123")

		suite.NoError(err)
		suite.True(exists)
	})
}

func (suite *LinkRepositoryTestSuite) TestGetByID() {
	suite.Run("link not found", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM links WHERE id`).
			WithArgs(suite.id).
			WillReturnError(sql.ErrNoRows)

		link, err := suite.repo.GetByID(context.Background(), suite.id)

		suite.ErrorIs(err, entity.ErrLinkNotFound)
		suite.Nil(link)
	})

	suite.Run("success", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM links WHERE id`).
			WithArgs(suite.id).
			WillReturnRows(suite.row("abc123", "https://example.com", "user-1", nil, nil, 3))

		link, err := suite.repo.GetByID(context.Background(), suite.id)

		suite.NoError(err)
		suite.Equal(entity.UserOwner("user-1"), link.Owner)
		suite.Equal(int64(3), link.Visits)
	})
}

func (suite *LinkRepositoryTestSuite) TestGetByAlias() {
	suite.Run("link not found", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM links WHERE alias`).
			WithArgs("abc123").
			WillReturnError(sql.ErrNoRows)

		link, err := suite.repo.GetByAlias(context.Background(), "abc123")

		suite.ErrorIs(err, entity.ErrLinkNotFound)
		suite.Nil(link)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM links WHERE alias`).
			WithArgs("abc123").
			WillReturnError(suite.errUnknown)

		link, err := suite.repo.GetByAlias(context.Background(), "abc123")

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(link)
	})

	suite.Run("success", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM links WHERE alias`).
			WithArgs("abc123").
			WillReturnRows(suite.row("abc123", "https://example.com", nil, nil, nil, 0))

		link, err := suite.repo.GetByAlias(context.Background(), "abc123")

		suite.NoError(err)
		suite.Equal("abc123", link.Alias)
	})
}

func (suite *LinkRepositoryTestSuite) TestListByOwner() {
	suite.Run("no owner", func() {
		links, err := suite.repo.ListByOwner(context.Background(), entity.NoOwner())

		suite.NoError(err)
		suite.Empty(links)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM links WHERE owner_user_id = (.+) ORDER BY created_at DESC`).
			WithArgs("user-1").
			WillReturnError(suite.errUnknown)

		links, err := suite.repo.ListByOwner(context.Background(), entity.UserOwner("user-1"))

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(links)
	})

	suite.Run("by fingerprint", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(uuid.NewString(), "https://example.com/b", "def456", nil, "fp-1", 0, nil, time.Time{}, time.Time{}).
			AddRow(uuid.NewString(), "https://example.com/a", "abc123", nil, "fp-1", 2, nil, time.Time{}, time.Time{})

		suite.mock.ExpectQuery(`SELECT (.+) FROM links WHERE owner_fingerprint = (.+) ORDER BY created_at DESC`).
			WithArgs("fp-1").
			WillReturnRows(rows)

		links, err := suite.repo.ListByOwner(context.Background(), entity.FingerprintOwner("fp-1"))

		suite.NoError(err)
		suite.Len(links, 2)
		suite.Equal("def456", links[0].Alias)
		suite.Equal(int64(2), links[1].Visits)
	})
}

func (suite *LinkRepositoryTestSuite) TestUpdate() {
	link := &entity.Link{ID: suite.id, OriginalURL: "https://new-example.com", Alias: "new123"}

	suite.Run("link not found", func() {
		suite.mock.ExpectQuery(`UPDATE links`).
			WithArgs("https://new-example.com", "new123", suite.id).
			WillReturnError(sql.ErrNoRows)

		updated, err := suite.repo.Update(context.Background(), link)

		suite.ErrorIs(err, entity.ErrLinkNotFound)
		suite.Nil(updated)
	})

	suite.Run("alias exists", func() {
		suite.mock.ExpectQuery(`UPDATE links`).
			WithArgs("https://new-example.com", "new123", suite.id).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode})

		updated, err := suite.repo.Update(context.Background(), link)

		suite.ErrorIs(err, entity.ErrAliasExists)
		suite.Nil(updated)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`UPDATE links`).
			WithArgs("https://new-example.com", "new123", suite.id).
			WillReturnError(suite.errUnknown)

		updated, err := suite.repo.Update(context.Background(), link)

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(updated)
	})

	suite.Run("success", func() {
		suite.mock.ExpectQuery(`UPDATE links`).
			WithArgs("https://new-example.com", "new123", suite.id).
			WillReturnRows(suite.row("new123", "https://new-example.com", nil, nil, nil, 0))

		updated, err := suite.repo.Update(context.Background(), link)

		suite.NoError(err)
		suite.Equal("new123", updated.Alias)
		suite.Equal("https://new-example.com", updated.OriginalURL)
	})
}

func (suite *LinkRepositoryTestSuite) TestIncrementVisits() {
	suite.Run("link not found", func() {
		suite.mock.ExpectQuery(`UPDATE links SET visits = visits \+ 1`).
			WithArgs("abc123").
			WillReturnError(sql.ErrNoRows)

		link, err := suite.repo.IncrementVisits(context.Background(), "abc123")

		suite.ErrorIs(err, entity.ErrLinkNotFound)
		suite.Nil(link)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`UPDATE links SET visits = visits \+ 1`).
			WithArgs("abc123").
			WillReturnError(suite.errUnknown)

		link, err := suite.repo.IncrementVisits(context.Background(), "abc123")

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(link)
	})

	suite.Run("success", func() {
		suite.mock.ExpectQuery(`UPDATE links SET visits = visits \+ 1`).
			WithArgs("abc123").
			WillReturnRows(suite.row("abc123", "https://example.com", nil, nil, nil, 1))

		link, err := suite.repo.IncrementVisits(context.Background(), "abc123")

		suite.NoError(err)
		suite.Equal("https://example.com", link.OriginalURL)
		suite.Equal(int64(1), link.Visits)
	})
}

func (suite *LinkRepositoryTestSuite) TestDelete() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectExec(`DELETE FROM links`).
			WithArgs(suite.id).
			WillReturnError(suite.errUnknown)

		err := suite.repo.Delete(context.Background(), suite.id)

		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("rows affected error", func() {
		suite.mock.ExpectExec(`DELETE FROM links`).
			WithArgs(suite.id).
			WillReturnResult(sqlmock.NewErrorResult(suite.errAffectedRows))

		err := suite.repo.Delete(context.Background(), suite.id)

		suite.ErrorIs(err, suite.errAffectedRows)
	})

	suite.Run("link not found", func() {
		suite.mock.ExpectExec(`DELETE FROM links`).
			WithArgs(suite.id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := suite.repo.Delete(context.Background(), suite.id)

		suite.ErrorIs(err, entity.ErrLinkNotFound)
	})

	suite.Run("success", func() {
		suite.mock.ExpectExec(`DELETE FROM links`).
			WithArgs(suite.id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := suite.repo.Delete(context.Background(), suite.id)

		suite.NoError(err)
	})
}

func TestLinkRepository(t *testing.T) {
	suite.Run(t, new(LinkRepositoryTestSuite))
}

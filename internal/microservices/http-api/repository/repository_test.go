package repository_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"mediahub/database"
	"mediahub/internal/microservices/http-api/models"
	"mediahub/internal/microservices/http-api/repository"
)

type RepositorySuite struct {
	suite.Suite
	db        *gorm.DB
	media     repository.MediaRepository
	users     repository.UserRepository
	userMedia repository.UserMediaRepository
	ctx       context.Context
}

func (s *RepositorySuite) SetupTest() {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(s.T().Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := database.Open(database.DriverSQLite, dsn)
	s.Require().NoError(err)

	s.db = db
	s.media = repository.NewMediaRepository(db)
	s.users = repository.NewUserRepository(db)
	s.userMedia = repository.NewUserMediaRepository(db)
	s.ctx = context.Background()
}

func (s *RepositorySuite) TearDownTest() {
	s.NoError(database.Close(s.db))
}

func (s *RepositorySuite) newMedia(title string, year int, rating float64) *models.Media {
	m := &models.Media{
		Title:         title,
		ReleaseDate:   time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
		AverageRating: rating,
		Type:          models.MediaTypeMovie,
	}
	s.Require().NoError(s.media.Create(s.ctx, m))
	return m
}

func (s *RepositorySuite) newUser(name string, age int) *models.User {
	u := &models.User{Name: name, Age: age, Gender: models.GenderOther}
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *RepositorySuite) TestMediaCRUD() {
	m := s.newMedia("Alien", 1979, 8.5)
	s.NotZero(m.ID)

	got, err := s.media.GetByID(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Equal("Alien", got.Title)
	s.Equal("1979-06-01", got.ReleaseDate.Format("2006-01-02"))

	got.Title = "Aliens"
	got.AverageRating = 8.4
	s.Require().NoError(s.media.Update(s.ctx, got))

	again, err := s.media.GetByID(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Equal("Aliens", again.Title)
	s.Equal(8.4, again.AverageRating)

	s.Require().NoError(s.media.Delete(s.ctx, m.ID))
	_, err = s.media.GetByID(s.ctx, m.ID)
	s.True(repository.IsNotFound(err))
}

func (s *RepositorySuite) TestCreateIgnoresClientID() {
	first := s.newMedia("First", 1990, 5)
	m := &models.Media{ID: 999, Title: "Second", ReleaseDate: time.Now(), Type: models.MediaTypeTVShow}
	s.Require().NoError(s.media.Create(s.ctx, m))
	s.Equal(first.ID+1, m.ID)
}

func (s *RepositorySuite) TestListOrderedByID() {
	s.newMedia("C", 2001, 1)
	s.newMedia("A", 2002, 2)
	s.newMedia("B", 2003, 3)

	list, err := s.media.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]string{"C", "A", "B"}, []string{list[0].Title, list[1].Title, list[2].Title})
}

func (s *RepositorySuite) TestListEmptyIsNotNil() {
	list, err := s.users.List(s.ctx)
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)
}

func (s *RepositorySuite) TestSubscriptions() {
	m1 := s.newMedia("Heat", 1995, 8.3)
	m2 := s.newMedia("Ronin", 1998, 7.2)
	u1 := s.newUser("ann", 30)
	u2 := s.newUser("bob", 40)

	link, err := s.userMedia.Create(s.ctx, u1.ID, m1.ID)
	s.Require().NoError(err)
	s.NotZero(link.ID)
	_, err = s.userMedia.Create(s.ctx, u2.ID, m1.ID)
	s.Require().NoError(err)
	_, err = s.userMedia.Create(s.ctx, u1.ID, m2.ID)
	s.Require().NoError(err)

	ids, err := s.userMedia.UserIDsByMedia(s.ctx, m1.ID, 0)
	s.Require().NoError(err)
	s.Equal([]int64{u1.ID, u2.ID}, ids)

	ids, err = s.userMedia.UserIDsByMedia(s.ctx, m1.ID, 1)
	s.Require().NoError(err)
	s.Equal([]int64{u1.ID}, ids)

	ids, err = s.userMedia.MediaIDsByUser(s.ctx, u1.ID, 0)
	s.Require().NoError(err)
	s.Equal([]int64{m1.ID, m2.ID}, ids)

	exists, err := s.userMedia.Exists(s.ctx, u2.ID, m2.ID)
	s.Require().NoError(err)
	s.False(exists)

	byUser, err := s.userMedia.ListByUser(s.ctx, u1.ID)
	s.Require().NoError(err)
	s.Len(byUser, 2)

	pair, err := s.userMedia.GetByPair(s.ctx, u2.ID, m1.ID)
	s.Require().NoError(err)
	n, err := s.userMedia.Delete(s.ctx, pair.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = s.userMedia.Delete(s.ctx, pair.ID)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *RepositorySuite) TestDuplicateSubscriptionConflicts() {
	m := s.newMedia("Heat", 1995, 8.3)
	u := s.newUser("ann", 30)

	_, err := s.userMedia.Create(s.ctx, u.ID, m.ID)
	s.Require().NoError(err)
	_, err = s.userMedia.Create(s.ctx, u.ID, m.ID)
	s.True(errors.Is(err, repository.ErrConflict), "got %v", err)
}

func (s *RepositorySuite) TestMissingReferenceConflicts() {
	u := s.newUser("ann", 30)
	_, err := s.userMedia.Create(s.ctx, u.ID, 4242)
	s.True(errors.Is(err, repository.ErrConflict), "got %v", err)
}

func (s *RepositorySuite) TestDeleteCascadesToSubscriptions() {
	m := s.newMedia("Heat", 1995, 8.3)
	u := s.newUser("ann", 30)
	_, err := s.userMedia.Create(s.ctx, u.ID, m.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.media.Delete(s.ctx, m.ID))

	ids, err := s.userMedia.MediaIDsByUser(s.ctx, u.ID, 0)
	s.Require().NoError(err)
	s.Empty(ids)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, repository.IsNotFound(fmt.Errorf("get: %w", gorm.ErrRecordNotFound)))
	assert.False(t, repository.IsNotFound(errors.New("boom")))
	require.False(t, repository.IsNotFound(nil))
}

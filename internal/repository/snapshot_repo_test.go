package repository_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"review-dashboard/internal/database"
	"review-dashboard/internal/domain"
	"review-dashboard/internal/provider"
	"review-dashboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SnapshotRepositoryTestSuite struct {
	suite.Suite
	db   *sql.DB
	repo domain.SnapshotRepository
	ctx  context.Context
}

func (suite *SnapshotRepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	db, err := database.Open(os.Getenv("TEST_DATABASE_DSN"))
	require.NoError(suite.T(), err, "failed to connect to test database")

	suite.db = db
	suite.repo = repository.NewSnapshotRepository(db)
}

func (suite *SnapshotRepositoryTestSuite) SetupTest() {
	_, err := suite.db.ExecContext(suite.ctx, "TRUNCATE snapshot_reviews, metric_snapshots")
	require.NoError(suite.T(), err)
}

func (suite *SnapshotRepositoryTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *SnapshotRepositoryTestSuite) TestFetchSnapshot_NothingPublished() {
	_, err := suite.repo.FetchSnapshot(suite.ctx)

	var providerErr *domain.ProviderError
	require.ErrorAs(suite.T(), err, &providerErr)
	assert.ErrorIs(suite.T(), err, domain.ErrSnapshotNotFound)
}

func (suite *SnapshotRepositoryTestSuite) TestPublishAndFetch_RoundTrip() {
	snapshot := provider.SampleSnapshot("coderabbitai[bot]")

	id, err := suite.repo.Publish(suite.ctx, &snapshot)
	require.NoError(suite.T(), err)
	assert.Positive(suite.T(), id)

	got, err := suite.repo.FetchSnapshot(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), snapshot, *got)
}

func (suite *SnapshotRepositoryTestSuite) TestFetchSnapshot_ReturnsLatest() {
	older := provider.SampleSnapshot("bot")
	newer := provider.SampleSnapshot("bot")
	newer.TotalReviews = 300
	newer.RecentReviews = newer.RecentReviews[:1]

	_, err := suite.repo.Publish(suite.ctx, &older)
	require.NoError(suite.T(), err)
	_, err = suite.repo.Publish(suite.ctx, &newer)
	require.NoError(suite.T(), err)

	got, err := suite.repo.FetchSnapshot(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(300), got.TotalReviews)
	assert.Len(suite.T(), got.RecentReviews, 1)
}

func (suite *SnapshotRepositoryTestSuite) TestFetchSnapshot_EmptyRecentReviews() {
	snapshot := provider.SampleSnapshot("bot")
	snapshot.RecentReviews = nil

	_, err := suite.repo.Publish(suite.ctx, &snapshot)
	require.NoError(suite.T(), err)

	got, err := suite.repo.FetchSnapshot(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), got.RecentReviews)
}

func (suite *SnapshotRepositoryTestSuite) TestPublish_RejectsUnknownOutcome() {
	snapshot := provider.SampleSnapshot("bot")
	snapshot.RecentReviews[0].Outcome = "rejected"

	_, err := suite.repo.Publish(suite.ctx, &snapshot)
	assert.Error(suite.T(), err)

	_, err = suite.repo.FetchSnapshot(suite.ctx)
	assert.ErrorIs(suite.T(), err, domain.ErrSnapshotNotFound)
}

func TestSnapshotRepositorySuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_DSN") == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}
	suite.Run(t, new(SnapshotRepositoryTestSuite))
}

func TestPublish_NilSnapshot(t *testing.T) {
	repo := repository.NewSnapshotRepository(nil)

	_, err := repo.Publish(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrEmptySnapshot)
}

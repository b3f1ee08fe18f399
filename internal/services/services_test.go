package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/threads-api/internal/constants"
	"github.com/yukikurage/threads-api/internal/database"
	apierrors "github.com/yukikurage/threads-api/internal/errors"
	"github.com/yukikurage/threads-api/internal/models"
	"github.com/yukikurage/threads-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingNotifier struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNotifier) Invalidate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNotifier) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// ServiceTestSuite runs the services against SQLite-backed repositories
type ServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	ctx         context.Context
	notifier    *recordingNotifier
	threads     *ThreadService
	users       *UserService
	communities *CommunityService
	tick        int
}

func (suite *ServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	manager := database.NewManagerWithGorm(suite.db)
	suite.Require().NoError(manager.Migrate())

	repos, err := repository.New(manager)
	suite.Require().NoError(err)

	suite.ctx = context.Background()
	suite.tick = 0
	suite.notifier = &recordingNotifier{}
	suite.threads = NewThreadService(repos.Threads, repos.Communities, suite.notifier).WithClock(suite.now)
	suite.users = NewUserService(repos.Users, repos.Threads, suite.notifier).WithClock(suite.now)
	suite.communities = NewCommunityService(repos.Communities)
}

func (suite *ServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ServiceTestSuite) now() time.Time {
	suite.tick++
	return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(suite.tick) * time.Second)
}

func (suite *ServiceTestSuite) onboard(authID, username string) *models.User {
	user, err := suite.users.UpdateUser(suite.ctx, UpdateUserInput{
		AuthID:   authID,
		Username: username,
		Name:     username,
		Path:     "/onboarding",
	})
	suite.Require().NoError(err)
	return user
}

func (suite *ServiceTestSuite) post(author *models.User, text string) *models.Thread {
	thread, err := suite.threads.CreateThread(suite.ctx, CreateThreadInput{Text: text, AuthorID: author.ID, Path: "/"})
	suite.Require().NoError(err)
	return thread
}

func (suite *ServiceTestSuite) comment(parent *models.Thread, author *models.User, text string) *models.Thread {
	reply, err := suite.threads.AddCommentToThread(suite.ctx, AddCommentInput{
		ThreadID: parent.ID,
		Text:     text,
		AuthorID: author.ID,
		Path:     "/thread/" + parent.ID,
	})
	suite.Require().NoError(err)
	return reply
}

func (suite *ServiceTestSuite) threadCount() int64 {
	var n int64
	suite.Require().NoError(suite.db.Model(&models.Thread{}).Count(&n).Error)
	return n
}

func (suite *ServiceTestSuite) TestCreateThread_RejectsBlankText() {
	alice := suite.onboard("auth_alice", "alice")

	_, err := suite.threads.CreateThread(suite.ctx, CreateThreadInput{Text: "   ", AuthorID: alice.ID, Path: "/"})

	suite.True(errors.Is(err, apierrors.ErrValidation))
	suite.Equal(int64(0), suite.threadCount())
	suite.Empty(suite.notifier.Paths())
}

func (suite *ServiceTestSuite) TestCreateThread_ResolvesCommunity() {
	alice := suite.onboard("auth_alice", "alice")
	club, err := suite.communities.CreateCommunity(suite.ctx, CreateCommunityInput{CommunityID: "org_club", Name: "Club"})
	suite.Require().NoError(err)

	known := "org_club"
	inClub, err := suite.threads.CreateThread(suite.ctx, CreateThreadInput{Text: "club post", AuthorID: alice.ID, CommunityID: &known, Path: "/"})
	suite.Require().NoError(err)
	suite.Require().NotNil(inClub.CommunityID)
	suite.Equal(club.ID, *inClub.CommunityID)

	unknown := "org_nope"
	personal, err := suite.threads.CreateThread(suite.ctx, CreateThreadInput{Text: "mine", AuthorID: alice.ID, CommunityID: &unknown, Path: "/create-thread"})
	suite.Require().NoError(err)
	suite.Nil(personal.CommunityID)

	suite.Equal([]string{"/", "/create-thread"}, suite.notifier.Paths())

	posts, err := suite.communities.FetchCommunityPosts(suite.ctx, "org_club")
	suite.Require().NoError(err)
	suite.Require().Len(posts.Threads, 1)
	suite.Equal("club post", posts.Threads[0].Text)
}

func (suite *ServiceTestSuite) TestCreateThread_UnknownAuthor() {
	_, err := suite.threads.CreateThread(suite.ctx, CreateThreadInput{Text: "hello", AuthorID: "ghost", Path: "/"})

	suite.True(errors.Is(err, apierrors.ErrNotFound))
	suite.Contains(err.Error(), "failed to create thread")
	suite.Empty(suite.notifier.Paths())
}

func (suite *ServiceTestSuite) TestFetchThreads_PaginationLaw() {
	alice := suite.onboard("auth_alice", "alice")
	var posts []*models.Thread
	for i := 1; i <= 5; i++ {
		posts = append(posts, suite.post(alice, fmt.Sprintf("post %d", i)))
	}
	suite.comment(posts[0], alice, "not on the feed")

	tests := []struct {
		page     int
		expected []string
		isNext   bool
	}{
		{1, []string{"post 5", "post 4"}, true},
		{2, []string{"post 3", "post 2"}, true},
		{3, []string{"post 1"}, false},
		{4, []string{}, false},
	}

	for _, tt := range tests {
		suite.Run(fmt.Sprintf("page %d", tt.page), func() {
			page, err := suite.threads.FetchThreads(suite.ctx, tt.page, 2)
			suite.Require().NoError(err)
			texts := []string{}
			for _, t := range page.Threads {
				texts = append(texts, t.Text)
			}
			suite.Equal(tt.expected, texts)
			suite.Equal(tt.isNext, page.IsNext)
		})
	}

	first, err := suite.threads.FetchThreads(suite.ctx, 3, 2)
	suite.Require().NoError(err)
	suite.Require().Len(first.Threads[0].Children, 1)

	_, err = suite.threads.FetchThreads(suite.ctx, 0, 2)
	suite.True(errors.Is(err, apierrors.ErrValidation))
	_, err = suite.threads.FetchThreads(suite.ctx, 1, 0)
	suite.True(errors.Is(err, apierrors.ErrValidation))
}

func (suite *ServiceTestSuite) TestPaging_RejectsOutOfRangePages() {
	alice := suite.onboard("auth_alice", "alice")
	suite.onboard("auth_bob", "bob")
	for i := 1; i <= 3; i++ {
		suite.post(alice, fmt.Sprintf("post %d", i))
	}

	for _, pageNumber := range []int{math.MaxInt64 / 2, math.MaxInt, constants.MaxPageNumber + 1} {
		suite.Run(fmt.Sprintf("page %d", pageNumber), func() {
			page, err := suite.threads.FetchThreads(suite.ctx, pageNumber, 4)
			suite.True(errors.Is(err, apierrors.ErrValidation))
			suite.Nil(page)

			users, err := suite.users.FetchUsers(suite.ctx, FetchUsersInput{AuthID: "auth_alice", PageNumber: pageNumber, PageSize: 4})
			suite.True(errors.Is(err, apierrors.ErrValidation))
			suite.Nil(users)
		})
	}

	_, err := suite.threads.FetchThreads(suite.ctx, 2, math.MaxInt)
	suite.True(errors.Is(err, apierrors.ErrValidation))

	last, err := suite.threads.FetchThreads(suite.ctx, constants.MaxPageNumber, 4)
	suite.Require().NoError(err)
	suite.Empty(last.Threads)
	suite.False(last.IsNext)
}

func (suite *ServiceTestSuite) TestFetchThreadByID() {
	alice := suite.onboard("auth_alice", "alice")
	bob := suite.onboard("auth_bob", "bob")
	root := suite.post(alice, "root")
	reply := suite.comment(root, bob, "reply")
	suite.comment(reply, alice, "nested")

	thread, err := suite.threads.FetchThreadByID(suite.ctx, root.ID)
	suite.Require().NoError(err)
	suite.Equal("alice", thread.Author.Username)
	suite.Require().Len(thread.Children, 1)
	suite.Equal("bob", thread.Children[0].Author.Username)
	suite.Require().Len(thread.Children[0].Children, 1)
	suite.Equal("nested", thread.Children[0].Children[0].Text)

	_, err = suite.threads.FetchThreadByID(suite.ctx, "missing")
	suite.True(errors.Is(err, apierrors.ErrNotFound))
}

func (suite *ServiceTestSuite) TestAddComment_MissingThreadWritesNothing() {
	alice := suite.onboard("auth_alice", "alice")
	suite.notifier.paths = nil

	_, err := suite.threads.AddCommentToThread(suite.ctx, AddCommentInput{
		ThreadID: "missing",
		Text:     "hello?",
		AuthorID: alice.ID,
		Path:     "/thread/missing",
	})

	suite.True(errors.Is(err, apierrors.ErrNotFound))
	suite.Equal(int64(0), suite.threadCount())
	suite.Empty(suite.notifier.Paths())
}

func (suite *ServiceTestSuite) TestAddComment_SignalsInvalidation() {
	alice := suite.onboard("auth_alice", "alice")
	root := suite.post(alice, "root")

	reply := suite.comment(root, alice, "me again")

	suite.Require().NotNil(reply.ParentID)
	suite.Equal(root.ID, *reply.ParentID)
	suite.Contains(suite.notifier.Paths(), "/thread/"+root.ID)
}

func (suite *ServiceTestSuite) TestUpdateUser() {
	created, err := suite.users.UpdateUser(suite.ctx, UpdateUserInput{
		AuthID:   "auth_alice",
		Username: "AliceW",
		Name:     "Alice",
		Path:     "/onboarding",
	})
	suite.Require().NoError(err)
	suite.Equal("alicew", created.Username)
	suite.True(created.Onboarded)
	suite.Empty(suite.notifier.Paths())

	updated, err := suite.users.UpdateUser(suite.ctx, UpdateUserInput{
		AuthID:   "auth_alice",
		Username: "alicew",
		Name:     "Alice W.",
		Bio:      "hello",
		Path:     "/profile/edit",
	})
	suite.Require().NoError(err)
	suite.Equal(created.ID, updated.ID)
	suite.Equal("Alice W.", updated.Name)
	suite.Equal([]string{"/profile/edit"}, suite.notifier.Paths())

	fetched, err := suite.users.FetchUser(suite.ctx, "auth_alice")
	suite.Require().NoError(err)
	suite.Equal("hello", fetched.Bio)

	_, err = suite.users.UpdateUser(suite.ctx, UpdateUserInput{AuthID: "auth_other", Username: "ALICEW", Name: "Copy"})
	suite.True(errors.Is(err, apierrors.ErrConflict))

	_, err = suite.users.UpdateUser(suite.ctx, UpdateUserInput{AuthID: "auth_other", Username: " "})
	suite.True(errors.Is(err, apierrors.ErrValidation))
}

func (suite *ServiceTestSuite) TestFetchUser_NotFound() {
	_, err := suite.users.FetchUser(suite.ctx, "auth_nobody")
	suite.True(errors.Is(err, apierrors.ErrNotFound))

	_, err = suite.users.FetchUserPosts(suite.ctx, "auth_nobody")
	suite.True(errors.Is(err, apierrors.ErrNotFound))

	_, err = suite.users.FetchActivities(suite.ctx, "auth_nobody")
	suite.True(errors.Is(err, apierrors.ErrNotFound))
}

func (suite *ServiceTestSuite) TestFetchUsers() {
	suite.onboard("auth_me", "me")
	suite.onboard("auth_a", "anna")
	suite.onboard("auth_b", "bert")
	suite.onboard("auth_c", "hannah")

	page, err := suite.users.FetchUsers(suite.ctx, FetchUsersInput{AuthID: "auth_me"})
	suite.Require().NoError(err)
	suite.Len(page.Users, 3)
	suite.False(page.IsNext)
	suite.Equal("hannah", page.Users[0].Username)

	page, err = suite.users.FetchUsers(suite.ctx, FetchUsersInput{AuthID: "auth_me", SearchString: "  NN ", SortBy: "asc"})
	suite.Require().NoError(err)
	suite.Require().Len(page.Users, 2)
	suite.Equal("anna", page.Users[0].Username)
	suite.Equal("hannah", page.Users[1].Username)

	page, err = suite.users.FetchUsers(suite.ctx, FetchUsersInput{AuthID: "auth_me", PageNumber: 1, PageSize: 2})
	suite.Require().NoError(err)
	suite.Len(page.Users, 2)
	suite.True(page.IsNext)

	page, err = suite.users.FetchUsers(suite.ctx, FetchUsersInput{AuthID: "auth_me", SearchString: ".*"})
	suite.Require().NoError(err)
	suite.Empty(page.Users)

	_, err = suite.users.FetchUsers(suite.ctx, FetchUsersInput{AuthID: "auth_me", SortBy: "sideways"})
	suite.True(errors.Is(err, apierrors.ErrValidation))
}

func (suite *ServiceTestSuite) TestFetchUsers_MatchesAccentedNames() {
	suite.onboard("auth_me", "me")
	_, err := suite.users.UpdateUser(suite.ctx, UpdateUserInput{AuthID: "auth_e", Username: "elise", Name: "Élise"})
	suite.Require().NoError(err)

	page, err := suite.users.FetchUsers(suite.ctx, FetchUsersInput{AuthID: "auth_me", SearchString: "élise"})
	suite.Require().NoError(err)
	suite.Require().Len(page.Users, 1)
	suite.Equal("elise", page.Users[0].Username)
}

func (suite *ServiceTestSuite) TestFetchActivities_ExcludesOwnReplies() {
	alice := suite.onboard("auth_alice", "alice")
	bob := suite.onboard("auth_bob", "bob")

	root := suite.post(alice, "root")
	suite.comment(root, bob, "first from bob")
	suite.comment(root, alice, "alice answers")
	suite.comment(root, bob, "second from bob")

	replies, err := suite.users.FetchActivities(suite.ctx, "auth_alice")
	suite.Require().NoError(err)
	suite.Require().Len(replies, 2)
	suite.Equal("second from bob", replies[0].Text)
	suite.Equal("first from bob", replies[1].Text)
	suite.Equal("bob", replies[0].Author.Username)

	replies, err = suite.users.FetchActivities(suite.ctx, "auth_bob")
	suite.Require().NoError(err)
	suite.Empty(replies)
}

func (suite *ServiceTestSuite) TestFetchUserPosts() {
	alice := suite.onboard("auth_alice", "alice")
	bob := suite.onboard("auth_bob", "bob")
	mine := suite.post(alice, "mine")
	other := suite.post(bob, "bob's")
	suite.comment(other, alice, "reply, not a post")
	suite.comment(mine, bob, "nice")

	user, err := suite.users.FetchUserPosts(suite.ctx, "auth_alice")
	suite.Require().NoError(err)
	suite.Require().Len(user.Threads, 1)
	suite.Equal("mine", user.Threads[0].Text)
	suite.Require().Len(user.Threads[0].Children, 1)
	suite.Equal("bob", user.Threads[0].Children[0].Author.Username)
}

func (suite *ServiceTestSuite) TestCommunity() {
	_, err := suite.communities.CreateCommunity(suite.ctx, CreateCommunityInput{CommunityID: "", Name: "x"})
	suite.True(errors.Is(err, apierrors.ErrValidation))

	_, err = suite.communities.FetchCommunityPosts(suite.ctx, "org_missing")
	suite.True(errors.Is(err, apierrors.ErrNotFound))
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestFail_ClassifiesRepositoryErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"not found", fmt.Errorf("%w: users", repository.ErrNotFound), apierrors.ErrNotFound},
		{"duplicate", repository.ErrDuplicate, apierrors.ErrConflict},
		{"timeout", context.DeadlineExceeded, apierrors.ErrConnection},
		{"other", errors.New("disk full"), apierrors.ErrPersistence},
		{"already tagged", apierrors.Newf(apierrors.ErrValidation, "x", "bad"), apierrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fail("do thing", tt.err)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

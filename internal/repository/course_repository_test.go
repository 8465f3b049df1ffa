package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy/internal/model"
)

func TestCourseRepository_TitlesAndPages(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	title := &model.CourseTitle{Name: "Go Basics", RoleName: model.CourseOwnerRoleName("Go Basics")}
	require.NoError(t, repo.CreateTitle(ctx, title))

	last, err := repo.LastPage(ctx, title.ID)
	require.NoError(t, err)
	assert.Zero(t, last)

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.CreatePage(ctx, &model.Course{CourseTitleID: title.ID, Page: i, Heading: "h"}))
	}
	assert.Error(t, repo.CreatePage(ctx, &model.Course{CourseTitleID: title.ID, Page: 2}), "page numbers are unique per title")

	last, err = repo.LastPage(ctx, title.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, last)

	page, err := repo.FindPage(ctx, title.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, 2, page.Page)

	missing, err := repo.FindPage(ctx, title.ID, 4)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	byName, err := repo.FindTitleByName(ctx, "Go Basics")
	require.NoError(t, err)
	assert.Equal(t, title.ID, byName.ID)

	exists, err := repo.ExistsTitleByName(ctx, "Go Basics")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsTitleByNameExcept(ctx, "Go Basics", title.ID)
	require.NoError(t, err)
	assert.False(t, exists, "a title does not collide with itself")

	exists, err = repo.ExistsTitleByNameExcept(ctx, "Go Basics", title.ID+1)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeletePages(ctx, title.ID))
	require.NoError(t, repo.DeleteTitle(ctx, title.ID))

	gone, err := repo.FindTitleByID(ctx, title.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCourseProgressRepository_FindMove(t *testing.T) {
	db := newRepositoryDBForTest(t)
	courses := NewCourseRepository(db)
	progress := NewCourseProgressRepository(db)
	ctx := context.Background()
	user := createUserForTest(t, db, "alice@x.com")

	title := &model.CourseTitle{Name: "Rust", RoleName: model.CourseOwnerRoleName("Rust")}
	require.NoError(t, courses.CreateTitle(ctx, title))
	p1 := &model.Course{CourseTitleID: title.ID, Page: 1}
	p2 := &model.Course{CourseTitleID: title.ID, Page: 2}
	require.NoError(t, courses.CreatePage(ctx, p1))
	require.NoError(t, courses.CreatePage(ctx, p2))

	none, err := progress.Find(ctx, user.ID, title.ID)
	assert.NoError(t, err)
	assert.Nil(t, none)

	row := &model.CourseProgress{UserID: user.ID, CourseTitleID: title.ID, CourseID: p1.ID}
	require.NoError(t, progress.Create(ctx, row))
	assert.Error(t, progress.Create(ctx, &model.CourseProgress{UserID: user.ID, CourseTitleID: title.ID, CourseID: p1.ID}))

	require.NoError(t, progress.MoveTo(ctx, row.ID, p2.ID))
	got, err := progress.Find(ctx, user.ID, title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Course)
	assert.Equal(t, 2, got.Course.Page)

	require.NoError(t, progress.DeleteByCourseTitle(ctx, title.ID))
	got, err = progress.Find(ctx, user.ID, title.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestActivationCodeRepository(t *testing.T) {
	db := newRepositoryDBForTest(t)
	courses := NewCourseRepository(db)
	codes := NewActivationCodeRepository(db)
	ctx := context.Background()
	user := createUserForTest(t, db, "alice@x.com")

	title := &model.CourseTitle{Name: "SQL", RoleName: model.CourseOwnerRoleName("SQL")}
	require.NoError(t, courses.CreateTitle(ctx, title))
	require.NoError(t, codes.Create(ctx, &model.ActivationCode{Code: "ABCDEFGHIJKLMNO", UserID: user.ID, CourseTitleID: title.ID}))

	got, err := codes.FindByCode(ctx, "ABCDEFGHIJKLMNO")
	require.NoError(t, err)
	require.NotNil(t, got.CourseTitle)
	assert.Equal(t, "SQL", got.CourseTitle.Name)

	exists, err := codes.ExistsByCode(ctx, "ABCDEFGHIJKLMNO")
	require.NoError(t, err)
	assert.True(t, exists)

	deleted, err := codes.DeleteByCode(ctx, "ABCDEFGHIJKLMNO")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = codes.DeleteByCode(ctx, "ABCDEFGHIJKLMNO")
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, codes.Create(ctx, &model.ActivationCode{Code: "ZZZZZZZZZZZZZZZ", UserID: user.ID, CourseTitleID: title.ID}))
	require.NoError(t, codes.DeleteByCourseTitle(ctx, title.ID))
	exists, err = codes.ExistsByCode(ctx, "ZZZZZZZZZZZZZZZ")
	require.NoError(t, err)
	assert.False(t, exists)
}

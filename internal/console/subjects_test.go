package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

func subjectFixture() *fakeAPI {
	return &fakeAPI{
		courses: []models.Course{
			{ID: "c1", Name: "Senior Secondary", CourseType: models.CourseTypeAcademic},
			{ID: "c2", Name: "Diploma in Nursing", CourseType: models.CourseTypeDiploma},
			{ID: "c3", Name: "B.A.", CourseType: models.CourseTypeDegree},
		},
		subjects: []models.Subject{
			{ID: "s1", Name: "English", Code: "ENG", Type: models.SubjectTypeLanguage, CourseID: "c1"},
			{ID: "s2", Name: "Anatomy", Code: "ANA", Type: models.SubjectTypeNonLanguage, CourseID: "c2"},
			{ID: "s3", Name: "Carpentry", Code: "CRP", Type: models.SubjectTypeVocational, CourseID: "c1"},
		},
	}
}

func newSubjectCatalog(api *fakeAPI) (*SubjectCatalog, *Recorder) {
	rec := &Recorder{}
	return NewSubjectCatalog(api, api, adminSession(), Options{PageSize: 10, Notifier: rec, Confirmer: AlwaysConfirm}), rec
}

func TestSubjectFormDefaultsToFirstCourse(t *testing.T) {
	catalog, _ := newSubjectCatalog(subjectFixture())
	assert.Empty(t, catalog.Form().Values().CourseID)

	require.NoError(t, catalog.Reload(context.Background()))
	assert.Equal(t, "c1", catalog.Form().Values().CourseID)
	assert.Equal(t, models.SubjectTypeLanguage, catalog.Form().Values().Type)
	assert.Len(t, catalog.List().Items(), 3)
	assert.Equal(t, "Diploma in Nursing", catalog.CourseName("c2"))
	assert.Equal(t, "Unknown", catalog.CourseName("c9"))
}

func TestCourseOptionsNarrowedSeparately(t *testing.T) {
	catalog, _ := newSubjectCatalog(subjectFixture())
	require.NoError(t, catalog.Reload(context.Background()))

	catalog.SetCreateCourseType(models.CourseTypeDiploma)
	require.Len(t, catalog.CreateCourseOptions(), 1)
	assert.Equal(t, "c2", catalog.Form().Values().CourseID)
	assert.Len(t, catalog.FilterCourseOptions(), 3)

	catalog.SetCreateCourseType(models.CourseTypePhD)
	assert.Empty(t, catalog.CreateCourseOptions())
	assert.Empty(t, catalog.Form().Values().CourseID)

	catalog.SetCreateCourseType("")
	assert.Equal(t, "c1", catalog.Form().Values().CourseID)
	assert.Len(t, catalog.CourseOptions(models.CourseTypeDegree), 1)
}

func TestFilterCourseTypeDropsStaleCourseFilter(t *testing.T) {
	api := subjectFixture()
	catalog, _ := newSubjectCatalog(api)
	ctx := context.Background()
	require.NoError(t, catalog.Reload(ctx))

	require.NoError(t, catalog.FilterByCourse(ctx, "c1"))
	assert.Len(t, catalog.List().Items(), 2)
	assert.Equal(t, "c1", api.subjectLists[len(api.subjectLists)-1].CourseID)

	require.NoError(t, catalog.SetFilterCourseType(ctx, models.CourseTypeDiploma))
	assert.Empty(t, catalog.List().Filter(FilterCourseID))
	assert.Len(t, catalog.List().Items(), 3)

	err := catalog.FilterByCourse(ctx, "c1")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}

func TestSubjectFiltersCombine(t *testing.T) {
	api := subjectFixture()
	catalog, _ := newSubjectCatalog(api)
	ctx := context.Background()
	require.NoError(t, catalog.Reload(ctx))

	require.NoError(t, catalog.FilterByType(ctx, models.SubjectTypeVocational))
	require.NoError(t, catalog.FilterByCode(ctx, "crp"))
	require.NoError(t, catalog.FilterByName(ctx, "Carp"))
	last := api.subjectLists[len(api.subjectLists)-1]
	assert.Equal(t, dto.ListSubjectsRequest{Limit: 10, Name: "Carp", Code: "crp", Type: models.SubjectTypeVocational}, last)
	require.Len(t, catalog.List().Items(), 1)
	assert.Equal(t, "s3", catalog.List().Items()[0].ID)
}

func TestSubjectMustReferenceLoadedCourse(t *testing.T) {
	api := subjectFixture()
	catalog, _ := newSubjectCatalog(api)
	ctx := context.Background()
	require.NoError(t, catalog.Reload(ctx))
	calls := api.callCount()

	catalog.Form().Set(dto.SubjectPayload{Name: "Sanskrit", Code: "SAN", CourseID: "c404", Type: models.SubjectTypeLanguage})
	err := catalog.Submit(ctx)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "courseId")
	assert.Equal(t, calls, api.callCount())

	catalog.Form().Update(func(p *dto.SubjectPayload) { p.CourseID = "c3" })
	require.NoError(t, catalog.Submit(ctx))
	assert.Len(t, catalog.List().Items(), 4)
	assert.Equal(t, "c1", catalog.Form().Values().CourseID)
}

func TestSubjectUpdateAndDelete(t *testing.T) {
	api := subjectFixture()
	catalog, rec := newSubjectCatalog(api)
	ctx := context.Background()
	require.NoError(t, catalog.Reload(ctx))

	require.NoError(t, catalog.Edit("s2"))
	assert.Equal(t, dto.SubjectPayload{Name: "Anatomy", Code: "ANA", CourseID: "c2", Type: models.SubjectTypeNonLanguage}, catalog.Form().Values())
	catalog.Form().Update(func(p *dto.SubjectPayload) { p.Code = "ANT" })
	require.NoError(t, catalog.Submit(ctx))
	assert.Equal(t, []string{"s2"}, api.updates)

	confirmed, err := catalog.Delete(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.Len(t, catalog.List().Items(), 2)
	note, _ := rec.Last()
	assert.Equal(t, "Subject deleted successfully!", note.Message)
}

func TestSubjectCourseLoadFailure(t *testing.T) {
	api := subjectFixture()
	catalog, rec := newSubjectCatalog(api)
	api.failList = appErrors.Clone(appErrors.ErrTransport, "down")

	require.Error(t, catalog.Reload(context.Background()))
	assert.Empty(t, catalog.Courses())
	note, _ := rec.Last()
	assert.Equal(t, "Failed to load courses. Please try again.", note.Message)
}

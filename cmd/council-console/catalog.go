package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/noah-isme/council-console/internal/console"
	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/pkg/export"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
	"github.com/noah-isme/council-console/pkg/storage"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// courseFlags are the editable course fields; only flags given on the command line
// are applied to the form.
type courseFlags struct {
	name     string
	fees     float64
	ctype    string
	duration float64
	unit     string
}

func (f *courseFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "course name")
	fs.Float64Var(&f.fees, "fees", 0, "course fees")
	fs.StringVar(&f.ctype, "type", "", "course type (ACADEMIC, DIPLOMA, CERTIFICATE, DEGREE, POST_GRADUATE, PHD)")
	fs.Float64Var(&f.duration, "duration", 0, "course duration")
	fs.StringVar(&f.unit, "duration-unit", "", "duration unit (MONTH, YEAR)")
}

func (f *courseFlags) apply(set map[string]bool) (func(*dto.CoursePayload), error) {
	fields := map[string]string{}
	var ctype models.CourseType
	if set["type"] {
		t, err := models.ParseCourseType(f.ctype)
		if err != nil {
			fields["courseType"] = err.Error()
		}
		ctype = t
	}
	var unit models.DurationUnit
	if set["duration-unit"] {
		u, err := models.ParseDurationUnit(f.unit)
		if err != nil {
			fields["durationType"] = err.Error()
		}
		unit = u
	}
	if len(fields) > 0 {
		return nil, appErrors.Validation("invalid course", fields)
	}

	return func(p *dto.CoursePayload) {
		if set["name"] {
			p.Name = f.name
		}
		if set["fees"] {
			p.Fees = f.fees
		}
		if set["type"] {
			p.CourseType = ctype
		}
		if set["duration"] {
			p.Duration = f.duration
		}
		if set["duration-unit"] {
			p.DurationType = unit
		}
	}, nil
}

type subjectFlags struct {
	name     string
	code     string
	stype    string
	courseID string
}

func (f *subjectFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "subject name")
	fs.StringVar(&f.code, "code", "", "subject code, unique within its course")
	fs.StringVar(&f.stype, "type", "", "subject type (LANGUAGE, NON_LANGUAGE, VOCATIONAL)")
	fs.StringVar(&f.courseID, "course", "", "id of the owning course")
}

func (f *subjectFlags) apply(set map[string]bool) (func(*dto.SubjectPayload), error) {
	var stype models.SubjectType
	if set["type"] {
		t, err := models.ParseSubjectType(f.stype)
		if err != nil {
			return nil, appErrors.Validation("invalid subject", map[string]string{"type": err.Error()})
		}
		stype = t
	}
	return func(p *dto.SubjectPayload) {
		if set["name"] {
			p.Name = f.name
		}
		if set["code"] {
			p.Code = f.code
		}
		if set["type"] {
			p.Type = stype
		}
		if set["course"] {
			p.CourseID = f.courseID
		}
	}, nil
}

// locate pages forward from the loaded page until id is on screen.
func locate[T, P any](ctx context.Context, m *console.Manager[T, P], noun, id string) error {
	for {
		if _, ok := m.Item(id); ok {
			return nil
		}
		if !m.List().PageInfo().HasNext {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %s not found", noun, id))
		}
		if err := m.Next(ctx); err != nil {
			return err
		}
	}
}

func requireID(id string) error {
	if id == "" {
		return appErrors.Validation("missing id", map[string]string{"id": "id is required"})
	}
	return nil
}

type courseQuery struct {
	page  int
	name  string
	ctype string
}

func (q *courseQuery) register(fs *flag.FlagSet) {
	fs.IntVar(&q.page, "page", 1, "page number")
	fs.StringVar(&q.name, "name", "", "filter by name")
	fs.StringVar(&q.ctype, "type", "", "filter by course type")
}

func (q *courseQuery) load(ctx context.Context, cat *console.CourseCatalog) error {
	if q.ctype != "" {
		t, err := models.ParseCourseType(q.ctype)
		if err != nil {
			return appErrors.Validation("invalid course filter", map[string]string{"courseType": err.Error()})
		}
		if err := cat.List().SetFilter(console.FilterCourseType, string(t)); err != nil {
			return err
		}
	}
	if err := cat.List().SetFilter(console.FilterName, q.name); err != nil {
		return err
	}
	if err := cat.Reload(ctx); err != nil {
		return err
	}
	if q.page > 1 {
		return cat.GoTo(ctx, q.page)
	}
	return nil
}

func (a *app) courseCatalog(ctx context.Context, yes bool) (*console.CourseCatalog, error) {
	sess, err := a.admin(ctx)
	if err != nil {
		return nil, err
	}
	return console.NewCourseCatalog(a.api, a.api, sess, a.options(yes)), nil
}

func coursesList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("courses list", a.errOut)
	var q courseQuery
	q.register(fs)
	expand := fs.Bool("expand", false, "show each course's subjects")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := a.courseCatalog(ctx, false)
	if err != nil {
		return err
	}
	if err := q.load(ctx, cat); err != nil {
		return err
	}

	courses := cat.List().Items()
	if len(courses) == 0 {
		printEmpty(a.out, "courses", cat.List().EmptyState())
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tFEES\tDURATION\tSUBJECTS")
	for _, c := range courses {
		subjects := cat.SubjectsOf(c.ID)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", c.ID, c.Name, c.CourseType.Label(), c.FeesLabel(), c.DurationLabel(), len(subjects))
		if *expand && cat.ToggleExpand(c.ID) {
			for _, s := range subjects {
				fmt.Fprintf(tw, "\t  %s\t%s\t\t\t\n", s.Code, s.Name)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, cat.List().PageInfo().Label)
	return nil
}

func coursesCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("courses create", a.errOut)
	var f courseFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	apply, err := f.apply(visited(fs))
	if err != nil {
		return err
	}

	cat, err := a.courseCatalog(ctx, false)
	if err != nil {
		return err
	}
	cat.Form().Update(apply)
	return cat.Submit(ctx)
}

func coursesUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("courses update", a.errOut)
	id := fs.String("id", "", "course id")
	var f courseFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}
	apply, err := f.apply(visited(fs))
	if err != nil {
		return err
	}

	cat, err := a.courseCatalog(ctx, false)
	if err != nil {
		return err
	}
	if err := cat.Reload(ctx); err != nil {
		return err
	}
	if err := locate(ctx, cat.Manager, "course", *id); err != nil {
		return err
	}
	if err := cat.Edit(*id); err != nil {
		return err
	}
	cat.Form().Update(apply)
	return cat.Submit(ctx)
}

func coursesDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("courses delete", a.errOut)
	id := fs.String("id", "", "course id")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	cat, err := a.courseCatalog(ctx, *yes)
	if err != nil {
		return err
	}
	if err := cat.Reload(ctx); err != nil {
		return err
	}
	if err := locate(ctx, cat.Manager, "course", *id); err != nil {
		return err
	}
	if n := len(cat.SubjectsOf(*id)); n > 0 {
		fmt.Fprintf(a.errOut, "this course has %d subject(s); they will be deleted with it\n", n)
	}
	confirmed, err := cat.Delete(ctx, *id)
	if err == nil && !confirmed {
		fmt.Fprintln(a.errOut, "delete cancelled")
	}
	return err
}

func coursesExport(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("courses export", a.errOut)
	var q courseQuery
	q.register(fs)
	format := fs.String("format", string(export.FormatCSV), "csv or pdf")
	out := fs.String("out", "", "file name under EXPORTS_DIR (default courses-page-N-<timestamp>.<format>)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := export.ParseFormat(*format)
	if err != nil {
		return appErrors.Validation("invalid export", map[string]string{"format": err.Error()})
	}

	cat, err := a.courseCatalog(ctx, false)
	if err != nil {
		return err
	}
	if err := q.load(ctx, cat); err != nil {
		return err
	}
	data, err := cat.Export(f)
	if err != nil {
		return err
	}

	store, err := storage.NewLocalStorage(a.cfg.Exports.Dir, 0)
	if err != nil {
		return err
	}
	name := *out
	if name == "" {
		name = fmt.Sprintf("courses-page-%d-%s%s", cat.List().PageInfo().Page, time.Now().Format("20060102-150405"), f.Extension())
	}
	path, err := store.Save(name, data)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, path)
	return nil
}

func (a *app) subjectCatalog(ctx context.Context, yes bool) (*console.SubjectCatalog, error) {
	sess, err := a.admin(ctx)
	if err != nil {
		return nil, err
	}
	return console.NewSubjectCatalog(a.api, a.api, sess, a.options(yes)), nil
}

func subjectsList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("subjects list", a.errOut)
	page := fs.Int("page", 1, "page number")
	name := fs.String("name", "", "filter by name")
	code := fs.String("code", "", "filter by code")
	stype := fs.String("type", "", "filter by subject type")
	courseID := fs.String("course", "", "filter by course id")
	courseType := fs.String("course-type", "", "only offer courses of this type in the course filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := a.subjectCatalog(ctx, false)
	if err != nil {
		return err
	}
	if err := cat.LoadCourses(ctx); err != nil {
		return err
	}
	if *courseType != "" {
		t, err := models.ParseCourseType(*courseType)
		if err != nil {
			return appErrors.Validation("invalid subject filter", map[string]string{"courseType": err.Error()})
		}
		if err := cat.SetFilterCourseType(ctx, t); err != nil {
			return err
		}
	}
	if *stype != "" {
		t, err := models.ParseSubjectType(*stype)
		if err != nil {
			return appErrors.Validation("invalid subject filter", map[string]string{"type": err.Error()})
		}
		if err := cat.List().SetFilter(console.FilterType, string(t)); err != nil {
			return err
		}
	}
	if err := cat.List().SetFilter(console.FilterName, *name); err != nil {
		return err
	}
	if err := cat.List().SetFilter(console.FilterCode, *code); err != nil {
		return err
	}
	if *courseID != "" {
		err = cat.FilterByCourse(ctx, *courseID)
	} else {
		err = cat.Manager.Reload(ctx)
	}
	if err != nil {
		return err
	}
	if *page > 1 {
		if err := cat.GoTo(ctx, *page); err != nil {
			return err
		}
	}

	subjects := cat.List().Items()
	if len(subjects) == 0 {
		printEmpty(a.out, "subjects", cat.List().EmptyState())
		return nil
	}
	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tTYPE\tCOURSE")
	for _, s := range subjects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Code, s.Name, s.Type, cat.CourseName(s.CourseID))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, cat.List().PageInfo().Label)
	return nil
}

func subjectsCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("subjects create", a.errOut)
	var f subjectFlags
	f.register(fs)
	courseType := fs.String("course-type", "", "default the course to the first course of this type")
	if err := fs.Parse(args); err != nil {
		return err
	}
	apply, err := f.apply(visited(fs))
	if err != nil {
		return err
	}

	cat, err := a.subjectCatalog(ctx, false)
	if err != nil {
		return err
	}
	if err := cat.LoadCourses(ctx); err != nil {
		return err
	}
	if *courseType != "" {
		t, err := models.ParseCourseType(*courseType)
		if err != nil {
			return appErrors.Validation("invalid subject", map[string]string{"courseType": err.Error()})
		}
		cat.SetCreateCourseType(t)
	}
	cat.Form().Update(apply)
	return cat.Submit(ctx)
}

func subjectsUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("subjects update", a.errOut)
	id := fs.String("id", "", "subject id")
	var f subjectFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}
	apply, err := f.apply(visited(fs))
	if err != nil {
		return err
	}

	cat, err := a.subjectCatalog(ctx, false)
	if err != nil {
		return err
	}
	if err := cat.Reload(ctx); err != nil {
		return err
	}
	if err := locate(ctx, cat.Manager, "subject", *id); err != nil {
		return err
	}
	if err := cat.Edit(*id); err != nil {
		return err
	}
	cat.Form().Update(apply)
	return cat.Submit(ctx)
}

func subjectsDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("subjects delete", a.errOut)
	id := fs.String("id", "", "subject id")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	cat, err := a.subjectCatalog(ctx, *yes)
	if err != nil {
		return err
	}
	if err := cat.Reload(ctx); err != nil {
		return err
	}
	if err := locate(ctx, cat.Manager, "subject", *id); err != nil {
		return err
	}
	confirmed, err := cat.Delete(ctx, *id)
	if err == nil && !confirmed {
		fmt.Fprintln(a.errOut, "delete cancelled")
	}
	return err
}

func printEmpty(w io.Writer, noun string, state console.EmptyState) {
	if state == console.EmptyNoMatch {
		fmt.Fprintf(w, "no %s match the current filters\n", noun)
		return
	}
	fmt.Fprintf(w, "no %s yet\n", noun)
}

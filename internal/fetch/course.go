package fetch

import (
	"context"

	"github.com/tranphat180603/canvas-cli/internal/canvas"
	"github.com/tranphat180603/canvas-cli/internal/pagination"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// CourseParams select a list inside one course.
type CourseParams struct {
	ListParams
	CourseID int64
}

// AssignmentsParams filter the assignment listing.
type AssignmentsParams struct {
	CourseParams
	IncludeSubmissions bool
}

// ModuleItemsParams select the items of one module.
type ModuleItemsParams struct {
	CourseParams
	ModuleID int64
}

// Assignments lists the assignments of a course, optionally with the user's submission.
func (f *Fetcher) Assignments(ctx context.Context, auth types.AuthContext, p AssignmentsParams) types.ToolOutput[types.Assignment] {
	page, size := p.clamped()
	return run(ctx, f, ToolListAssignments, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.Assignment, bool, error) {
		return listPage(ctx, c.Assignments(p.CourseID, p.IncludeSubmissions), p.ListParams, updatedAt, func(o canvas.Object) types.Assignment {
			return projectAssignment(o, p.CourseID)
		})
	})
}

// AssignmentGroups lists every grading category of a course with the summed weight.
// The listing is not paged.
func (f *Fetcher) AssignmentGroups(ctx context.Context, auth types.AuthContext, courseID int64) types.AssignmentGroupsOutput {
	var size int
	out := run(ctx, f, ToolListAssignmentGroups, auth, 1, 0, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.AssignmentGroup, bool, error) {
		objs, err := c.AssignmentGroups(courseID).All(ctx)
		if err != nil {
			return nil, false, err
		}
		size = len(objs)
		return projectAll(objs, projectAssignmentGroup), false, nil
	})
	out.Pagination = pagination.Info(1, size, false, nil)

	var total float64
	for _, g := range out.Items {
		total += g.Weight
	}
	return types.AssignmentGroupsOutput{ToolOutput: out, TotalWeight: total}
}

// Quizzes lists the quizzes of a course. When the quizzes endpoint fails the
// quizzes are collected from the course modules instead.
func (f *Fetcher) Quizzes(ctx context.Context, auth types.AuthContext, p CourseParams) types.ToolOutput[types.Quiz] {
	page, size := p.clamped()
	return run(ctx, f, ToolListQuizzes, auth, page, size, func(ctx context.Context, c *canvas.Client, problems *types.Problems) ([]types.Quiz, bool, error) {
		objs, err := c.Quizzes(p.CourseID).All(ctx)
		if err != nil {
			f.logger.Debug("quizzes endpoint failed, walking modules", "course_id", p.CourseID, "error", err)
			problems.Notice("Direct quizzes API unavailable, using module fallback")
			objs, err = f.fromModules(ctx, c, p.CourseID, "Quiz", func(item canvas.Object) canvas.Object {
				quizID := item.ID("content_id")
				if quizID == nil {
					return nil
				}
				quiz, err := c.Quiz(ctx, p.CourseID, *quizID)
				if err != nil {
					return canvas.Object{"id": *quizID, "title": item.Raw("title"), "course_id": p.CourseID}
				}
				return quiz
			})
			if err != nil {
				return nil, false, err
			}
		}
		items, hasMore := slicePage(objs, p.ListParams, updatedAt, func(o canvas.Object) types.Quiz {
			return projectQuiz(o, p.CourseID)
		})
		return items, hasMore, nil
	})
}

// Pages lists the wiki pages of a course, falling back to the pages linked
// from modules when the pages endpoint fails.
func (f *Fetcher) Pages(ctx context.Context, auth types.AuthContext, p CourseParams) types.ToolOutput[types.Page] {
	page, size := p.clamped()
	return run(ctx, f, ToolListPages, auth, page, size, func(ctx context.Context, c *canvas.Client, problems *types.Problems) ([]types.Page, bool, error) {
		objs, err := c.Pages(p.CourseID).All(ctx)
		if err != nil {
			f.logger.Debug("pages endpoint failed, walking modules", "course_id", p.CourseID, "error", err)
			problems.Notice("Direct pages API unavailable, using module fallback")
			objs, err = f.fromModules(ctx, c, p.CourseID, "Page", func(item canvas.Object) canvas.Object {
				pageURL := item.String("page_url")
				if pageURL == nil || *pageURL == "" {
					return nil
				}
				wikiPage, err := c.Page(ctx, p.CourseID, *pageURL)
				if err != nil {
					return canvas.Object{"url": *pageURL, "title": item.Raw("title"), "course_id": p.CourseID}
				}
				return wikiPage
			})
			if err != nil {
				return nil, false, err
			}
		}
		items, hasMore := slicePage(objs, p.ListParams, updatedAt, func(o canvas.Object) types.Page {
			return projectPage(o, p.CourseID)
		})
		return items, hasMore, nil
	})
}

// fromModules resolves every module item of the given type. resolve returns nil
// to skip an item. Modules whose items cannot be listed are skipped.
func (f *Fetcher) fromModules(ctx context.Context, c *canvas.Client, courseID int64, itemType string, resolve func(canvas.Object) canvas.Object) ([]canvas.Object, error) {
	modules, err := c.Modules(courseID).All(ctx)
	if err != nil {
		return nil, err
	}
	var out []canvas.Object
	for _, m := range modules {
		moduleID := m.ID("id")
		if moduleID == nil {
			continue
		}
		items, err := c.ModuleItems(courseID, *moduleID).All(ctx)
		if err != nil {
			f.logger.Debug("skipping module", "course_id", courseID, "module_id", *moduleID, "error", err)
			continue
		}
		for _, item := range items {
			if t := item.String("type"); t == nil || *t != itemType {
				continue
			}
			if obj := resolve(item); obj != nil {
				out = append(out, obj)
			}
		}
	}
	return out, nil
}

// Modules lists the modules of a course.
func (f *Fetcher) Modules(ctx context.Context, auth types.AuthContext, p CourseParams) types.ToolOutput[types.Module] {
	page, size := p.clamped()
	return run(ctx, f, ToolListModules, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.Module, bool, error) {
		return listPage(ctx, c.Modules(p.CourseID), p.ListParams, updatedAt, func(o canvas.Object) types.Module {
			return projectModule(o, p.CourseID)
		})
	})
}

// ModuleItems lists the items of a module.
func (f *Fetcher) ModuleItems(ctx context.Context, auth types.AuthContext, p ModuleItemsParams) types.ToolOutput[types.ModuleItem] {
	page, size := p.clamped()
	return run(ctx, f, ToolListModuleItems, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.ModuleItem, bool, error) {
		return listPage(ctx, c.ModuleItems(p.CourseID, p.ModuleID), p.ListParams, updatedAt, func(o canvas.Object) types.ModuleItem {
			return projectModuleItem(o, p.ModuleID)
		})
	})
}

// Files lists the files of a course.
func (f *Fetcher) Files(ctx context.Context, auth types.AuthContext, p CourseParams) types.ToolOutput[types.File] {
	page, size := p.clamped()
	return run(ctx, f, ToolListFiles, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.File, bool, error) {
		return listPage(ctx, c.Files(p.CourseID), p.ListParams, updatedAt, projectFile)
	})
}

package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"academy/internal/cache"
	"academy/internal/content"
	"academy/internal/metrics"
	"academy/internal/model"
	"academy/internal/repository"

	apperrors "academy/internal/errors"
)

const (
	courseTitleCacheTTL = 5 * time.Minute

	activationCodeLength   = 15
	activationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	activationCodeAttempts = 5
)

// CourseAccessService manages course titles and who may read their pages.
type CourseAccessService interface {
	CreateCourseTitle(ctx context.Context, name, description string) (*model.CourseTitle, error)
	RenameCourseTitle(ctx context.Context, id uint, newName string) (*model.CourseTitle, error)
	DeleteCourseTitle(ctx context.Context, id uint) error
	AddPage(ctx context.Context, titleID uint, heading, body string) (*model.Course, error)
	IssueActivationCode(ctx context.Context, userID, titleID uint) (*model.ActivationCode, error)
	// ActivateCode redeems a code, granting its user the course owner role.
	ActivateCode(ctx context.Context, code string) (bool, error)
	// ActivateCodeFor is ActivateCode restricted to codes issued to userID.
	ActivateCodeFor(ctx context.Context, userID uint, code string) (bool, error)
	CanViewPage(ctx context.Context, userID uint, titleName string, page int) (bool, error)
	// ViewPage returns the page when CanViewPage holds and nil otherwise.
	ViewPage(ctx context.Context, userID uint, titleName string, page int) (*model.Course, error)
	// Advance moves the user's progress from fromPage to the next page and
	// returns the page the user is now on.
	Advance(ctx context.Context, userID uint, titleName string, fromPage int) (int, error)
	HasRole(ctx context.Context, userID uint, roleName string) (bool, error)
}

type courseAccessService struct {
	repos     repository.Manager
	cache     *cache.Client
	sanitizer *content.Sanitizer
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewCourseAccessService creates a CourseAccessService. cache may be nil.
func NewCourseAccessService(repos repository.Manager, cache *cache.Client, recorder metrics.Recorder, logger *slog.Logger) CourseAccessService {
	return &courseAccessService{
		repos:     repos,
		cache:     cache,
		sanitizer: content.NewSanitizer(),
		metrics:   recorderOrNop(recorder),
		logger:    loggerOrDefault(logger),
	}
}

func (s *courseAccessService) cacheKey(name string) string {
	return "course_title:" + strings.TrimSpace(name)
}

func (s *courseAccessService) CreateCourseTitle(ctx context.Context, name, description string) (*model.CourseTitle, error) {
	name = strings.TrimSpace(name)
	title := &model.CourseTitle{
		Name:        name,
		Description: description,
		RoleName:    model.CourseOwnerRoleName(name),
	}

	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		if err := s.ensureAvailable(ctx, tx, name, title.RoleName); err != nil {
			return err
		}
		if err := tx.Roles().Create(ctx, &model.Role{Name: title.RoleName, Description: "Owner of " + name}); err != nil {
			return err
		}
		return tx.Courses().CreateTitle(ctx, title)
	})
	if err != nil {
		return nil, fmt.Errorf("create course title: %w", err)
	}

	s.logger.InfoContext(ctx, "course title created", "title_id", title.ID, "role", title.RoleName)
	return title, nil
}

func (s *courseAccessService) ensureAvailable(ctx context.Context, tx repository.Manager, name, roleName string) error {
	exists, err := tx.Courses().ExistsTitleByName(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrCourseTitleExists
	}
	exists, err = tx.Roles().ExistsByName(ctx, roleName)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrCourseTitleExists
	}
	return nil
}

func (s *courseAccessService) RenameCourseTitle(ctx context.Context, id uint, newName string) (*model.CourseTitle, error) {
	newName = strings.TrimSpace(newName)
	var (
		title   *model.CourseTitle
		oldName string
	)
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		var err error
		title, err = tx.Courses().FindTitleByID(ctx, id)
		if err != nil {
			return err
		}
		if title == nil {
			return apperrors.ErrCourseTitleNotFound
		}
		oldName = title.Name
		if oldName == newName {
			return nil
		}

		newRole := model.CourseOwnerRoleName(newName)
		exists, err := tx.Courses().ExistsTitleByNameExcept(ctx, newName, title.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrCourseTitleExists
		}

		if newRole != title.RoleName {
			taken, err := tx.Roles().ExistsByName(ctx, newRole)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.ErrCourseTitleExists
			}

			role, err := tx.Roles().FindByName(ctx, title.RoleName)
			if err != nil {
				return err
			}
			if role == nil {
				role = &model.Role{Name: newRole, Description: "Owner of " + newName}
				if err := tx.Roles().Create(ctx, role); err != nil {
					return err
				}
			} else {
				role.Name = newRole
				role.Description = "Owner of " + newName
				if err := tx.Roles().Update(ctx, role); err != nil {
					return err
				}
			}
		}

		title.Name = newName
		title.RoleName = newRole
		return tx.Courses().UpdateTitle(ctx, title)
	})
	if err != nil {
		return nil, fmt.Errorf("rename course title: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(oldName), s.cacheKey(newName))
	s.logger.InfoContext(ctx, "course title renamed", "title_id", id, "role", title.RoleName)
	return title, nil
}

func (s *courseAccessService) DeleteCourseTitle(ctx context.Context, id uint) error {
	var name string
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		title, err := tx.Courses().FindTitleByID(ctx, id)
		if err != nil {
			return err
		}
		if title == nil {
			return apperrors.ErrCourseTitleNotFound
		}
		name = title.Name

		if err := tx.Progress().DeleteByCourseTitle(ctx, id); err != nil {
			return err
		}
		if err := tx.ActivationCodes().DeleteByCourseTitle(ctx, id); err != nil {
			return err
		}
		if err := tx.Courses().DeletePages(ctx, id); err != nil {
			return err
		}
		role, err := tx.Roles().FindByName(ctx, title.RoleName)
		if err != nil {
			return err
		}
		// Never drop a static role, even if the title row points at one.
		if role != nil && model.IsCourseOwnerRole(role.Name) {
			if err := tx.Roles().Delete(ctx, role); err != nil {
				return err
			}
		}
		return tx.Courses().DeleteTitle(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete course title: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(name))
	s.logger.InfoContext(ctx, "course title deleted", "title_id", id)
	return nil
}

func (s *courseAccessService) AddPage(ctx context.Context, titleID uint, heading, body string) (*model.Course, error) {
	body = s.sanitizer.Sanitize(body)
	var page *model.Course
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		title, err := tx.Courses().FindTitleByID(ctx, titleID)
		if err != nil {
			return err
		}
		if title == nil {
			return apperrors.ErrCourseTitleNotFound
		}
		last, err := tx.Courses().LastPage(ctx, titleID)
		if err != nil {
			return err
		}
		page = &model.Course{
			CourseTitleID: titleID,
			Page:          last + 1,
			Heading:       heading,
			Content:       body,
		}
		return tx.Courses().CreatePage(ctx, page)
	})
	if err != nil {
		return nil, fmt.Errorf("add page: %w", err)
	}
	return page, nil
}

func (s *courseAccessService) IssueActivationCode(ctx context.Context, userID, titleID uint) (*model.ActivationCode, error) {
	title, err := s.repos.Courses().FindTitleByID(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("issue activation code: %w", err)
	}
	if title == nil {
		return nil, apperrors.ErrCourseTitleNotFound
	}
	exists, err := s.repos.Users().ExistsByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("issue activation code: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	for attempt := 0; attempt < activationCodeAttempts; attempt++ {
		code, err := newActivationCode()
		if err != nil {
			return nil, fmt.Errorf("issue activation code: %w", err)
		}
		taken, err := s.repos.ActivationCodes().ExistsByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("issue activation code: %w", err)
		}
		if taken {
			continue
		}

		ac := &model.ActivationCode{Code: code, UserID: userID, CourseTitleID: titleID, CourseTitle: title}
		if err := s.repos.ActivationCodes().Create(ctx, ac); err != nil {
			return nil, fmt.Errorf("issue activation code: %w", err)
		}
		s.logger.InfoContext(ctx, "activation code issued", "user_id", userID, "title_id", titleID)
		return ac, nil
	}
	return nil, fmt.Errorf("issue activation code: no free code after %d attempts", activationCodeAttempts)
}

func (s *courseAccessService) ActivateCode(ctx context.Context, code string) (bool, error) {
	return s.activate(ctx, code, 0)
}

func (s *courseAccessService) ActivateCodeFor(ctx context.Context, userID uint, code string) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.activate(ctx, code, userID)
}

// activate redeems code. A non-zero owner must match the user the code was issued to.
func (s *courseAccessService) activate(ctx context.Context, code string, owner uint) (bool, error) {
	var activated bool
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		ac, err := tx.ActivationCodes().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if ac == nil || ac.Code != code || ac.CourseTitle == nil {
			return nil
		}
		if owner != 0 && ac.UserID != owner {
			return nil
		}
		title := ac.CourseTitle

		role, err := tx.Roles().FindByName(ctx, title.RoleName)
		if err != nil {
			return err
		}
		if role == nil {
			s.logger.WarnContext(ctx, "course owner role missing", "title_id", title.ID, "role", title.RoleName)
			return nil
		}

		has, err := tx.Users().HasRole(ctx, ac.UserID, role.Name)
		if err != nil {
			return err
		}
		if !has {
			if err := tx.Users().AddRole(ctx, ac.UserID, role); err != nil {
				return err
			}
		}

		progress, err := tx.Progress().Find(ctx, ac.UserID, title.ID)
		if err != nil {
			return err
		}
		if progress == nil {
			first, err := tx.Courses().FindPage(ctx, title.ID, 1)
			if err != nil {
				return err
			}
			if first != nil {
				progress = &model.CourseProgress{UserID: ac.UserID, CourseTitleID: title.ID, CourseID: first.ID}
				if err := tx.Progress().Create(ctx, progress); err != nil {
					return err
				}
			}
		}

		deleted, err := tx.ActivationCodes().DeleteByCode(ctx, ac.Code)
		if err != nil {
			return err
		}
		if !deleted {
			return errLostRace
		}
		activated = true
		return nil
	})
	if errors.Is(err, errLostRace) {
		s.metrics.RecordActivation(false)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("activate code: %w", err)
	}

	s.metrics.RecordActivation(activated)
	if activated {
		s.logger.InfoContext(ctx, "activation code redeemed")
	}
	return activated, nil
}

func (s *courseAccessService) CanViewPage(ctx context.Context, userID uint, titleName string, page int) (bool, error) {
	course, err := s.ViewPage(ctx, userID, titleName, page)
	if err != nil {
		return false, err
	}
	return course != nil, nil
}

func (s *courseAccessService) ViewPage(ctx context.Context, userID uint, titleName string, page int) (*model.Course, error) {
	title, err := s.titleByName(ctx, titleName)
	if err != nil || title == nil {
		return nil, err
	}

	owns, err := s.repos.Users().HasRole(ctx, userID, title.RoleName)
	if err != nil {
		return nil, fmt.Errorf("view page: %w", err)
	}
	if !owns {
		return nil, nil
	}

	course, err := s.repos.Courses().FindPage(ctx, title.ID, page)
	if err != nil {
		return nil, fmt.Errorf("view page: %w", err)
	}
	if course == nil {
		return nil, nil
	}

	progress, err := s.repos.Progress().Find(ctx, userID, title.ID)
	if err != nil {
		return nil, fmt.Errorf("view page: %w", err)
	}
	if progress == nil || progress.Course == nil || page > progress.Course.Page {
		return nil, nil
	}
	return course, nil
}

func (s *courseAccessService) Advance(ctx context.Context, userID uint, titleName string, fromPage int) (int, error) {
	title, err := s.titleByName(ctx, titleName)
	if err != nil {
		return fromPage, err
	}
	if title == nil {
		return fromPage, nil
	}

	current := fromPage
	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx repository.Manager) error {
		progress, err := tx.Progress().Find(ctx, userID, title.ID)
		if err != nil {
			return err
		}
		if progress == nil || progress.Course == nil || progress.Course.Page != fromPage {
			return nil
		}
		next, err := tx.Courses().FindPage(ctx, title.ID, fromPage+1)
		if err != nil || next == nil {
			return err
		}
		if err := tx.Progress().MoveTo(ctx, progress.ID, next.ID); err != nil {
			return err
		}
		current = next.Page
		return nil
	})
	if err != nil {
		return fromPage, fmt.Errorf("advance: %w", err)
	}
	return current, nil
}

func (s *courseAccessService) HasRole(ctx context.Context, userID uint, roleName string) (bool, error) {
	has, err := s.repos.Users().HasRole(ctx, userID, roleName)
	if err != nil {
		return false, fmt.Errorf("has role: %w", err)
	}
	return has, nil
}

// titleByName is a cache-aside lookup; cache failures fall through to the database.
func (s *courseAccessService) titleByName(ctx context.Context, name string) (*model.CourseTitle, error) {
	key := s.cacheKey(name)
	var cached model.CourseTitle
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	title, err := s.repos.Courses().FindTitleByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("find course title: %w", err)
	}
	if title != nil {
		_ = s.cache.SetJSON(ctx, key, title, courseTitleCacheTTL)
	}
	return title, nil
}

// newActivationCode draws an alphanumeric code without modulo bias.
func newActivationCode() (string, error) {
	const limit = 256 - 256%len(activationCodeAlphabet)
	code := make([]byte, 0, activationCodeLength)
	buf := make([]byte, activationCodeLength*2)
	for len(code) < activationCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, activationCodeAlphabet[int(b)%len(activationCodeAlphabet)])
			if len(code) == activationCodeLength {
				break
			}
		}
	}
	return string(code), nil
}
